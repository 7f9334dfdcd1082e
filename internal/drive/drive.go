package drive

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a folder or file lookup has no match.
var ErrNotFound = errors.New("drive: not found")

// File identifies a remote spreadsheet.
type File struct {
	ID   string
	Name string
}

// Store is the remote file store behind the app: folder lookup scoped to a
// fixed parent folder, spreadsheet lookup by marker, and whole-file
// download/replace. Payloads are opaque spreadsheet bytes.
type Store interface {
	// FindFolder returns the id of the folder with the exact given name
	// directly under the parent folder.
	FindFolder(ctx context.Context, name string) (string, error)
	// EnsureFolder is FindFolder plus create-if-absent. Idempotent.
	EnsureFolder(ctx context.Context, name string) (string, error)
	// FindSpreadsheet returns the first spreadsheet in the folder whose
	// name contains marker and whose type is an accepted spreadsheet type.
	FindSpreadsheet(ctx context.Context, folderID, marker string) (File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	// Replace overwrites the content of an existing file.
	Replace(ctx context.Context, fileID string, data []byte) error
	// CreateOrReplace writes a named file into a folder, replacing a
	// previous file of the same name if present. Returns the file id.
	CreateOrReplace(ctx context.Context, folderID, name string, data []byte) (string, error)
	Ping(ctx context.Context) error
}
