package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	mimeFolder = "application/vnd.google-apps.folder"
	mimeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLSM   = "application/vnd.ms-excel.sheet.macroEnabled.12"
)

// GoogleDrive talks to the Drive v3 API with a service account. All lookups
// are scoped to ParentID.
type GoogleDrive struct {
	svc      *drivev3.Service
	ParentID string
}

func NewGoogle(ctx context.Context, credentialsFile, parentID string) (*GoogleDrive, error) {
	svc, err := drivev3.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drivev3.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &GoogleDrive{svc: svc, ParentID: parentID}, nil
}

func (g *GoogleDrive) FindFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("mimeType = '%s' and name = '%s' and '%s' in parents and trashed = false",
		mimeFolder, escapeQuery(name), escapeQuery(g.ParentID))
	list, err := g.svc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", ErrNotFound
	}
	return list.Files[0].Id, nil
}

func (g *GoogleDrive) EnsureFolder(ctx context.Context, name string) (string, error) {
	id, err := g.FindFolder(ctx, name)
	if err == nil {
		return id, nil
	}
	if err != ErrNotFound {
		return "", err
	}
	folder, err := g.svc.Files.Create(&drivev3.File{
		Name:     name,
		MimeType: mimeFolder,
		Parents:  []string{g.ParentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return folder.Id, nil
}

func (g *GoogleDrive) FindSpreadsheet(ctx context.Context, folderID, marker string) (File, error) {
	q := fmt.Sprintf("('%s' in parents) and (mimeType = '%s' or mimeType = '%s') and name contains '%s' and trashed = false",
		escapeQuery(folderID), mimeXLSM, mimeXLSX, escapeQuery(marker))
	list, err := g.svc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return File{}, err
	}
	if len(list.Files) == 0 {
		return File{}, ErrNotFound
	}
	return File{ID: list.Files[0].Id, Name: list.Files[0].Name}, nil
}

func (g *GoogleDrive) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := g.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (g *GoogleDrive) Replace(ctx context.Context, fileID string, data []byte) error {
	_, err := g.svc.Files.Update(fileID, &drivev3.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeXLSX)).
		Context(ctx).Do()
	return err
}

func (g *GoogleDrive) CreateOrReplace(ctx context.Context, folderID, name string, data []byte) (string, error) {
	q := fmt.Sprintf("('%s' in parents) and name = '%s' and trashed = false",
		escapeQuery(folderID), escapeQuery(name))
	list, err := g.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) > 0 {
		id := list.Files[0].Id
		if err := g.Replace(ctx, id, data); err != nil {
			return "", err
		}
		return id, nil
	}
	created, err := g.svc.Files.Create(&drivev3.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(bytes.NewReader(data), googleapi.ContentType(mimeXLSX)).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (g *GoogleDrive) Ping(ctx context.Context) error {
	_, err := g.svc.About.Get().Fields("user").Context(ctx).Do()
	return err
}

func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
