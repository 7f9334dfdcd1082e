package drive

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-process Store used when no Drive credentials are
// configured, and by tests. File ids are stable across a process lifetime.
type Memory struct {
	mu      sync.Mutex
	nextID  int
	folders map[string]string            // folder name -> id
	files   map[string]*memFile          // file id -> file
	byDir   map[string][]string          // folder id -> file ids, insertion order
}

type memFile struct {
	id     string
	name   string
	folder string
	data   []byte
}

func NewMemory() *Memory {
	return &Memory{
		folders: map[string]string{},
		files:   map[string]*memFile{},
		byDir:   map[string][]string{},
	}
}

// AddFolder registers a folder under the parent and returns its id.
func (m *Memory) AddFolder(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addFolderLocked(name)
}

func (m *Memory) addFolderLocked(name string) string {
	if id, ok := m.folders[name]; ok {
		return id
	}
	m.nextID++
	id := fmt.Sprintf("folder-%d", m.nextID)
	m.folders[name] = id
	return id
}

// SeedFile places a file with a caller-chosen id, e.g. the configured
// assignment-store file id.
func (m *Memory) SeedFile(id, name, folderID string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = &memFile{id: id, name: name, folder: folderID, data: data}
	m.byDir[folderID] = append(m.byDir[folderID], id)
}

// AddFile places a file into a folder with a generated id.
func (m *Memory) AddFile(folderID, name string, data []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addFileLocked(folderID, name, data)
}

func (m *Memory) addFileLocked(folderID, name string, data []byte) string {
	m.nextID++
	id := fmt.Sprintf("file-%d", m.nextID)
	m.files[id] = &memFile{id: id, name: name, folder: folderID, data: data}
	m.byDir[folderID] = append(m.byDir[folderID], id)
	return id
}

// FileData returns a file's current content, for test assertions.
func (m *Memory) FileData(id string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}

// FileNames lists file names in a folder, in insertion order.
func (m *Memory) FileNames(folderID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range m.byDir[folderID] {
		out = append(out, m.files[id].name)
	}
	return out
}

func (m *Memory) FindFolder(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.folders[name]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

func (m *Memory) EnsureFolder(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addFolderLocked(name), nil
}

func (m *Memory) FindSpreadsheet(ctx context.Context, folderID, marker string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byDir[folderID] {
		f := m.files[id]
		if !strings.Contains(f.name, marker) {
			continue
		}
		if strings.HasSuffix(f.name, ".xlsx") || strings.HasSuffix(f.name, ".xlsm") {
			return File{ID: f.id, Name: f.name}, nil
		}
	}
	return File{}, ErrNotFound
}

func (m *Memory) Download(ctx context.Context, fileID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), f.data...), nil
}

func (m *Memory) Replace(ctx context.Context, fileID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[fileID]
	if !ok {
		return ErrNotFound
	}
	f.data = append([]byte(nil), data...)
	return nil
}

func (m *Memory) CreateOrReplace(ctx context.Context, folderID, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byDir[folderID] {
		if m.files[id].name == name {
			m.files[id].data = append([]byte(nil), data...)
			return id, nil
		}
	}
	return m.addFileLocked(folderID, name, data), nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
