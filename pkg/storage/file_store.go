package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileStore saves audio bytes under a local directory (default audio/).
// Files are named {id}{ext} so names can repeat across handles.
type FileStore struct {
	Dir string

	mu   sync.Mutex
	live map[string]string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "audio"
	}
	return &FileStore{Dir: dir, live: make(map[string]string)}
}

func (fs *FileStore) Put(name string, data []byte) (Handle, error) {
	if name == "" {
		return Handle{}, ErrEmptyName
	}
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return Handle{}, fmt.Errorf("create store dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(fs.Dir, id+filepath.Ext(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Handle{}, fmt.Errorf("write %s: %w", name, err)
	}

	fs.mu.Lock()
	fs.live[id] = path
	fs.mu.Unlock()

	return Handle{ID: id, Name: name, Size: len(data), Path: path}, nil
}

func (fs *FileStore) Open(h Handle) ([]byte, error) {
	fs.mu.Lock()
	path, ok := fs.live[h.ID]
	fs.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("open %s: %w", h.Name, ErrNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.Name, err)
	}
	return data, nil
}

func (fs *FileStore) Release(h Handle) error {
	if h.IsZero() {
		return nil
	}

	fs.mu.Lock()
	path, ok := fs.live[h.ID]
	delete(fs.live, h.ID)
	fs.mu.Unlock()
	if !ok {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", h.Name, err)
	}
	return nil
}

func (fs *FileStore) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.live)
}
