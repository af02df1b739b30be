package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileKV is a single-file key-value store for the CLI, where a Redis
// dependency would be unreasonable. The whole map serializes as one JSON
// object per file.
type FileKV struct {
	mu   sync.Mutex
	path string
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return "", err
	}
	return m[key], nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return err
	}
	m[key] = value
	return f.write(m)
}

func (f *FileKV) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return err
	}
	delete(m, key)
	return f.write(m)
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &PersistenceFailure{Op: "read", Key: f.path, Err: err}
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		// A damaged store starts over; the audit contract degrades to empty.
		return map[string]string{}, nil
	}
	return m, nil
}

func (f *FileKV) write(m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return &PersistenceFailure{Op: "mkdir", Key: f.path, Err: err}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return &PersistenceFailure{Op: "write", Key: f.path, Err: err}
	}
	return nil
}
