package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/sigpad/pkg/errors"
)

// File stores each key as a JSON file in a directory.
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so a crash leaves either the old or the new contents.
type File struct {
	mu  sync.RWMutex
	dir string
}

// NewFile creates a file backend rooted at dir.
// The directory will be created if it doesn't exist.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "queue directory is empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create queue dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the backend directory.
func (f *File) Dir() string {
	return f.dir
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Read returns the file contents, or (nil, nil) if the file does not exist.
func (f *File) Read(ctx context.Context, key string) ([]byte, error) {
	if err := errors.ValidateQueueKey(key); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.Path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read queue file: %w", err)
	}
	return data, nil
}

// Write atomically replaces the file for key.
func (f *File) Write(ctx context.Context, key string, data []byte) error {
	if err := errors.ValidateQueueKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write queue file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync queue file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close queue file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		cleanup()
		return fmt.Errorf("chmod queue file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		cleanup()
		return fmt.Errorf("rename queue file: %w", err)
	}
	return nil
}

// Clear removes the file for key.
func (f *File) Clear(ctx context.Context, key string) error {
	if err := errors.ValidateQueueKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.Path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Take reads the file and removes it under one lock.
func (f *File) Take(ctx context.Context, key string) ([]byte, error) {
	if err := errors.ValidateQueueKey(key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.Path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read queue file: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove queue file: %w", err)
	}
	return data, nil
}

// Close does nothing for the file backend.
func (f *File) Close() error {
	return nil
}

var (
	_ Backend = (*File)(nil)
	_ Taker   = (*File)(nil)
)
