// ABOUTME: File-backed storage persisted as session.json in the config dir
// ABOUTME: Re-reads on every Get so concurrent processes see the latest pair

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// FileName is the name of the session document inside the config directory
const FileName = "session.json"

// File stores keys in a JSON document replaced atomically on each write
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates a File storage rooted at dir
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Path returns the location of the session document
func (f *File) Path() string {
	return filepath.Join(f.dir, FileName)
}

// Get returns the value stored under key
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// SetAll merges values into the document in one write
func (f *File) SetAll(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return f.save(current)
}

// Remove deletes keys from the document in one write.
// Removing keys that are not present is not an error.
func (f *File) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", f.Path(), err)
		}
		return nil
	}
	return f.save(current)
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path(), err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Corrupt document, start fresh
		slog.Warn("Ignoring unreadable session file", "path", f.Path(), "error", err)
		return map[string]string{}, nil
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", f.dir, err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(f.Path(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path(), err)
	}
	return os.Chmod(f.Path(), 0600)
}
