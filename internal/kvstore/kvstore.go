// Package kvstore provides the durable key-value storage the storefront
// client keeps its session and cart under, mirroring what a browser keeps
// in localStorage.
package kvstore

import (
	"os"
	"path/filepath"
	"sync"
)

// Store is durable key-value storage. Implementations must make Set visible
// to a later Get even across process restarts, except for Memory which is
// meant for tests.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// File stores each key as a JSON file inside a directory. Writes go to a
// temp file first and are renamed into place so a crash never leaves a
// half-written value behind.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the backing directory if needed and returns the store.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the stored value for key. The second return is false when the
// key has never been set.
func (f *File) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set durably stores value under key.
func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), f.path(key))
}

// Delete removes key. Deleting an absent key is a no-op.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Memory is an in-memory Store for tests.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte

	// SetErr, when non-nil, is returned by every Set. Tests use it to
	// simulate persistence failures.
	SetErr error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
