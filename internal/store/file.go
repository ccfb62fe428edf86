package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps named slots in a single JSON object on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// OpenFile returns a FileStore backed by path. The file is created on first write.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	return &FileStore{path: path}, nil
}

// Close is a no-op; it lets FileStore stand in for the SQLite store.
func (f *FileStore) Close() error {
	return nil
}

// Get returns the value stored under key.
func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.read()
	if err != nil {
		return "", false, err
	}
	raw, ok := slots[key]
	if !ok {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Put replaces the value stored under key. The value must be valid JSON.
func (f *FileStore) Put(_ context.Context, key, value string) error {
	if !json.Valid([]byte(value)) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.read()
	if err != nil {
		return err
	}
	slots[key] = json.RawMessage(value)
	return f.write(slots)
}

// Delete removes the slot.
func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := slots[key]; !ok {
		return nil
	}
	delete(slots, key)
	return f.write(slots)
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	slots := map[string]json.RawMessage{}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return slots, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return slots, nil
}

func (f *FileStore) write(slots map[string]json.RawMessage) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "slots-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}
