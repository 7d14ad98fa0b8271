package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists the selection as a single word in a file, the moral
// equivalent of a browser's localStorage entry.
type FileStore struct {
	path string
}

// NewFileStore persists under the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored selection. A missing or corrupt file is not an error;
// it reads as the light default.
func (s *FileStore) Load() (Selection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return SelectionLight, nil
		}
		return SelectionLight, fmt.Errorf("reading theme file: %w", err)
	}

	sel, err := ParseSelection(strings.TrimSpace(string(data)))
	if err != nil {
		return SelectionLight, nil
	}
	return sel, nil
}

// Save writes atomically via a temp file so a crash never leaves a truncated
// value behind.
func (s *FileStore) Save(sel Selection) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating theme dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".theme-*")
	if err != nil {
		return fmt.Errorf("creating temp theme file: %w", err)
	}
	if _, err := tmp.WriteString(string(sel) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing theme file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing theme file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing theme file: %w", err)
	}
	return nil
}
