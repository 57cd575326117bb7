package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps generated exports on the local filesystem, rooted at
// a single base directory. Relative paths passed to its methods are
// resolved against that root.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = "./exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create export root %s: %w", root, err)
	}
	return &LocalStorage{root: root}, nil
}

// Save writes data at the given relative path and returns it unchanged.
func (s *LocalStorage) Save(name string, data []byte) (string, error) {
	target := s.abs(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare export dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write export %s: %w", name, err)
	}
	return name, nil
}

// Open returns a read handle on a stored export.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	file, err := os.Open(s.abs(name))
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", name, err)
	}
	return file, nil
}

// Delete removes a stored export. Missing files are not an error.
func (s *LocalStorage) Delete(name string) error {
	if err := os.Remove(s.abs(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete export %s: %w", name, err)
	}
	return nil
}

// CleanupOlderThan removes every export whose mtime predates the TTL and
// returns the relative names of the removed files.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var removed []string
	err := filepath.WalkDir(s.root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}
		removed = append(removed, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup exports: %w", err)
	}
	return removed, nil
}

// Path resolves a relative export name to its absolute location.
func (s *LocalStorage) Path(name string) string {
	return s.abs(name)
}

func (s *LocalStorage) abs(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}
