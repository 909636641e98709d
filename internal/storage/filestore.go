package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore saves uploaded invoice files and generated CSV exports
// under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// SaveUpload writes an uploaded file under a fresh uuid-prefixed name so
// concurrent uploads of the same file name cannot collide. It returns the
// stored path.
func (f *FileStore) SaveUpload(fileName string, r io.Reader) (string, error) {
	target := filepath.Join(f.basePath, uuid.New().String()+"_"+safeFilename(fileName))
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return target, nil
}

// WriteFile writes data under the given name, replacing any previous
// file, and returns the stored path. Used for per-owner CSV snapshots.
func (f *FileStore) WriteFile(name string, data []byte) (string, error) {
	target := filepath.Join(f.basePath, safeFilename(name))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return target, nil
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload"
	}
	return name
}
