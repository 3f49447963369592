package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Filesystem stores blobs under a local directory. The server serves the
// directory itself, so the returned URLs are relative to the site root.
type Filesystem struct {
	dir     string
	baseURL string
}

// NewFilesystem creates the directory if needed and returns the store.
func NewFilesystem(dir, baseURL string) (*Filesystem, error) {
	if dir == "" {
		dir = "uploads"
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &Filesystem{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes the blob to disk and returns its serving URL.
func (f *Filesystem) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	dst := filepath.Join(f.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating blob subdirectory: %w", err)
	}

	file, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating blob file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("writing blob: %w", err)
	}

	return f.baseURL + "/" + path.Clean(key), nil
}

// Delete removes a blob. Missing blobs are not an error.
func (f *Filesystem) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(f.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// Dir returns the local directory, for wiring the file server.
func (f *Filesystem) Dir() string {
	return f.dir
}

func (f *Filesystem) Driver() Driver {
	return DriverFilesystem
}
