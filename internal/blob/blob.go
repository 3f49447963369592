package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Driver identifies a concrete blob storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs" // local uploads directory (default)
	DriverS3         Driver = "s3" // S3 / MinIO compatible
)

// Store persists uploaded item photos. Put returns a URL under which the
// blob stays retrievable for as long as the record referencing it lives.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Driver() Driver
}

// NewKey builds an object key for an uploaded photo: a UUID prefix keeps keys
// unique, the sanitized original filename keeps them recognizable.
func NewKey(filename string) string {
	return "items/" + uuid.NewString() + "-" + sanitizeFilename(filename)
}

// sanitizeFilename reduces a client-supplied filename to a safe key segment.
func sanitizeFilename(name string) string {
	// Strip any path components.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	s := strings.Trim(b.String(), "._")
	if s == "" {
		return "photo.jpg"
	}
	return s
}

// Config selects and configures a backend.
type Config struct {
	Driver Driver

	// Filesystem driver.
	Dir     string // local directory for blobs
	BaseURL string // URL prefix the directory is served under

	// S3 driver.
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO-compatible stores
	PathStyle bool
	PublicURL string // optional explicit public base URL for stored objects
}

// Open constructs a Store from the configuration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.Dir, cfg.BaseURL)
	case DriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
