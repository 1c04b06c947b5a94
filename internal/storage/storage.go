package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Storage holds listing images. Keys are slash-separated and relative.
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
}

type Config struct {
	Type       string // local, s3
	BasePath   string // local only
	BaseURL    string // public URL prefix
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // S3-compatible endpoint (R2, MinIO)
	PublicRead bool
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// PropertyImageKeys returns the original and thumbnail keys for a new image.
func PropertyImageKeys(propertyID, ext string) (original, thumb string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "jpg"
	}
	id := uuid.NewString()
	dir := path.Join("properties", propertyID)
	return path.Join(dir, id+"."+ext), path.Join(dir, id+"_thumb.jpg")
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
