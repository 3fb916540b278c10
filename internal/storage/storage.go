package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidKey      = errors.New("invalid storage key")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// ImageStore keeps listing and profile images. Keys are slash separated
// relative paths such as "listings/12/<uuid>.jpg".
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL is the public address clients use to fetch key.
	URL(key string) string
	// KeyFromURL reverses URL; ok is false for images hosted elsewhere.
	KeyFromURL(url string) (key string, ok bool)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NewImageKey builds a fresh key under prefix for an upload of contentType.
func NewImageKey(prefix, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return path.Join(prefix, uuid.NewString()+ext), nil
}

// CleanKey rejects absolute keys and keys escaping the store root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
