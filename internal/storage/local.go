package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hazel-marketplace/internal/logger"
)

// LocalStore implements ImageStore on the local filesystem. Files are served
// back by the HTTP layer under /images/.
type LocalStore struct {
	baseURL  string // Server URL (e.g., "http://localhost:8080")
	rootDir  string
	maxBytes int64
}

// NewLocalStore creates uploadsDir/images if needed.
func NewLocalStore(baseURL, uploadsDir string, maxBytes int64) (*LocalStore, error) {
	rootDir := filepath.Join(uploadsDir, "images")
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &LocalStore{
		baseURL:  strings.TrimRight(baseURL, "/"),
		rootDir:  rootDir,
		maxBytes: maxBytes,
	}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(cleaned)), nil
}

// Save writes r to key. A write larger than the configured limit is removed
// and reported as ErrFileTooLarge.
func (s *LocalStore) Save(_ context.Context, key string, r io.Reader) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, copyErr := io.Copy(file, src)
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", copyErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		os.Remove(fullPath)
		return ErrFileTooLarge
	case closeErr != nil:
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	logger.Debug("Image saved", "key", key, "bytes", n)
	return nil
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.baseURL + "/images/" + key
}

func (s *LocalStore) KeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/images/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if _, err := CleanKey(key); err != nil {
		return "", false
	}
	return key, true
}
