package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/runecoins/coinstore/internal/adapter/config"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DiskStore saves uploaded evidence images under a local directory and
// returns paths servable at /uploads.
type DiskStore struct {
	dir     string
	maxSize int64
}

func NewDiskStore(cfg *config.Uploads) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &DiskStore{dir: cfg.Dir, maxSize: cfg.MaxSizeBytes}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Save(ctx context.Context, upload port.Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Name))
	if !allowedExtensions[ext] {
		return "", domain.ErrBadRequest
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return "", domain.ErrBadRequest
	}

	filename := uuid.NewString() + ext
	fullPath := filepath.Join(s.dir, filename)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	limit := upload.Size
	if s.maxSize > 0 {
		limit = s.maxSize
	}
	written, err := io.Copy(f, io.LimitReader(upload.Content, limit+1))
	if err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		_ = os.Remove(fullPath)
		return "", domain.ErrBadRequest
	}

	return "/uploads/" + filename, nil
}
