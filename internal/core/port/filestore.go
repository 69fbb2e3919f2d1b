package port

import (
	"context"
	"io"
)

type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

//go:generate mockgen -source=filestore.go -destination=mock/filestore.go -package=mock
type FileStore interface {
	// Save stores the upload and returns the retrievable path kept on
	// the order.
	Save(ctx context.Context, upload Upload) (string, error)
}
