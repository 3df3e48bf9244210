package storage

import (
	"context"
	"io"
)

// FileStorage abstracts where photo renditions live. The attendance flow
// writes compressed JPEGs and the uploads route reads them back by filename.
type FileStorage interface {
	// Upload writes a file and returns its storage path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
