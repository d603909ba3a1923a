package storage

import (
	"context"
	"io"
)

// Uploader stores finalized interview artifacts (transcript exports).
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedURL string, err error)
}
