package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

// ReceiptRepository is the interface for receipt image storage.
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GenerateURL(objectPath string) string
}

// GenerateObjectPath creates a unique object path for a receipt image.
func GenerateObjectPath(ext string) string {
	return path.Join("receipts", fmt.Sprintf("%s%s", uuid.New().String(), ext))
}
