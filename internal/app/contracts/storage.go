package contracts

import (
	"context"
	"io"
)

// ReceiptStorage is the direct receipt archive used by the first-attempt
// manual upload and the operator review channel. Retries go through the
// ledger-issued upload URL path instead.
type ReceiptStorage interface {
	UploadReceipt(ctx context.Context, file io.Reader, fileName, contentType string, size int64) (string, error)
	PresignedReviewURL(ctx context.Context, storageID string) (string, error)
}
