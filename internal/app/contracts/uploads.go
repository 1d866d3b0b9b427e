package contracts

import (
	"context"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/dto/responses"
)

// UploadQueueRepository persists the per-application upload queue.
type UploadQueueRepository interface {
	SaveQueue(ctx context.Context, queueID string, operations []models.UploadOperation) error
	GetQueue(ctx context.Context, queueID string) ([]models.UploadOperation, error)
}

// FileSource abstracts access to the receipt file bytes referenced by an
// UploadOperation. Probe re-validates reachability before a retry.
type FileSource interface {
	Probe(ctx context.Context, uri string) error
	Read(ctx context.Context, uri string) ([]byte, error)
}

// BlobUploader posts raw bytes to a ledger-issued upload URL and returns the
// opaque storage reference.
type BlobUploader interface {
	Upload(ctx context.Context, url string, data []byte, contentType string) (string, error)
}

type UploadQueueUsecase interface {
	Enqueue(ctx context.Context, queueID string, descriptor models.FileDescriptor, documentID string) (*models.UploadOperation, error)
	RetryFailed(ctx context.Context, queueID string) (*responses.RetryFailedResponse, error)
	HasFailed(ctx context.Context, queueID string) (bool, error)
	List(ctx context.Context, queueID string) ([]models.UploadOperation, error)
	// MarkCompleted records a successful first-attempt upload so a later
	// retry pass never touches it again.
	MarkCompleted(ctx context.Context, queueID, operationID string, result *models.UploadResult) error
	MarkFailed(ctx context.Context, queueID, operationID, message string) error
}
