package uploads

import (
	"context"
	"fmt"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/dto/responses"
	"healthcard-service/internal/pkg/utils"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	uploadQueueInstance contracts.UploadQueueUsecase
	onceUploadQueue     sync.Once
)

type uploadQueueUsecase struct {
	QueueRepository contracts.UploadQueueRepository
	FileSource      contracts.FileSource
	BlobUploader    contracts.BlobUploader
	LedgerService   contracts.LedgerService
	Log             *zap.Logger

	mu sync.Mutex
}

func NewUploadQueueUsecase(
	queueRepository contracts.UploadQueueRepository,
	fileSource contracts.FileSource,
	blobUploader contracts.BlobUploader,
	ledgerService contracts.LedgerService,
	logger *zap.Logger,
) contracts.UploadQueueUsecase {
	onceUploadQueue.Do(func() {
		uploadQueueInstance = &uploadQueueUsecase{
			QueueRepository: queueRepository,
			FileSource:      fileSource,
			BlobUploader:    blobUploader,
			LedgerService:   ledgerService,
			Log:             logger,
		}
	})
	return uploadQueueInstance
}

func (uc *uploadQueueUsecase) Enqueue(ctx context.Context, queueID string, descriptor models.FileDescriptor, documentID string) (*models.UploadOperation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("uploadQueueUsecase.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueKey, queueID),
	)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	operations, err := uc.QueueRepository.GetQueue(ctx, queueID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	operation := models.UploadOperation{
		ID:             utils.GenerateUploadOperationID(),
		DocumentID:     documentID,
		FileDescriptor: descriptor,
		Status:         models.UploadStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	operations = append(operations, operation)

	if err := uc.QueueRepository.SaveQueue(ctx, queueID, operations); err != nil {
		return nil, err
	}
	return &operation, nil
}

// RetryFailed replays the failed operations in the queue. Operations are
// isolated: one failing file never blocks the others. Pending and uploading
// operations belong to their first attempt and are left alone, and a
// completed operation is never re-uploaded.
func (uc *uploadQueueUsecase) RetryFailed(ctx context.Context, queueID string) (*responses.RetryFailedResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("uploadQueueUsecase.RetryFailed called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueKey, queueID),
	)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	operations, err := uc.QueueRepository.GetQueue(ctx, queueID)
	if err != nil {
		return nil, err
	}

	retrySuccess := 0
	retryFailed := 0
	for i := range operations {
		operation := &operations[i]
		if operation.Status != models.UploadStatusFailed {
			continue
		}

		if uc.retryOne(ctx, operation) {
			retrySuccess++
		} else {
			retryFailed++
		}
	}

	if err := uc.QueueRepository.SaveQueue(ctx, queueID, operations); err != nil {
		return nil, err
	}

	response := &responses.RetryFailedResponse{
		Success:      retryFailed == 0,
		RetrySuccess: retrySuccess,
		RetryFailed:  retryFailed,
	}
	if retryFailed > 0 {
		response.Message = fmt.Sprintf("%d upload(s) still failing", retryFailed)
	} else {
		response.Message = constvars.ResponseSuccess
	}
	return response, nil
}

// retryOne mutates the operation in place and reports success.
func (uc *uploadQueueUsecase) retryOne(ctx context.Context, operation *models.UploadOperation) bool {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	operation.Status = models.UploadStatusUploading
	operation.Progress = 0
	operation.Error = ""
	operation.UpdatedAt = time.Now()

	fail := func(err error) bool {
		uc.Log.Error("uploadQueueUsecase.RetryFailed operation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUploadIDKey, operation.ID),
			zap.Error(err),
		)
		operation.Status = models.UploadStatusFailed
		operation.Error = err.Error()
		operation.UpdatedAt = time.Now()
		return false
	}

	if err := uc.FileSource.Probe(ctx, operation.FileDescriptor.URI); err != nil {
		return fail(err)
	}
	data, err := uc.FileSource.Read(ctx, operation.FileDescriptor.URI)
	if err != nil {
		return fail(err)
	}
	operation.Progress = constvars.UploadProgressFileRead

	uploadURL, err := uc.LedgerService.GenerateUploadURL(ctx)
	if err != nil {
		return fail(err)
	}
	operation.Progress = constvars.UploadProgressURLIssued

	contentType := ResolveContentType(operation.FileDescriptor)
	operation.Progress = constvars.UploadProgressContentType

	storageID, err := uc.BlobUploader.Upload(ctx, uploadURL, data, contentType)
	if err != nil {
		return fail(err)
	}

	operation.Status = models.UploadStatusCompleted
	operation.Progress = constvars.UploadProgressDone
	operation.Result = &models.UploadResult{
		StorageID: storageID,
		FileName:  operation.FileDescriptor.Name,
		MimeType:  contentType,
		Size:      int64(len(data)),
	}
	operation.UpdatedAt = time.Now()
	return true
}

func (uc *uploadQueueUsecase) HasFailed(ctx context.Context, queueID string) (bool, error) {
	operations, err := uc.QueueRepository.GetQueue(ctx, queueID)
	if err != nil {
		return false, err
	}
	for _, operation := range operations {
		if operation.Status == models.UploadStatusFailed {
			return true, nil
		}
	}
	return false, nil
}

func (uc *uploadQueueUsecase) List(ctx context.Context, queueID string) ([]models.UploadOperation, error) {
	return uc.QueueRepository.GetQueue(ctx, queueID)
}

func (uc *uploadQueueUsecase) MarkCompleted(ctx context.Context, queueID, operationID string, result *models.UploadResult) error {
	return uc.mutate(ctx, queueID, operationID, func(operation *models.UploadOperation) {
		operation.Status = models.UploadStatusCompleted
		operation.Progress = constvars.UploadProgressDone
		operation.Error = ""
		operation.Result = result
		operation.UpdatedAt = time.Now()
	})
}

func (uc *uploadQueueUsecase) MarkFailed(ctx context.Context, queueID, operationID, message string) error {
	return uc.mutate(ctx, queueID, operationID, func(operation *models.UploadOperation) {
		if operation.Status == models.UploadStatusCompleted {
			// Completed is final for an upload operation.
			return
		}
		operation.Status = models.UploadStatusFailed
		operation.Error = message
		operation.UpdatedAt = time.Now()
	})
}

func (uc *uploadQueueUsecase) mutate(ctx context.Context, queueID, operationID string, apply func(*models.UploadOperation)) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	operations, err := uc.QueueRepository.GetQueue(ctx, queueID)
	if err != nil {
		return err
	}
	for i := range operations {
		if operations[i].ID == operationID {
			apply(&operations[i])
			break
		}
	}
	return uc.QueueRepository.SaveQueue(ctx, queueID, operations)
}

// ResolveContentType picks the Content-Type for an upload. A well-formed
// declared type wins; otherwise the extension decides, with image/jpeg as the
// fallback because camera captures routinely arrive without a type.
func ResolveContentType(descriptor models.FileDescriptor) string {
	if descriptor.MimeType != "" {
		if parsed, _, err := mime.ParseMediaType(descriptor.MimeType); err == nil && strings.Contains(parsed, "/") {
			return parsed
		}
	}

	name := descriptor.Name
	if name == "" {
		name = descriptor.URI
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return constvars.MIMEImagePNG
	case ".pdf":
		return constvars.MIMEApplicationPDF
	default:
		return constvars.MIMEImageJPEG
	}
}
