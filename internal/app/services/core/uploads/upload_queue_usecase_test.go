package uploads

import (
	"context"
	"errors"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeQueueRepository struct {
	mu     sync.Mutex
	queues map[string][]models.UploadOperation
}

func newFakeQueueRepository() *fakeQueueRepository {
	return &fakeQueueRepository{queues: make(map[string][]models.UploadOperation)}
}

func (f *fakeQueueRepository) SaveQueue(ctx context.Context, queueID string, operations []models.UploadOperation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make([]models.UploadOperation, len(operations))
	copy(copied, operations)
	f.queues[queueID] = copied
	return nil
}

func (f *fakeQueueRepository) GetQueue(ctx context.Context, queueID string) ([]models.UploadOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	operations, ok := f.queues[queueID]
	if !ok {
		return nil, nil
	}
	copied := make([]models.UploadOperation, len(operations))
	copy(copied, operations)
	return copied, nil
}

type fakeFileSource struct {
	files map[string][]byte
}

func (f *fakeFileSource) Probe(ctx context.Context, uri string) error {
	if _, ok := f.files[uri]; !ok {
		return errors.New("file not found: " + uri)
	}
	return nil
}

func (f *fakeFileSource) Read(ctx context.Context, uri string) ([]byte, error) {
	data, ok := f.files[uri]
	if !ok {
		return nil, errors.New("file not found: " + uri)
	}
	return data, nil
}

type fakeBlobUploader struct {
	failFor map[string]bool
	uploads int
}

func (f *fakeBlobUploader) Upload(ctx context.Context, url string, data []byte, contentType string) (string, error) {
	f.uploads++
	if f.failFor[contentType] {
		return "", errors.New("upload rejected")
	}
	return "storage-1", nil
}

type fakeLedgerService struct {
	contracts.LedgerService
	urlErr error
}

func (f *fakeLedgerService) GenerateUploadURL(ctx context.Context) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://blob.example.com/upload/xyz", nil
}

func newTestUploadUsecase(repo contracts.UploadQueueRepository, files contracts.FileSource, blob contracts.BlobUploader, ledger contracts.LedgerService) *uploadQueueUsecase {
	return &uploadQueueUsecase{
		QueueRepository: repo,
		FileSource:      files,
		BlobUploader:    blob,
		LedgerService:   ledger,
		Log:             zap.NewNop(),
	}
}

func TestEnqueueAndList(t *testing.T) {
	repo := newFakeQueueRepository()
	uc := newTestUploadUsecase(repo, &fakeFileSource{}, &fakeBlobUploader{}, &fakeLedgerService{})

	operation, err := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{
		URI:  "file:///receipts/a.jpg",
		Name: "a.jpg",
	}, "doc-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, operation.ID)
	assert.Equal(t, models.UploadStatusPending, operation.Status)

	operations, err := uc.List(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.Len(t, operations, 1)
	assert.Equal(t, "doc-1", operations[0].DocumentID)
}

func TestRetryFailedIsolation(t *testing.T) {
	// One reachable file, one missing. The missing one fails alone.
	repo := newFakeQueueRepository()
	files := &fakeFileSource{files: map[string][]byte{
		"file:///receipts/good.jpg": []byte("jpeg-bytes"),
	}}
	blob := &fakeBlobUploader{}
	uc := newTestUploadUsecase(repo, files, blob, &fakeLedgerService{})

	good, _ := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///receipts/good.jpg", Name: "good.jpg"}, "doc-1")
	bad, _ := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///receipts/missing.jpg", Name: "missing.jpg"}, "doc-2")
	uc.MarkFailed(context.Background(), "app-1", good.ID, "network lost")
	uc.MarkFailed(context.Background(), "app-1", bad.ID, "network lost")

	response, err := uc.RetryFailed(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, 1, response.RetrySuccess)
	assert.Equal(t, 1, response.RetryFailed)

	operations, _ := uc.List(context.Background(), "app-1")
	byID := make(map[string]models.UploadOperation)
	for _, op := range operations {
		byID[op.ID] = op
	}

	assert.Equal(t, models.UploadStatusCompleted, byID[good.ID].Status)
	assert.Equal(t, 100, byID[good.ID].Progress)
	assert.Equal(t, "storage-1", byID[good.ID].Result.StorageID)

	assert.Equal(t, models.UploadStatusFailed, byID[bad.ID].Status)
	assert.NotEmpty(t, byID[bad.ID].Error)
	assert.Nil(t, byID[bad.ID].Result)
}

func TestRetryFailedSkipsCompleted(t *testing.T) {
	repo := newFakeQueueRepository()
	files := &fakeFileSource{files: map[string][]byte{
		"file:///receipts/a.jpg": []byte("jpeg-bytes"),
	}}
	blob := &fakeBlobUploader{}
	uc := newTestUploadUsecase(repo, files, blob, &fakeLedgerService{})

	operation, _ := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///receipts/a.jpg", Name: "a.jpg"}, "doc-1")
	uc.MarkCompleted(context.Background(), "app-1", operation.ID, &models.UploadResult{StorageID: "storage-0"})

	response, err := uc.RetryFailed(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, 0, response.RetrySuccess)
	assert.Equal(t, 0, blob.uploads, "completed operations are never re-uploaded")

	operations, _ := uc.List(context.Background(), "app-1")
	assert.Equal(t, "storage-0", operations[0].Result.StorageID)
}

func TestRetryFailedSkipsPending(t *testing.T) {
	// A freshly enqueued operation belongs to its first attempt; retry must
	// not pick it up or count it.
	repo := newFakeQueueRepository()
	files := &fakeFileSource{files: map[string][]byte{
		"file:///receipts/a.jpg": []byte("jpeg-bytes"),
	}}
	blob := &fakeBlobUploader{}
	uc := newTestUploadUsecase(repo, files, blob, &fakeLedgerService{})

	uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///receipts/a.jpg", Name: "a.jpg"}, "doc-1")

	response, err := uc.RetryFailed(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, 0, response.RetrySuccess)
	assert.Equal(t, 0, response.RetryFailed)
	assert.Equal(t, 0, blob.uploads)

	operations, _ := uc.List(context.Background(), "app-1")
	assert.Equal(t, models.UploadStatusPending, operations[0].Status)
}

func TestRetryFailedLedgerURLFailure(t *testing.T) {
	repo := newFakeQueueRepository()
	files := &fakeFileSource{files: map[string][]byte{
		"file:///receipts/a.jpg": []byte("jpeg-bytes"),
	}}
	ledger := &fakeLedgerService{urlErr: errors.New("ledger unreachable")}
	uc := newTestUploadUsecase(repo, files, &fakeBlobUploader{}, ledger)

	operation, _ := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///receipts/a.jpg", Name: "a.jpg"}, "doc-1")
	uc.MarkFailed(context.Background(), "app-1", operation.ID, "network lost")

	response, err := uc.RetryFailed(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.False(t, response.Success)

	operations, _ := uc.List(context.Background(), "app-1")
	assert.Equal(t, models.UploadStatusFailed, operations[0].Status)
	// Progress shows how far the attempt got before failing.
	assert.Equal(t, 25, operations[0].Progress)
}

func TestHasFailed(t *testing.T) {
	repo := newFakeQueueRepository()
	uc := newTestUploadUsecase(repo, &fakeFileSource{}, &fakeBlobUploader{}, &fakeLedgerService{})

	hasFailed, err := uc.HasFailed(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.False(t, hasFailed)

	operation, _ := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///x.jpg", Name: "x.jpg"}, "doc-1")
	uc.MarkFailed(context.Background(), "app-1", operation.ID, "network lost")

	hasFailed, err = uc.HasFailed(context.Background(), "app-1")
	assert.NoError(t, err)
	assert.True(t, hasFailed)
}

func TestMarkFailedNeverDowngradesCompleted(t *testing.T) {
	repo := newFakeQueueRepository()
	uc := newTestUploadUsecase(repo, &fakeFileSource{}, &fakeBlobUploader{}, &fakeLedgerService{})

	operation, _ := uc.Enqueue(context.Background(), "app-1", models.FileDescriptor{URI: "file:///x.jpg", Name: "x.jpg"}, "doc-1")
	uc.MarkCompleted(context.Background(), "app-1", operation.ID, &models.UploadResult{StorageID: "storage-1"})
	uc.MarkFailed(context.Background(), "app-1", operation.ID, "late failure")

	operations, _ := uc.List(context.Background(), "app-1")
	assert.Equal(t, models.UploadStatusCompleted, operations[0].Status)
}

func TestResolveContentType(t *testing.T) {
	testCases := []struct {
		name       string
		descriptor models.FileDescriptor
		expected   string
	}{
		{"Declared type wins", models.FileDescriptor{Name: "a.png", MimeType: "application/pdf"}, "application/pdf"},
		{"Declared type with params", models.FileDescriptor{Name: "a.bin", MimeType: "image/png; charset=binary"}, "image/png"},
		{"Malformed declared type falls back to extension", models.FileDescriptor{Name: "a.png", MimeType: "not a type"}, "image/png"},
		{"PNG extension", models.FileDescriptor{Name: "receipt.PNG"}, "image/png"},
		{"PDF extension", models.FileDescriptor{Name: "receipt.pdf"}, "application/pdf"},
		{"Unknown extension defaults to jpeg", models.FileDescriptor{Name: "receipt.heic"}, "image/jpeg"},
		{"No name falls back to URI", models.FileDescriptor{URI: "file:///captures/img.png"}, "image/png"},
		{"Nothing known defaults to jpeg", models.FileDescriptor{}, "image/jpeg"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveContentType(tc.descriptor))
		})
	}
}
