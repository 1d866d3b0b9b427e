package models

import "time"

type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

type FileDescriptor struct {
	URI      string `json:"uri"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type UploadResult struct {
	StorageID string `json:"storage_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
}

// UploadOperation is a single receipt-file transfer, independent of any
// PaymentAttempt. It is mutated in place by status and progress updates and
// never transitions out of completed.
type UploadOperation struct {
	ID             string         `json:"id"`
	DocumentID     string         `json:"document_id"`
	FileDescriptor FileDescriptor `json:"file_descriptor"`
	Status         UploadStatus   `json:"status"`
	Progress       int            `json:"progress"`
	Error          string         `json:"error,omitempty"`
	Result         *UploadResult  `json:"result,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
