package receiptstorage

import (
	"context"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/exceptions"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

type minioStorage struct {
	MinioClient    *minio.Client
	BucketName     string
	PresignExpiry  time.Duration
}

func NewMinioStorage(minioClient *minio.Client, internalConfig *config.InternalConfig) contracts.ReceiptStorage {
	expiry := time.Duration(internalConfig.Minio.PresignedReviewURLExpiryInHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &minioStorage{
		MinioClient:   minioClient,
		BucketName:    internalConfig.Minio.BucketName,
		PresignExpiry: expiry,
	}
}

func (m *minioStorage) UploadReceipt(ctx context.Context, file io.Reader, fileName, contentType string, size int64) (string, error) {
	_, err := m.MinioClient.PutObject(ctx, m.BucketName, fileName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	return fileName, nil
}

func (m *minioStorage) PresignedReviewURL(ctx context.Context, storageID string) (string, error) {
	url, err := m.MinioClient.PresignedGetObject(ctx, m.BucketName, storageID, m.PresignExpiry, nil)
	if err != nil {
		return "", exceptions.ErrMinioFindObjectPresignedURL(err, m.BucketName)
	}

	return url.String(), nil
}
