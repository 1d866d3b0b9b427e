package blob

import (
	"bytes"
	"context"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/exceptions"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type blobUploader struct {
	client *http.Client
	Log    *zap.Logger
}

// uploadResponse is the blob storage contract: {storageId} on 2xx.
type uploadResponse struct {
	StorageID string `json:"storageId"`
}

func NewBlobUploader(timeout time.Duration, logger *zap.Logger) contracts.BlobUploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &blobUploader{
		client: &http.Client{Timeout: timeout},
		Log:    logger,
	}
}

func (u *blobUploader) Upload(ctx context.Context, url string, data []byte, contentType string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.Log.Info("blobUploader.Upload called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("size", len(data)),
		zap.String("content_type", contentType),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		u.Log.Error("blobUploader.Upload error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.Log.Error("blobUploader.Upload non-success status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return "", exceptions.ErrUploadFailed(resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", exceptions.ErrSendHTTPRequest(err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", exceptions.ErrCannotParseJSON(err)
	}

	u.Log.Info("blobUploader.Upload succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingStorageIDKey, parsed.StorageID),
	)
	return parsed.StorageID, nil
}
