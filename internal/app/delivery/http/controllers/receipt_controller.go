package controllers

import (
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/app/services/core/uploads"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/dto/responses"
	"healthcard-service/internal/pkg/exceptions"
	"healthcard-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReceiptController struct {
	Log            *zap.Logger
	ReceiptStorage contracts.ReceiptStorage
	UploadUsecase  contracts.UploadQueueUsecase
	MaxUploadSize  int64
}

var (
	receiptControllerInstance *ReceiptController
	onceReceiptController     sync.Once
)

func NewReceiptController(
	logger *zap.Logger,
	receiptStorage contracts.ReceiptStorage,
	uploadUsecase contracts.UploadQueueUsecase,
	maxUploadSizeInMB int64,
) *ReceiptController {
	onceReceiptController.Do(func() {
		if maxUploadSizeInMB <= 0 {
			maxUploadSizeInMB = 10
		}
		receiptControllerInstance = &ReceiptController{
			Log:            logger,
			ReceiptStorage: receiptStorage,
			UploadUsecase:  uploadUsecase,
			MaxUploadSize:  maxUploadSizeInMB << 20,
		}
	})
	return receiptControllerInstance
}

// Upload is the first-attempt receipt upload. When the caller also supplies a
// queue id and a re-readable file URI, the outcome is recorded in the retry
// queue: a failure there is what the retry endpoint later replays.
func (ctrl *ReceiptController) Upload(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, ctrl.MaxUploadSize)
	if err := r.ParseMultipartForm(ctrl.MaxUploadSize); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}
	defer file.Close()

	queueID := r.FormValue("queue_id")
	documentID := r.FormValue("document_id")
	fileURI := r.FormValue("file_uri")

	descriptor := models.FileDescriptor{
		URI:      fileURI,
		Name:     header.Filename,
		MimeType: header.Header.Get(constvars.HeaderContentType),
		Size:     header.Size,
	}
	contentType := uploads.ResolveContentType(descriptor)

	var operation *models.UploadOperation
	if queueID != "" && fileURI != "" {
		operation, err = ctrl.UploadUsecase.Enqueue(r.Context(), queueID, descriptor, documentID)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
	}

	storageID, err := ctrl.ReceiptStorage.UploadReceipt(r.Context(), file, header.Filename, contentType, header.Size)
	if err != nil {
		ctrl.Log.Error("Failed to upload receipt",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("file_name", header.Filename),
			zap.Error(err),
		)
		if operation != nil {
			if markErr := ctrl.UploadUsecase.MarkFailed(r.Context(), queueID, operation.ID, err.Error()); markErr != nil {
				ctrl.Log.Error("Failed to record upload failure",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingUploadIDKey, operation.ID),
					zap.Error(markErr),
				)
			}
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if operation != nil {
		result := &models.UploadResult{
			StorageID: storageID,
			FileName:  header.Filename,
			MimeType:  contentType,
			Size:      header.Size,
		}
		if markErr := ctrl.UploadUsecase.MarkCompleted(r.Context(), queueID, operation.ID, result); markErr != nil {
			ctrl.Log.Error("Failed to record upload completion",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingUploadIDKey, operation.ID),
				zap.Error(markErr),
			)
		}
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ReceiptUploadedSuccessMessage, responses.ReceiptUploadResponse{
		StorageID: storageID,
		FileName:  header.Filename,
		Size:      header.Size,
	})
}

func (ctrl *ReceiptController) ReviewURL(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	storageID := chi.URLParam(r, "storageId")
	url, err := ctrl.ReceiptStorage.PresignedReviewURL(r.Context(), storageID)
	if err != nil {
		ctrl.Log.Error("Failed to generate review URL",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingStorageIDKey, storageID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ReceiptReviewURLGeneratedMessage, responses.ReceiptReviewURLResponse{URL: url})
}
