package controllers

import (
	"context"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/services/shared/platform"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/dto/requests"
	"healthcard-service/internal/pkg/dto/responses"
	"healthcard-service/internal/pkg/exceptions"
	"healthcard-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type PaymentController struct {
	Log                   *zap.Logger
	SubmissionUsecase     contracts.PaymentSubmissionUsecase
	CheckoutUsecase       contracts.CheckoutUsecase
	ReconciliationUsecase contracts.ReconciliationUsecase
	UploadUsecase         contracts.UploadQueueUsecase
	DeepLinkSource        *platform.ChannelDeepLinkSource
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(
	logger *zap.Logger,
	submissionUsecase contracts.PaymentSubmissionUsecase,
	checkoutUsecase contracts.CheckoutUsecase,
	reconciliationUsecase contracts.ReconciliationUsecase,
	uploadUsecase contracts.UploadQueueUsecase,
	deepLinkSource *platform.ChannelDeepLinkSource,
) *PaymentController {
	oncePaymentController.Do(func() {
		paymentControllerInstance = &PaymentController{
			Log:                   logger,
			SubmissionUsecase:     submissionUsecase,
			CheckoutUsecase:       checkoutUsecase,
			ReconciliationUsecase: reconciliationUsecase,
			UploadUsecase:         uploadUsecase,
			DeepLinkSource:        deepLinkSource,
		}
	})
	return paymentControllerInstance
}

func (ctrl *PaymentController) requestID(w http.ResponseWriter, r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func (ctrl *PaymentController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	request := new(requests.SubmitPaymentRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.SubmissionUsecase.Submit(ctx, request)
	if err != nil {
		ctrl.Log.Error("Failed to submit payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingApplicationIDKey, request.ApplicationID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if response == nil {
		// Another submission is already in flight; this one was a no-op.
		utils.BuildSuccessResponse(w, constvars.StatusAccepted, "Submission already in progress", nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PaymentSubmittedSuccessMessage, response)
}

func (ctrl *PaymentController) SubmitProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctrl.requestID(w, r); !ok {
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, map[string]string{
		"progress": string(ctrl.SubmissionUsecase.Progress()),
	})
}

func (ctrl *PaymentController) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	request := new(requests.InitiateCheckoutRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.CheckoutUsecase.Initiate(ctx, request)
	if err != nil {
		ctrl.Log.Error("Failed to initiate checkout",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingApplicationIDKey, request.ApplicationID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentCheckoutInitiatedMessage, response)
}

func (ctrl *PaymentController) ActiveCheckoutSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	applicationID := r.URL.Query().Get("applicationId")
	if applicationID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(nil))
		return
	}

	response, err := ctrl.CheckoutUsecase.ActiveSession(r.Context(), applicationID)
	if err != nil {
		ctrl.Log.Error("Failed to fetch active checkout session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingApplicationIDKey, applicationID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, response)
}

func (ctrl *PaymentController) GetStatus(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	paymentID := chi.URLParam(r, "paymentId")
	status, err := ctrl.ReconciliationUsecase.CheckStatus(r.Context(), paymentID)
	if err != nil {
		ctrl.Log.Error("Failed to check payment status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentStatusFetchedMessage, responses.PaymentStatusResponse{
		PaymentID: paymentID,
		Status:    status,
	})
}

func (ctrl *PaymentController) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	paymentID := chi.URLParam(r, "paymentId")
	if err := ctrl.ReconciliationUsecase.Cancel(r.Context(), paymentID); err != nil {
		ctrl.Log.Error("Failed to cancel payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentCancelledMessage, nil)
}

// PaymentReturn receives the wallet gateway redirect and feeds it to the
// deep-link source. Deduplication happens in the router, not here, so a
// gateway that redirects twice is harmless.
func (ctrl *PaymentController) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	returnURL := r.URL.Query().Get("url")
	if returnURL == "" {
		request := new(requests.PaymentReturnRequest)
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
		returnURL = request.URL
	}
	if returnURL == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(nil))
		return
	}

	ctrl.Log.Info("Payment return received",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeepLinkURLKey, returnURL),
	)
	ctrl.DeepLinkSource.Deliver(returnURL)

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.PaymentReturnAcceptedMessage, nil)
}

func (ctrl *PaymentController) RetryUploads(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	request := new(requests.RetryUploadsRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	response, err := ctrl.UploadUsecase.RetryFailed(ctx, request.QueueID)
	if err != nil {
		ctrl.Log.Error("Failed to retry uploads",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, request.QueueID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UploadRetryCompletedMessage, response)
}

func (ctrl *PaymentController) FailedUploads(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r)
	if !ok {
		return
	}

	queueID := r.URL.Query().Get("queueId")
	if queueID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(nil))
		return
	}

	hasFailed, err := ctrl.UploadUsecase.HasFailed(r.Context(), queueID)
	if err != nil {
		ctrl.Log.Error("Failed to check failed uploads",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, queueID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, map[string]bool{
		"has_failed": hasFailed,
	})
}
