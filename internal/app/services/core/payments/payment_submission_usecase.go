package payments

import (
	"context"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/app/services/shared/amounts"
	"healthcard-service/internal/app/services/shared/singleflight"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/dto/requests"
	"healthcard-service/internal/pkg/dto/responses"
	"healthcard-service/internal/pkg/exceptions"
	"healthcard-service/internal/pkg/utils"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	paymentSubmissionInstance contracts.PaymentSubmissionUsecase
	oncePaymentSubmission     sync.Once
)

type paymentSubmissionUsecase struct {
	LedgerService   contracts.LedgerService
	UploadUsecase   contracts.UploadQueueUsecase
	StateRepository contracts.PaymentStateRepository
	Guard           *singleflight.Guard
	Log             *zap.Logger

	progress atomic.Value // contracts.SubmissionProgress
}

func NewPaymentSubmissionUsecase(
	ledgerService contracts.LedgerService,
	uploadUsecase contracts.UploadQueueUsecase,
	stateRepository contracts.PaymentStateRepository,
	logger *zap.Logger,
) contracts.PaymentSubmissionUsecase {
	oncePaymentSubmission.Do(func() {
		usecase := &paymentSubmissionUsecase{
			LedgerService:   ledgerService,
			UploadUsecase:   uploadUsecase,
			StateRepository: stateRepository,
			Guard:           singleflight.NewGuard(),
			Log:             logger,
		}
		usecase.progress.Store(contracts.SubmissionIdle)
		paymentSubmissionInstance = usecase
	})
	return paymentSubmissionInstance
}

func (uc *paymentSubmissionUsecase) Progress() contracts.SubmissionProgress {
	return uc.progress.Load().(contracts.SubmissionProgress)
}

func (uc *paymentSubmissionUsecase) setProgress(p contracts.SubmissionProgress) {
	uc.progress.Store(p)
}

// Submit drives a manual-receipt submission end to end. The guard is taken
// before any blocking call so a double tap observes the in-flight submission
// and returns (nil, nil) without side effects.
func (uc *paymentSubmissionUsecase) Submit(ctx context.Context, request *requests.SubmitPaymentRequest) (*responses.SubmitPaymentResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentSubmissionUsecase.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingApplicationIDKey, request.ApplicationID),
	)

	if !uc.Guard.TryAcquire() {
		uc.Log.Warn("paymentSubmissionUsecase.Submit ignored, submission already in flight",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingApplicationIDKey, request.ApplicationID),
		)
		return nil, nil
	}
	defer uc.Guard.Release()

	response, err := uc.submit(ctx, request)
	if err != nil {
		uc.setProgress(contracts.SubmissionIdle)
		return nil, err
	}
	uc.setProgress(contracts.SubmissionCompleted)
	return response, nil
}

func (uc *paymentSubmissionUsecase) submit(ctx context.Context, request *requests.SubmitPaymentRequest) (*responses.SubmitPaymentResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if result := amounts.Validate(request.Amount); !result.IsValid {
		return nil, exceptions.ErrAmountValidation(result.Error)
	}
	if request.ServiceFee != 0 {
		if result := amounts.Validate(request.ServiceFee); !result.IsValid {
			return nil, exceptions.ErrAmountValidation(result.Error)
		}
	}

	uc.setProgress(contracts.SubmissionChecking)
	hasFailed, err := uc.UploadUsecase.HasFailed(ctx, request.ApplicationID)
	if err != nil {
		return nil, err
	}

	if hasFailed {
		uc.setProgress(contracts.SubmissionUploading)
		retryResult, err := uc.UploadUsecase.RetryFailed(ctx, request.ApplicationID)
		if err != nil {
			return nil, err
		}
		if !retryResult.Success {
			uc.Log.Warn("paymentSubmissionUsecase.Submit aborted, receipt uploads still failing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingApplicationIDKey, request.ApplicationID),
				zap.Int("retry_failed", retryResult.RetryFailed),
			)
			return nil, exceptions.ErrUploadFailed(retryResult.Message)
		}
	}

	uc.setProgress(contracts.SubmissionCreating)

	referenceNumber := request.ReferenceNumber
	if referenceNumber == "" {
		referenceNumber = utils.GenerateReferenceNumber(request.MethodID)
	}

	output, err := uc.LedgerService.CreatePayment(ctx, &contracts.CreatePaymentInput{
		ApplicationID:   request.ApplicationID,
		Amount:          request.Amount,
		ServiceFee:      request.ServiceFee,
		NetAmount:       request.Amount + request.ServiceFee,
		Method:          constvars.PaymentMethodManualReceipt,
		ReferenceNumber: referenceNumber,
		ReceiptRef:      request.ReceiptRef,
	})
	if err != nil {
		return nil, err
	}

	// The ledger reports an existing record for a repeat reference number.
	// That is a success for the caller, not a conflict.
	if output.IsExisting {
		uc.Log.Info("paymentSubmissionUsecase.Submit reusing existing payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, output.PaymentID),
		)
	}

	now := time.Now()
	state := &models.PaymentAttempt{
		PaymentID:       output.PaymentID,
		ApplicationID:   request.ApplicationID,
		Method:          constvars.PaymentMethodManualReceipt,
		Amount:          request.Amount,
		ServiceFee:      request.ServiceFee,
		NetAmount:       request.Amount + request.ServiceFee,
		ReferenceNumber: referenceNumber,
		ReceiptRef:      request.ReceiptRef,
		Status:          models.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.StateRepository.SaveState(ctx, state); err != nil {
		// The ledger record exists; a failed mirror write must not fail the
		// submission. Reconciliation repairs the mirror on the next probe.
		uc.Log.Error("paymentSubmissionUsecase.Submit failed mirroring local state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, output.PaymentID),
			zap.Error(err),
		)
	}

	return &responses.SubmitPaymentResponse{
		PaymentID:       output.PaymentID,
		ReferenceNumber: referenceNumber,
		Status:          models.PaymentStatusPending,
		IsExisting:      output.IsExisting,
	}, nil
}
