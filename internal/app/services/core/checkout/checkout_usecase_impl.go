package checkout

import (
	"context"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/app/services/shared/amounts"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/dto/requests"
	"healthcard-service/internal/pkg/dto/responses"
	"healthcard-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

const reasonCannotOpenCheckoutURL = "Unable to open checkout URL"

var (
	checkoutUsecaseInstance contracts.CheckoutUsecase
	onceCheckoutUsecase     sync.Once
)

type checkoutUsecase struct {
	LedgerService     contracts.LedgerService
	SessionRepository contracts.CheckoutSessionRepository
	StateRepository   contracts.PaymentStateRepository
	WatchRepository   contracts.ProcessingWatchRepository
	URLDispatcher     contracts.URLDispatcher
	Log               *zap.Logger

	processingDeadline time.Duration
}

func NewCheckoutUsecase(
	ledgerService contracts.LedgerService,
	sessionRepository contracts.CheckoutSessionRepository,
	stateRepository contracts.PaymentStateRepository,
	watchRepository contracts.ProcessingWatchRepository,
	urlDispatcher contracts.URLDispatcher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CheckoutUsecase {
	onceCheckoutUsecase.Do(func() {
		deadline := time.Duration(internalConfig.Payments.ProcessingDeadlineInMinutes) * time.Minute
		if deadline <= 0 {
			deadline = 30 * time.Minute
		}
		checkoutUsecaseInstance = &checkoutUsecase{
			LedgerService:      ledgerService,
			SessionRepository:  sessionRepository,
			StateRepository:    stateRepository,
			WatchRepository:    watchRepository,
			URLDispatcher:      urlDispatcher,
			Log:                logger,
			processingDeadline: deadline,
		}
	})
	return checkoutUsecaseInstance
}

// Initiate runs the external-wallet handoff. Repeating the call for an
// application with a live session re-opens the stored URL instead of creating
// a second ledger session.
func (uc *checkoutUsecase) Initiate(ctx context.Context, request *requests.InitiateCheckoutRequest) (*responses.InitiateCheckoutResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.Initiate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingApplicationIDKey, request.ApplicationID),
	)

	if result := amounts.Validate(request.Amount); !result.IsValid {
		return nil, exceptions.ErrAmountValidation(result.Error)
	}
	if request.ServiceFee != 0 {
		if result := amounts.Validate(request.ServiceFee); !result.IsValid {
			return nil, exceptions.ErrAmountValidation(result.Error)
		}
	}

	existing, err := uc.SessionRepository.GetSession(ctx, request.ApplicationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.reopen(ctx, request.ApplicationID, existing)
	}

	output, err := uc.LedgerService.CreateCheckoutSession(ctx, &contracts.CreateCheckoutSessionInput{
		ApplicationID: request.ApplicationID,
		Amount:        request.Amount,
		ServiceFee:    request.ServiceFee,
	})
	if err != nil {
		return nil, err
	}

	session := &models.CheckoutSession{
		ID:          output.PaymentID,
		PaymentID:   output.PaymentID,
		CheckoutURL: output.CheckoutURL,
		CreatedAt:   time.Now(),
	}

	opened, reason := uc.open(ctx, session.CheckoutURL)
	if !opened {
		// The ledger session exists, but the user never left the app. The
		// payment stays pending; nothing is stored locally so a later attempt
		// starts from the ledger's idempotent session again.
		uc.Log.Warn("checkoutUsecase.Initiate could not open checkout URL",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, output.PaymentID),
			zap.String(constvars.LoggingCheckoutURLKey, session.CheckoutURL),
		)
		return &responses.InitiateCheckoutResponse{
			Success:         false,
			PaymentID:       output.PaymentID,
			ExistingPayment: output.ExistingPayment,
			Reason:          reason,
		}, nil
	}

	if err := uc.SessionRepository.SaveSession(ctx, request.ApplicationID, session); err != nil {
		return nil, err
	}

	now := time.Now()
	state := &models.PaymentAttempt{
		PaymentID:         output.PaymentID,
		ApplicationID:     request.ApplicationID,
		Method:            constvars.PaymentMethodExternalWallet,
		Amount:            request.Amount,
		ServiceFee:        request.ServiceFee,
		NetAmount:         request.Amount + request.ServiceFee,
		Status:            models.PaymentStatusProcessing,
		CheckoutSessionID: session.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.StateRepository.SaveState(ctx, state); err != nil {
		uc.Log.Error("checkoutUsecase.Initiate failed mirroring local state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, output.PaymentID),
			zap.Error(err),
		)
	}
	if err := uc.WatchRepository.Watch(ctx, output.PaymentID); err != nil {
		uc.Log.Error("checkoutUsecase.Initiate failed watching payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, output.PaymentID),
			zap.Error(err),
		)
	}

	return &responses.InitiateCheckoutResponse{
		Success:          true,
		WaitingForReturn: true,
		PaymentID:        output.PaymentID,
		CheckoutURL:      output.CheckoutURL,
		ExistingPayment:  output.ExistingPayment,
	}, nil
}

// reopen hands off to the wallet again for an already-live session.
func (uc *checkoutUsecase) reopen(ctx context.Context, applicationID string, session *models.CheckoutSession) (*responses.InitiateCheckoutResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.Initiate reusing active session",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingApplicationIDKey, applicationID),
		zap.String(constvars.LoggingPaymentIDKey, session.PaymentID),
	)

	opened, reason := uc.open(ctx, session.CheckoutURL)
	if !opened {
		return &responses.InitiateCheckoutResponse{
			Success:         false,
			PaymentID:       session.PaymentID,
			ExistingPayment: true,
			Reason:          reason,
		}, nil
	}

	return &responses.InitiateCheckoutResponse{
		Success:          true,
		WaitingForReturn: true,
		PaymentID:        session.PaymentID,
		CheckoutURL:      session.CheckoutURL,
		ExistingPayment:  true,
	}, nil
}

func (uc *checkoutUsecase) open(ctx context.Context, url string) (bool, string) {
	canOpen, err := uc.URLDispatcher.CanOpen(ctx, url)
	if err != nil || !canOpen {
		return false, reasonCannotOpenCheckoutURL
	}
	if err := uc.URLDispatcher.Open(ctx, url); err != nil {
		// The handoff itself failed; surface the dispatcher's message.
		return false, err.Error()
	}
	return true, ""
}

func (uc *checkoutUsecase) ActiveSession(ctx context.Context, applicationID string) (*responses.ActiveCheckoutSessionResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("checkoutUsecase.ActiveSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingApplicationIDKey, applicationID),
	)

	session, err := uc.SessionRepository.GetSession(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &responses.ActiveCheckoutSessionResponse{}, nil
	}

	return &responses.ActiveCheckoutSessionResponse{
		Session:         session,
		StillProcessing: time.Since(session.CreatedAt) > uc.processingDeadline,
	}, nil
}
