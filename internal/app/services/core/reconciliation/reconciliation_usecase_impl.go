package reconciliation

import (
	"context"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	sourceDeepLink = "deep_link"
	sourceProbe    = "status_probe"
	sourceUser     = "user_cancel"
)

var (
	reconciliationInstance contracts.ReconciliationUsecase
	onceReconciliation     sync.Once
)

type reconciliationUsecase struct {
	LedgerService     contracts.LedgerService
	StateRepository   contracts.PaymentStateRepository
	SessionRepository contracts.CheckoutSessionRepository
	WatchRepository   contracts.ProcessingWatchRepository
	AuditRepository   contracts.PaymentAuditRepository
	EventPublisher    contracts.PaymentEventPublisher
	Log               *zap.Logger
}

func NewReconciliationUsecase(
	ledgerService contracts.LedgerService,
	stateRepository contracts.PaymentStateRepository,
	sessionRepository contracts.CheckoutSessionRepository,
	watchRepository contracts.ProcessingWatchRepository,
	auditRepository contracts.PaymentAuditRepository,
	eventPublisher contracts.PaymentEventPublisher,
	logger *zap.Logger,
) contracts.ReconciliationUsecase {
	onceReconciliation.Do(func() {
		reconciliationInstance = &reconciliationUsecase{
			LedgerService:     ledgerService,
			StateRepository:   stateRepository,
			SessionRepository: sessionRepository,
			WatchRepository:   watchRepository,
			AuditRepository:   auditRepository,
			EventPublisher:    eventPublisher,
			Log:               logger,
		}
	})
	return reconciliationInstance
}

// OnStatus reconciles one deep-link event. A processing hint only refreshes
// the local mirror; a terminal-looking hint is never trusted directly, the
// ledger is synced first and its answer wins.
func (uc *reconciliationUsecase) OnStatus(ctx context.Context, event *models.DeepLinkEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reconciliationUsecase.OnStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, event.PaymentID),
		zap.String("deep_link_status", string(event.Status)),
	)

	if event.PaymentID == "" {
		uc.Log.Warn("reconciliationUsecase.OnStatus event without payment id, dropping",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeepLinkURLKey, event.RawURL),
		)
		return nil
	}

	if event.Status == models.DeepLinkStatusProcessing {
		return uc.markProcessing(ctx, event.PaymentID, event.ApplicationID)
	}

	confirmed, err := uc.LedgerService.SyncPaymentStatus(ctx, event.PaymentID)
	if err != nil {
		// The hint said terminal but the authority is unreachable. The mirror
		// stays processing so the UI keeps the in-progress view until the
		// recovery probe lands.
		uc.Log.Error("reconciliationUsecase.OnStatus ledger sync failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, event.PaymentID),
			zap.Error(err),
		)
		if markErr := uc.markProcessing(ctx, event.PaymentID, event.ApplicationID); markErr != nil {
			uc.Log.Error("reconciliationUsecase.OnStatus failed marking processing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, event.PaymentID),
				zap.Error(markErr),
			)
		}
		return err
	}

	_, err = uc.applyConfirmed(ctx, event.PaymentID, event.ApplicationID, confirmed, sourceDeepLink, event.Reason)
	return err
}

// CheckStatus is the on-demand recovery probe. It returns the effective local
// status after folding in the ledger's answer.
func (uc *reconciliationUsecase) CheckStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reconciliationUsecase.CheckStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	confirmed, err := uc.LedgerService.CheckPaymentStatus(ctx, paymentID)
	if err != nil {
		return "", err
	}
	return uc.applyConfirmed(ctx, paymentID, "", confirmed, sourceProbe, "")
}

// Cancel forwards an explicit cancellation. Cancelling an already-terminal
// payment is a no-op, not an error.
func (uc *reconciliationUsecase) Cancel(ctx context.Context, paymentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reconciliationUsecase.Cancel called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	state, err := uc.StateRepository.GetState(ctx, paymentID)
	if err != nil {
		return err
	}
	if state != nil && state.Status.Terminal() {
		uc.Log.Info("reconciliationUsecase.Cancel skipping terminal payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.String(constvars.LoggingPaymentStatusKey, string(state.Status)),
		)
		return nil
	}

	if err := uc.LedgerService.UpdatePaymentStatus(ctx, paymentID, models.PaymentStatusCancelled); err != nil {
		return err
	}

	applicationID := ""
	if state != nil {
		applicationID = state.ApplicationID
	}
	_, err = uc.applyConfirmed(ctx, paymentID, applicationID, models.PaymentStatusCancelled, sourceUser, "")
	return err
}

func (uc *reconciliationUsecase) markProcessing(ctx context.Context, paymentID, applicationID string) error {
	state, err := uc.StateRepository.GetState(ctx, paymentID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &models.PaymentAttempt{
			PaymentID:     paymentID,
			ApplicationID: applicationID,
			Method:        constvars.PaymentMethodExternalWallet,
			Status:        models.PaymentStatusProcessing,
			CreatedAt:     time.Now(),
		}
	}
	if state.Status.Terminal() {
		// Terminal is final. A late processing hint changes nothing.
		return nil
	}
	state.Status = models.PaymentStatusProcessing
	state.UpdatedAt = time.Now()
	if err := uc.StateRepository.SaveState(ctx, state); err != nil {
		return err
	}
	return uc.WatchRepository.Watch(ctx, paymentID)
}

// applyConfirmed folds a ledger-confirmed status into the local mirror under
// the monotonic terminal guard, then emits the audit record and the status
// change event for transitions that actually moved.
func (uc *reconciliationUsecase) applyConfirmed(ctx context.Context, paymentID, applicationID string, confirmed models.PaymentStatus, source, reason string) (models.PaymentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	state, err := uc.StateRepository.GetState(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if state == nil {
		state = &models.PaymentAttempt{
			PaymentID:     paymentID,
			ApplicationID: applicationID,
			Method:        constvars.PaymentMethodExternalWallet,
			Status:        models.PaymentStatusProcessing,
			CreatedAt:     time.Now(),
		}
	}
	if applicationID == "" {
		applicationID = state.ApplicationID
	}

	from := state.Status
	if from == confirmed {
		return from, nil
	}
	if !models.CanTransitionPaymentStatus(from, confirmed) {
		uc.Log.Warn("reconciliationUsecase dropping stale event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("from_status", string(from)),
			zap.String("to_status", string(confirmed)),
			zap.String("source", source),
			zap.Error(exceptions.ErrReconciliationStale(paymentID)),
		)
		return from, nil
	}

	state.ApplicationID = applicationID
	state.Status = confirmed
	state.UpdatedAt = time.Now()
	if err := uc.StateRepository.SaveState(ctx, state); err != nil {
		return "", err
	}

	if confirmed.Terminal() {
		if err := uc.WatchRepository.Unwatch(ctx, paymentID); err != nil {
			uc.Log.Error("reconciliationUsecase failed unwatching payment",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, paymentID),
				zap.Error(err),
			)
		}
		if applicationID != "" {
			if err := uc.SessionRepository.DeleteSession(ctx, applicationID); err != nil {
				uc.Log.Error("reconciliationUsecase failed clearing active session",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingApplicationIDKey, applicationID),
					zap.Error(err),
				)
			}
		}

		auditDoc := &contracts.PaymentAuditDocument{
			PaymentID:     paymentID,
			ApplicationID: applicationID,
			FromStatus:    from,
			ToStatus:      confirmed,
			Source:        source,
			Reason:        reason,
			RecordedAt:    time.Now(),
		}
		if err := uc.AuditRepository.InsertTransition(ctx, auditDoc); err != nil {
			uc.Log.Error("reconciliationUsecase failed writing audit record",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, paymentID),
				zap.Error(err),
			)
		}
	}

	event := &contracts.StatusChangeEvent{
		PaymentID:     paymentID,
		ApplicationID: applicationID,
		Status:        confirmed,
		Reason:        reason,
		OccurredAt:    time.Now(),
	}
	if err := uc.EventPublisher.PublishStatusChange(ctx, event); err != nil {
		uc.Log.Error("reconciliationUsecase failed publishing status change",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
	}

	return confirmed, nil
}
