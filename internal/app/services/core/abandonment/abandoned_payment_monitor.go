package abandonment

import (
	"context"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

// Monitor probes payments that look abandoned: the user left for the wallet
// and never came back through the deep link. It wakes on a fixed tick and on
// every foreground transition, and it only ever reads through the
// reconciliation usecase so the monotonic terminal guard applies to its
// findings too.
type Monitor struct {
	Reconciliation  contracts.ReconciliationUsecase
	StateRepository contracts.PaymentStateRepository
	WatchRepository contracts.ProcessingWatchRepository
	Lifecycle       contracts.LifecycleSource
	Locker          contracts.LockerService
	Log             *zap.Logger

	tick               time.Duration
	stallThreshold     time.Duration
	processingDeadline time.Duration
}

func NewMonitor(
	reconciliation contracts.ReconciliationUsecase,
	stateRepository contracts.PaymentStateRepository,
	watchRepository contracts.ProcessingWatchRepository,
	lifecycle contracts.LifecycleSource,
	locker contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *Monitor {
	tick := time.Duration(internalConfig.Payments.MonitorTickInSeconds) * time.Second
	if tick <= 0 {
		tick = 60 * time.Second
	}
	stall := time.Duration(internalConfig.Payments.StallThresholdInMinutes) * time.Minute
	if stall <= 0 {
		stall = 3 * time.Minute
	}
	deadline := time.Duration(internalConfig.Payments.ProcessingDeadlineInMinutes) * time.Minute
	if deadline <= 0 {
		deadline = 30 * time.Minute
	}
	return &Monitor{
		Reconciliation:     reconciliation,
		StateRepository:    stateRepository,
		WatchRepository:    watchRepository,
		Lifecycle:          lifecycle,
		Locker:             locker,
		Log:                logger,
		tick:               tick,
		stallThreshold:     stall,
		processingDeadline: deadline,
	}
}

// Start runs the monitor loop until ctx is cancelled or the returned stop
// function is called.
func (m *Monitor) Start(ctx context.Context) (stop func()) {
	loopCtx, cancel := context.WithCancel(ctx)

	wake := make(chan struct{}, 1)
	unsubscribe := m.Lifecycle.SubscribeForeground(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	go func() {
		ticker := time.NewTicker(m.tick)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				m.runOnce(loopCtx)
			case <-wake:
				m.runOnce(loopCtx)
			}
		}
	}()

	return func() {
		unsubscribe()
		cancel()
	}
}

// runOnce takes the instance lock and sweeps the watch set. Losing the lock
// means another instance is already sweeping.
func (m *Monitor) runOnce(ctx context.Context) {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	acquired, lockValue, err := m.Locker.TryLock(ctx, constvars.RedisKeyAbandonMonitorLock, m.tick)
	if err != nil {
		m.Log.Error("abandonedPaymentMonitor failed acquiring lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := m.Locker.Unlock(ctx, constvars.RedisKeyAbandonMonitorLock, lockValue); err != nil {
			m.Log.Error("abandonedPaymentMonitor failed releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}()

	paymentIDs, err := m.WatchRepository.Watched(ctx)
	if err != nil {
		m.Log.Error("abandonedPaymentMonitor failed listing watched payments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	for _, paymentID := range paymentIDs {
		m.sweep(ctx, paymentID)
	}
}

func (m *Monitor) sweep(ctx context.Context, paymentID string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	state, err := m.StateRepository.GetState(ctx, paymentID)
	if err != nil {
		m.Log.Error("abandonedPaymentMonitor failed reading state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return
	}
	if state == nil || state.Status.Terminal() {
		// The mirror expired or already settled; nothing left to watch.
		if err := m.WatchRepository.Unwatch(ctx, paymentID); err != nil {
			m.Log.Error("abandonedPaymentMonitor failed unwatching payment",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, paymentID),
				zap.Error(err),
			)
		}
		return
	}

	stalledFor := time.Since(state.UpdatedAt)
	if stalledFor < m.stallThreshold {
		return
	}

	status, err := m.Reconciliation.CheckStatus(ctx, paymentID)
	if err != nil {
		m.Log.Error("abandonedPaymentMonitor status probe failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return
	}

	if !status.Terminal() && time.Since(state.CreatedAt) > m.processingDeadline {
		m.Log.Warn("abandonedPaymentMonitor payment past processing deadline",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.String(constvars.LoggingPaymentStatusKey, string(status)),
			zap.Duration("stalled_for", stalledFor),
		)
	}
}
