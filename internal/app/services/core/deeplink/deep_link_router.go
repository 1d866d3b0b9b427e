package deeplink

import (
	"context"
	"fmt"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

// StatusHandler receives each payment deep-link event exactly once.
type StatusHandler func(ctx context.Context, event *models.DeepLinkEvent)

// DeepLinkRouter reconciles the two delivery channels for inbound URLs. The
// launch URL and the live subscription can both carry the same redirect, and
// the gateway itself may redirect more than once; the seen set guarantees a
// single dispatch per logical event.
type DeepLinkRouter struct {
	Source          contracts.DeepLinkSource
	RedisRepository contracts.RedisRepository
	Handler         StatusHandler
	Log             *zap.Logger

	seenTTL time.Duration
}

func NewDeepLinkRouter(
	source contracts.DeepLinkSource,
	redisRepository contracts.RedisRepository,
	handler StatusHandler,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *DeepLinkRouter {
	ttl := time.Duration(internalConfig.Payments.DeepLinkSeenTTLInHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DeepLinkRouter{
		Source:          source,
		RedisRepository: redisRepository,
		Handler:         handler,
		Log:             logger,
		seenTTL:         ttl,
	}
}

// Start drains the launch URL, then subscribes for live URLs. The returned
// stop function detaches the subscription.
func (r *DeepLinkRouter) Start(ctx context.Context) (stop func()) {
	initialURL, err := r.Source.GetInitialURL(ctx)
	if err != nil {
		r.Log.Error("deepLinkRouter failed reading initial URL", zap.Error(err))
	} else if initialURL != "" {
		r.route(initialURL)
	}

	unsubscribe := r.Source.Subscribe(func(url string) {
		r.route(url)
	})
	return unsubscribe
}

func (r *DeepLinkRouter) route(rawURL string) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	event, ok := ParseDeepLink(rawURL)
	if !ok {
		r.Log.Debug("deepLinkRouter ignoring non-payment URL",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeepLinkURLKey, rawURL),
		)
		return
	}

	fresh, err := r.markSeen(ctx, event)
	if err != nil {
		r.Log.Error("deepLinkRouter seen-set check failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeepLinkURLKey, rawURL),
			zap.Error(err),
		)
		return
	}
	if !fresh {
		r.Log.Info("deepLinkRouter dropping duplicate event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, event.PaymentID),
			zap.String(constvars.LoggingDeepLinkURLKey, rawURL),
		)
		return
	}

	r.Log.Info("deepLinkRouter dispatching event",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, event.PaymentID),
		zap.String("deep_link_status", string(event.Status)),
	)
	r.Handler(ctx, event)
}

// markSeen claims both dedup identities for the event: the exact raw URL and,
// when a payment id is present, the logical (paymentId, status) pair. An event
// is fresh only when the logical identity has not been claimed before.
func (r *DeepLinkRouter) markSeen(ctx context.Context, event *models.DeepLinkEvent) (bool, error) {
	urlFresh, err := r.RedisRepository.TrySetNX(ctx, fmt.Sprintf(constvars.RedisKeyDeepLinkSeen, event.RawURL), time.Now().Unix(), r.seenTTL)
	if err != nil {
		return false, err
	}

	if event.PaymentID == "" {
		return urlFresh, nil
	}

	logicalMember := event.PaymentID + "|" + string(event.Status)
	logicalFresh, err := r.RedisRepository.TrySetNX(ctx, fmt.Sprintf(constvars.RedisKeyDeepLinkSeen, logicalMember), time.Now().Unix(), r.seenTTL)
	if err != nil {
		return false, err
	}
	return logicalFresh, nil
}
