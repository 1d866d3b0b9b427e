package contracts

import (
	"context"
	"healthcard-service/internal/app/models"
	"time"
)

// PaymentStateRepository mirrors the locally observed state of payment
// attempts. It is a client-side mirror for the UI, never the source of truth.
type PaymentStateRepository interface {
	SaveState(ctx context.Context, state *models.PaymentAttempt) error
	GetState(ctx context.Context, paymentID string) (*models.PaymentAttempt, error)
}

// ProcessingWatchRepository tracks the payment ids currently believed to be
// in flight, so the abandoned-payment monitor knows what to probe.
type ProcessingWatchRepository interface {
	Watch(ctx context.Context, paymentID string) error
	Unwatch(ctx context.Context, paymentID string) error
	Watched(ctx context.Context) ([]string, error)
}

type ReconciliationUsecase interface {
	// OnStatus handles a normalized deep-link event. Processing is
	// informational; terminal-looking statuses trigger an authoritative
	// ledger sync before any local state change.
	OnStatus(ctx context.Context, event *models.DeepLinkEvent) error
	// CheckStatus is the on-demand recovery probe.
	CheckStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error)
	// Cancel forwards an explicit user cancellation to the ledger. Idempotent:
	// cancelling an already-terminal payment is a no-op.
	Cancel(ctx context.Context, paymentID string) error
}

type PaymentAuditDocument struct {
	PaymentID     string               `bson:"payment_id"`
	ApplicationID string               `bson:"application_id,omitempty"`
	FromStatus    models.PaymentStatus `bson:"from_status"`
	ToStatus      models.PaymentStatus `bson:"to_status"`
	Source        string               `bson:"source"`
	Reason        string               `bson:"reason,omitempty"`
	RecordedAt    time.Time            `bson:"recorded_at"`
}

// PaymentAuditRepository is insert-only; terminal records are retained.
type PaymentAuditRepository interface {
	InsertTransition(ctx context.Context, doc *PaymentAuditDocument) error
	FindByPaymentID(ctx context.Context, paymentID string) ([]PaymentAuditDocument, error)
}

type StatusChangeEvent struct {
	PaymentID     string               `json:"payment_id"`
	ApplicationID string               `json:"application_id,omitempty"`
	Status        models.PaymentStatus `json:"status"`
	Reason        string               `json:"reason,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// PaymentEventPublisher republishes confirmed state changes for the UI layer.
type PaymentEventPublisher interface {
	PublishStatusChange(ctx context.Context, event *StatusChangeEvent) error
}
