package contracts

import (
	"context"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/pkg/dto/requests"
	"healthcard-service/internal/pkg/dto/responses"
)

// SubmissionProgress is the coordinator's internal progress, exposed for the
// UI layer. It is not persisted.
type SubmissionProgress string

const (
	SubmissionIdle      SubmissionProgress = "idle"
	SubmissionChecking  SubmissionProgress = "checking"
	SubmissionUploading SubmissionProgress = "uploading"
	SubmissionCreating  SubmissionProgress = "creating"
	SubmissionCompleted SubmissionProgress = "completed"
)

type PaymentSubmissionUsecase interface {
	// Submit drives the manual-receipt path. A second call while one is in
	// flight returns (nil, nil) with no effect.
	Submit(ctx context.Context, request *requests.SubmitPaymentRequest) (*responses.SubmitPaymentResponse, error)
	Progress() SubmissionProgress
}

type CheckoutUsecase interface {
	Initiate(ctx context.Context, request *requests.InitiateCheckoutRequest) (*responses.InitiateCheckoutResponse, error)
	ActiveSession(ctx context.Context, applicationID string) (*responses.ActiveCheckoutSessionResponse, error)
}

// CheckoutSessionRepository stores the single active checkout session per
// application. A terminal reconciliation outcome clears the entry.
type CheckoutSessionRepository interface {
	SaveSession(ctx context.Context, applicationID string, session *models.CheckoutSession) error
	GetSession(ctx context.Context, applicationID string) (*models.CheckoutSession, error)
	DeleteSession(ctx context.Context, applicationID string) error
}
