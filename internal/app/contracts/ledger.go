package contracts

import (
	"context"
	"healthcard-service/internal/app/models"
)

type CreateCheckoutSessionInput struct {
	ApplicationID string  `json:"application_id"`
	Amount        float64 `json:"amount"`
	ServiceFee    float64 `json:"service_fee"`
}

type CreateCheckoutSessionOutput struct {
	PaymentID       string `json:"payment_id"`
	CheckoutURL     string `json:"checkout_url"`
	ExistingPayment bool   `json:"existing_payment"`
}

type CreatePaymentInput struct {
	ApplicationID   string  `json:"application_id"`
	Amount          float64 `json:"amount"`
	ServiceFee      float64 `json:"service_fee"`
	NetAmount       float64 `json:"net_amount"`
	Method          string  `json:"method"`
	ReferenceNumber string  `json:"reference_number"`
	ReceiptRef      string  `json:"receipt_ref,omitempty"`
}

type CreatePaymentOutput struct {
	PaymentID  string `json:"payment_id"`
	IsExisting bool   `json:"is_existing"`
}

// LedgerService is the remote transactional authority for payment records.
// Every call is a suspension point; each call is atomic from this service's
// perspective and idempotent at the ledger boundary.
type LedgerService interface {
	CreateCheckoutSession(ctx context.Context, input *CreateCheckoutSessionInput) (*CreateCheckoutSessionOutput, error)
	CreatePayment(ctx context.Context, input *CreatePaymentInput) (*CreatePaymentOutput, error)
	UpdatePaymentStatus(ctx context.Context, paymentID string, status models.PaymentStatus) error
	SyncPaymentStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error)
	CheckPaymentStatus(ctx context.Context, paymentID string) (models.PaymentStatus, error)
	GenerateUploadURL(ctx context.Context) (string, error)
}
