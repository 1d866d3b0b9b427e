package responses

import "healthcard-service/internal/app/models"

type SubmitPaymentResponse struct {
	PaymentID       string               `json:"payment_id"`
	ReferenceNumber string               `json:"reference_number"`
	Status          models.PaymentStatus `json:"status"`
	IsExisting      bool                 `json:"is_existing"`
}

type InitiateCheckoutResponse struct {
	Success          bool   `json:"success"`
	WaitingForReturn bool   `json:"waiting_for_return"`
	PaymentID        string `json:"payment_id,omitempty"`
	CheckoutURL      string `json:"checkout_url,omitempty"`
	ExistingPayment  bool   `json:"existing_payment"`
	Reason           string `json:"reason,omitempty"`
}

type ActiveCheckoutSessionResponse struct {
	Session *models.CheckoutSession `json:"session,omitempty"`
	// StillProcessing is set when the session has outlived the processing
	// deadline and the cancel affordance should be shown.
	StillProcessing bool `json:"still_processing"`
}

type PaymentStatusResponse struct {
	PaymentID string               `json:"payment_id"`
	Status    models.PaymentStatus `json:"status"`
}

type RetryFailedResponse struct {
	Success      bool   `json:"success"`
	RetrySuccess int    `json:"retry_success"`
	RetryFailed  int    `json:"retry_failed"`
	Message      string `json:"message"`
}

type ReceiptUploadResponse struct {
	StorageID string `json:"storage_id"`
	FileName  string `json:"file_name"`
	Size      int64  `json:"size"`
}

type ReceiptReviewURLResponse struct {
	URL string `json:"url"`
}
