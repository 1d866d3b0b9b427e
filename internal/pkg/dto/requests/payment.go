package requests

type SubmitPaymentRequest struct {
	ApplicationID   string  `json:"application_id" validate:"required"`
	Amount          float64 `json:"amount" validate:"required"`
	ServiceFee      float64 `json:"service_fee"`
	MethodID        string  `json:"method_id" validate:"required"`
	ReferenceNumber string  `json:"reference_number"`
	WithReceipt     bool    `json:"with_receipt"`
	ReceiptRef      string  `json:"receipt_ref" validate:"required_if=WithReceipt true"`
}

type InitiateCheckoutRequest struct {
	ApplicationID string  `json:"application_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
	ServiceFee    float64 `json:"service_fee"`
}

type CancelPaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

type RetryUploadsRequest struct {
	QueueID string `json:"queue_id" validate:"required"`
}

type PaymentReturnRequest struct {
	URL string `json:"url"`
}
