package constvars

const (
	PaymentSubmittedSuccessMessage       = "Payment submitted successfully"
	PaymentCheckoutInitiatedMessage      = "Checkout initiated, waiting for wallet return"
	PaymentStatusFetchedMessage          = "Payment status fetched successfully"
	PaymentCancelledMessage              = "Payment cancelled successfully"
	PaymentReturnAcceptedMessage         = "Payment return accepted"
	ReceiptUploadedSuccessMessage        = "Receipt uploaded successfully"
	ReceiptReviewURLGeneratedMessage     = "Receipt review URL generated"
	UploadRetryCompletedMessage          = "Upload retry completed"
)
