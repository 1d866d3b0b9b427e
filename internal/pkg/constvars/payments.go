package constvars

// Deep-link URL contract shared with the wallet gateway redirect.
const (
	DeepLinkPaymentPathMarker = "payment"

	DeepLinkSegmentSuccess   = "success"
	DeepLinkSegmentFailed    = "failed"
	DeepLinkSegmentCancelled = "cancelled"

	DeepLinkParamPaymentID     = "paymentId"
	DeepLinkParamApplicationID = "applicationId"
	DeepLinkParamReason        = "reason"
)

const (
	PaymentMethodExternalWallet = "external_wallet"
	PaymentMethodManualReceipt  = "manual_receipt"
)

// Redis key formats. All payment-scoped state lives under these keys.
const (
	RedisKeyActiveCheckoutSession = "payments:checkout:active:%s"  // applicationId
	RedisKeyPaymentState          = "payments:state:%s"            // paymentId
	RedisKeyUploadQueue           = "payments:uploads:%s"          // queue id (application scoped)
	RedisKeyDeepLinkSeen          = "payments:deeplink:seen:%s"    // dedup member key
	RedisKeyAbandonMonitorLock    = "payments:monitor:lock"
	RedisKeyProcessingWatchSet    = "payments:monitor:watch"
)

const (
	AmountMaxValue     = 1_000_000
	AmountMaxDecimals  = 2
)

// Upload progress checkpoints used by the retry queue.
const (
	UploadProgressFileRead    = 25
	UploadProgressURLIssued   = 50
	UploadProgressContentType = 75
	UploadProgressDone        = 100
)
