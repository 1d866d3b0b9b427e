package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRequestKey       = "request"
	LoggingResponseKey      = "response"
	LoggingEndpointKey      = "endpoint"
	LoggingMethodKey        = "method"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingErrorTypeKey     = "error_type"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"

	LoggingApplicationIDKey  = "application_id"
	LoggingPaymentIDKey      = "payment_id"
	LoggingPaymentStatusKey  = "payment_status"
	LoggingCheckoutURLKey    = "checkout_url"
	LoggingDeepLinkURLKey    = "deep_link_url"
	LoggingUploadIDKey       = "upload_id"
	LoggingStorageIDKey      = "storage_id"
	LoggingQueueKey          = "queue"
)
