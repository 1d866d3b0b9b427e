package constvars

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "cannot process request"
	ErrClientSomethingWrongWithApplication = "something is wrong with the application, please try again later"
	ErrClientServerLongRespond             = "server takes too long to respond"
	ErrClientInvalidAmount                 = "payment amount is invalid"
	ErrClientExternalAppUnavailable        = "unable to open checkout URL"
	ErrClientPaymentAlreadyTerminal        = "payment has already been finalized"
	ErrClientUploadFailed                  = "receipt upload failed, please retry"
	ErrClientReceiptFileUnreachable        = "receipt file can no longer be read"
	ErrClientTryAgainLater                 = "service is temporarily unavailable, try again later"
)

// Error messages for developers
const (
	ErrDevValidationFailed       = "request validation failed"
	ErrDevAmountValidationFailed = "amount validation failed: %s"
	ErrDevCannotMarshalJSON      = "cannot marshal data to JSON"
	ErrDevCannotParseJSON        = "cannot parse JSON data"
	ErrDevCreateHTTPRequest      = "failed to create HTTP request"
	ErrDevSendHTTPRequest        = "failed to send HTTP request"
	ErrDevServerDeadlineExceeded = "server deadline exceeded"
	ErrDevMissingRequestID       = "request ID missing from context"

	ErrDevLedgerCall           = "ledger service call %s failed"
	ErrDevLedgerStatus         = "ledger service returned status %d for %s"
	ErrDevLedgerDecodeResponse = "failed to decode ledger service response for %s"
	ErrDevDispatcherCannotOpen = "url dispatcher reports checkout URL cannot be opened"
	ErrDevDispatcherOpen       = "url dispatcher failed to open checkout URL"
	ErrDevBlobUploadStatus     = "blob storage rejected upload: %s"
	ErrDevFileProbe            = "source file probe failed: %s"
	ErrDevReconciliationStale  = "status event for already-terminal payment"

	ErrDevRedisGetNoData  = "redis has no data for key %s"
	ErrDevRedisGetData    = "redis failed to get data"
	ErrDevRedisSetData    = "redis failed to set data"
	ErrDevRedisDeleteData = "redis failed to delete data"
	ErrDevRedisAddToSet   = "redis failed to add member to set"
	ErrDevRedisSetMembers = "redis failed to read set members"
	ErrDevRedisUnlock     = "redis failed to release lock"

	ErrDevRabbitMQPublishMessage = "rabbitmq failed to publish message to queue %s"

	ErrDevMongoDBInsertDocument = "mongodb failed to insert document"
	ErrDevMongoDBFindDocument   = "mongodb failed to find document"

	ErrDevMinioCreateObject = "minio failed to create object in bucket %s"
	ErrDevMinioPresignURL   = "minio failed to presign object URL in bucket %s"

	ErrDevTokenGenerate = "failed to sign service token"
)
