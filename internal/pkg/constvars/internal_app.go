package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "requestID"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "isClientRequestID"
)

const (
	ResponseSuccess = "success"
	ResponseUnknown = "unknown"
)
