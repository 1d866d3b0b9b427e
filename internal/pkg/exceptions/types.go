package exceptions

import (
	"fmt"
	"healthcard-service/internal/pkg/constvars"
)

var (
	// Validation
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevValidationFailed)
	}
	ErrAmountValidation = func(reason string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientInvalidAmount, fmt.Sprintf(constvars.ErrDevAmountValidationFailed, reason))
	}

	// Parse
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}

	// Server
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}

	// Ledger service
	ErrLedgerCall = func(err error, operation string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientTryAgainLater, fmt.Sprintf(constvars.ErrDevLedgerCall, operation))
	}
	ErrLedgerStatus = func(statusCode int, operation string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientTryAgainLater, fmt.Sprintf(constvars.ErrDevLedgerStatus, statusCode, operation))
	}
	ErrLedgerDecodeResponse = func(err error, operation string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientTryAgainLater, fmt.Sprintf(constvars.ErrDevLedgerDecodeResponse, operation))
	}

	// Checkout handoff
	ErrExternalAppUnavailable = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientExternalAppUnavailable, constvars.ErrDevDispatcherCannotOpen)
	}
	ErrExternalAppOpen = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientExternalAppUnavailable, constvars.ErrDevDispatcherOpen)
	}

	// Uploads
	ErrUploadFailed = func(statusText string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientUploadFailed, fmt.Sprintf(constvars.ErrDevBlobUploadStatus, statusText))
	}
	ErrFileProbe = func(err error, uri string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGone, constvars.ErrClientReceiptFileUnreachable, fmt.Sprintf(constvars.ErrDevFileProbe, uri))
	}

	// Reconciliation
	ErrReconciliationStale = func(paymentID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPaymentAlreadyTerminal, constvars.ErrDevReconciliationStale+" "+paymentID)
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientTryAgainLater, constvars.ErrDevSendHTTPRequest)
	}

	// Redis
	ErrRedisGetNoData = func(err error, redisKey string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisGetNoData, redisKey))
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisAddToSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisAddToSet)
	}
	ErrRedisGetSetMembers = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetMembers)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}

	// Mongo DB
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBInsertDocument)
	}
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMongoDBFindDocument)
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioCreateObject, bucketName))
	}
	ErrMinioFindObjectPresignedURL = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioPresignURL, bucketName))
	}

	// JWT
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevTokenGenerate)
	}
)
