package config

import (
	"healthcard-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "Asia/Manila"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
		},
		Ledger: AppLedger{
			BaseUrl:                 utils.GetEnvString("LEDGER_BASE_URL", "http://localhost:5600/ledger"),
			RequestTimeoutInSeconds: utils.GetEnvInt("LEDGER_REQUEST_TIMEOUT_IN_SECONDS", 15),
			MaxRequestsPerSecond:    utils.GetEnvInt("LEDGER_MAX_REQUESTS_PER_SECOND", 10),
			ServiceName:             utils.GetEnvString("LEDGER_SERVICE_NAME", "healthcard-service"),
		},
		Wallet: AppWallet{
			AllowedSchemes:            utils.GetEnvString("WALLET_ALLOWED_SCHEMES", "https,gcash,maya"),
			OpenProbeTimeoutInSeconds: utils.GetEnvInt("WALLET_OPEN_PROBE_TIMEOUT_IN_SECONDS", 5),
			ReturnScheme:              utils.GetEnvString("WALLET_RETURN_SCHEME", "healthcard"),
		},
		Payments: AppPayments{
			StallThresholdInMinutes:     utils.GetEnvInt("PAYMENTS_STALL_THRESHOLD_IN_MINUTES", 3),
			ProcessingDeadlineInMinutes: utils.GetEnvInt("PAYMENTS_PROCESSING_DEADLINE_IN_MINUTES", 30),
			MonitorTickInSeconds:        utils.GetEnvInt("PAYMENTS_MONITOR_TICK_IN_SECONDS", 60),
			DeepLinkSeenTTLInHours:      utils.GetEnvInt("PAYMENTS_DEEP_LINK_SEEN_TTL_IN_HOURS", 24),
			UploadQueueTTLInHours:       utils.GetEnvInt("PAYMENTS_UPLOAD_QUEUE_TTL_IN_HOURS", 72),
			StateTTLInHours:             utils.GetEnvInt("PAYMENTS_STATE_TTL_IN_HOURS", 72),
			UploadTimeoutInSeconds:      utils.GetEnvInt("PAYMENTS_UPLOAD_TIMEOUT_IN_SECONDS", 30),
		},
		Minio: AppMinio{
			BucketName:                      utils.GetEnvString("APP_MINIO_BUCKET_NAME", "healthcard-receipts"),
			ReceiptMaxUploadSizeInMB:        int64(utils.GetEnvInt("APP_MINIO_RECEIPT_MAX_UPLOAD_SIZE_IN_MB", 6)),
			PresignedReviewURLExpiryInHours: utils.GetEnvInt("APP_MINIO_PRESIGNED_REVIEW_URL_EXPIRY_IN_HOURS", 24),
		},
		MongoDB: AppMongoDB{
			AuditDBName:         utils.GetEnvString("APP_MONGODB_AUDIT_DB_NAME", "healthcard"),
			AuditCollectionName: utils.GetEnvString("APP_MONGODB_AUDIT_COLLECTION_NAME", "payment_audit"),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 1),
		},
	}
}
