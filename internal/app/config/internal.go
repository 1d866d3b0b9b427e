package config

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	Ledger   AppLedger   `mapstructure:"ledger"`
	Wallet   AppWallet   `mapstructure:"wallet"`
	Payments AppPayments `mapstructure:"payments"`
	Minio    AppMinio    `mapstructure:"minio"`
	MongoDB  AppMongoDB  `mapstructure:"mongodb"`
	JWT      AppJWT      `mapstructure:"jwt"`
}

type App struct {
	Env                      string `mapstructure:"env"`
	Port                     string `mapstructure:"port"`
	Version                  string `mapstructure:"version"`
	Timezone                 string `mapstructure:"timezone"`
	EndpointPrefix           string `mapstructure:"endpoint_prefix"`
	MaxRequests              int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds int    `mapstructure:"shutdown_timeout_in_seconds"`
}

type AppLedger struct {
	BaseUrl                 string `mapstructure:"base_url"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
	MaxRequestsPerSecond    int    `mapstructure:"max_requests_per_second"`
	ServiceName             string `mapstructure:"service_name"`
}

type AppWallet struct {
	// AllowedSchemes is a CSV list of URL schemes the dispatcher may open.
	AllowedSchemes            string `mapstructure:"allowed_schemes"`
	OpenProbeTimeoutInSeconds int    `mapstructure:"open_probe_timeout_in_seconds"`
	ReturnScheme              string `mapstructure:"return_scheme"`
}

// AppPayments holds the orchestration thresholds. Every threshold has an
// env-tunable default.
type AppPayments struct {
	// StallThresholdInMinutes is how old a processing checkout must be before
	// a foreground transition triggers a recovery probe.
	StallThresholdInMinutes int `mapstructure:"stall_threshold_in_minutes"`
	// ProcessingDeadlineInMinutes is the longer bound past which the monitor
	// surfaces the "still processing / cancel" affordance.
	ProcessingDeadlineInMinutes int `mapstructure:"processing_deadline_in_minutes"`
	// MonitorTickInSeconds is the abandoned-payment monitor loop interval.
	MonitorTickInSeconds int `mapstructure:"monitor_tick_in_seconds"`
	// DeepLinkSeenTTLInHours bounds the dedup seen-set retention.
	DeepLinkSeenTTLInHours int `mapstructure:"deep_link_seen_ttl_in_hours"`
	// UploadQueueTTLInHours bounds how long a persisted upload queue survives.
	UploadQueueTTLInHours int `mapstructure:"upload_queue_ttl_in_hours"`
	// StateTTLInHours bounds the local payment-state mirror retention.
	StateTTLInHours int `mapstructure:"state_ttl_in_hours"`
	// UploadTimeoutInSeconds is the HTTP timeout for one blob upload.
	UploadTimeoutInSeconds int `mapstructure:"upload_timeout_in_seconds"`
}

type AppMinio struct {
	BucketName                      string `mapstructure:"bucket_name"`
	ReceiptMaxUploadSizeInMB        int64  `mapstructure:"receipt_max_upload_size_in_mb"`
	PresignedReviewURLExpiryInHours int    `mapstructure:"presigned_review_url_expiry_in_hours"`
}

type AppMongoDB struct {
	AuditDBName         string `mapstructure:"audit_db_name"`
	AuditCollectionName string `mapstructure:"audit_collection_name"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}
