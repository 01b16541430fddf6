package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLedgerURL          = "LEDGER_URL"
	EnvLedgerTimeout      = "LEDGER_TIMEOUT"
	EnvLedgerMaxAttempts  = "LEDGER_MAX_ATTEMPTS"
	EnvLedgerRetryBackoff = "LEDGER_RETRY_BACKOFF"

	EnvNotificationsEnabled = "NOTIFICATIONS_ENABLED"
	EnvNotificationsTimeout = "NOTIFICATIONS_TIMEOUT"

	EnvMetricsEnabled = "METRICS_ENABLED"
)
