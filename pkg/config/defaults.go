package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staybook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLedgerURL          = "http://localhost:8090"
	DefaultLedgerTimeout      = 5 * time.Second
	DefaultLedgerMaxAttempts  = 3
	DefaultLedgerRetryBackoff = 200 * time.Millisecond

	DefaultNotificationsEnabled = true
	DefaultNotificationsTimeout = 5 * time.Second

	DefaultMetricsEnabled = true

	DefaultPaginationLimit = 100
)
