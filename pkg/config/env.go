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

	EnvTimeZone        = "TIME_ZONE"
	EnvDefaultOpensAt  = "DEFAULT_OPENS_AT"
	EnvDefaultClosesAt = "DEFAULT_CLOSES_AT"

	EnvAlternativeMaxSuggestions = "ALTERNATIVE_MAX_SUGGESTIONS"
	EnvAlternativeHorizonDays    = "ALTERNATIVE_HORIZON_DAYS"
	EnvAlternativeStepMinutes    = "ALTERNATIVE_STEP_MINUTES"
	EnvAvailabilitySlotMinutes   = "AVAILABILITY_SLOT_MINUTES"

	EnvLockTimeout = "LOCK_TIMEOUT"

	EnvNotificationsEnabled  = "NOTIFICATIONS_ENABLED"
	EnvNotificationsTopic    = "NOTIFICATIONS_TOPIC"
	EnvNotificationsDLQTopic = "NOTIFICATIONS_DLQ_TOPIC"
	EnvNotifierGroupID       = "NOTIFIER_GROUP_ID"
)
