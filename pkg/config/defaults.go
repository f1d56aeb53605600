package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "facilityhub"
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

	DefaultPaginationLimit = 100

	DefaultTimeZone = "UTC"
	DefaultOpensAt  = "08:00"
	DefaultClosesAt = "20:00"

	DefaultAlternativeMaxSuggestions = 3
	DefaultAlternativeHorizonDays    = 7
	DefaultAlternativeStepMinutes    = 60
	DefaultAvailabilitySlotMinutes   = 60

	DefaultLockTimeout = 5 * time.Second

	DefaultNotificationsEnabled  = false
	DefaultNotificationsTopic    = "reservation-events"
	DefaultNotificationsDLQTopic = "reservation-events-dlq"
	DefaultNotifierGroupID       = "facilityhub-notifier"
)
