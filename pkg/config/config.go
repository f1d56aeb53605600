package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"facilityhub/pkg/client"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/model"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// TimeZone names the location used for calendar-day arithmetic (midnight, opening hours).
	TimeZone        string
	Location        *time.Location
	DefaultOpensAt  string
	DefaultClosesAt string

	AlternativeMaxSuggestions int
	AlternativeHorizonDays    int
	AlternativeStepMinutes    int
	AvailabilitySlotMinutes   int

	LockTimeout time.Duration

	NotificationsEnabled  bool
	NotificationsTopic    string
	NotificationsDLQTopic string
	NotifierGroupID       string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := fromEnv(serviceName)

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func fromEnv(serviceName string) *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		TimeZone:        getEnvStr(EnvTimeZone, DefaultTimeZone),
		DefaultOpensAt:  getEnvStr(EnvDefaultOpensAt, DefaultOpensAt),
		DefaultClosesAt: getEnvStr(EnvDefaultClosesAt, DefaultClosesAt),

		AlternativeMaxSuggestions: getEnvNum(EnvAlternativeMaxSuggestions, DefaultAlternativeMaxSuggestions),
		AlternativeHorizonDays:    getEnvNum(EnvAlternativeHorizonDays, DefaultAlternativeHorizonDays),
		AlternativeStepMinutes:    getEnvNum(EnvAlternativeStepMinutes, DefaultAlternativeStepMinutes),
		AvailabilitySlotMinutes:   getEnvNum(EnvAvailabilitySlotMinutes, DefaultAvailabilitySlotMinutes),

		LockTimeout: getEnvDuration(EnvLockTimeout, DefaultLockTimeout),

		NotificationsEnabled:  getEnvBool(EnvNotificationsEnabled, DefaultNotificationsEnabled),
		NotificationsTopic:    getEnvStr(EnvNotificationsTopic, DefaultNotificationsTopic),
		NotificationsDLQTopic: getEnvStr(EnvNotificationsDLQTopic, DefaultNotificationsDLQTopic),
		NotifierGroupID:       getEnvStr(EnvNotifierGroupID, DefaultNotifierGroupID),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Validate collects every problem instead of stopping at the first one. On success the
// configured time zone is resolved into Location.
func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.LockTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("LockTimeout must be positive, got: %s", cfg.LockTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("TimeZone must be a valid IANA location, got: %s", cfg.TimeZone))
	}

	opens, openErr := model.ParseTimeOfDay(cfg.DefaultOpensAt)
	if openErr != nil {
		errors = append(errors, fmt.Sprintf("DefaultOpensAt must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultOpensAt))
	}
	closes, closeErr := model.ParseTimeOfDay(cfg.DefaultClosesAt)
	if closeErr != nil {
		errors = append(errors, fmt.Sprintf("DefaultClosesAt must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultClosesAt))
	}
	if openErr == nil && closeErr == nil && closes <= opens {
		errors = append(errors, fmt.Sprintf("DefaultClosesAt (%s) must be after DefaultOpensAt (%s)", cfg.DefaultClosesAt, cfg.DefaultOpensAt))
	}

	if cfg.AlternativeMaxSuggestions <= 0 {
		errors = append(errors, fmt.Sprintf("AlternativeMaxSuggestions must be positive, got: %d", cfg.AlternativeMaxSuggestions))
	}
	if cfg.AlternativeHorizonDays <= 0 {
		errors = append(errors, fmt.Sprintf("AlternativeHorizonDays must be positive, got: %d", cfg.AlternativeHorizonDays))
	}
	if cfg.AlternativeStepMinutes <= 0 {
		errors = append(errors, fmt.Sprintf("AlternativeStepMinutes must be positive, got: %d", cfg.AlternativeStepMinutes))
	}
	if cfg.AvailabilitySlotMinutes <= 0 {
		errors = append(errors, fmt.Sprintf("AvailabilitySlotMinutes must be positive, got: %d", cfg.AvailabilitySlotMinutes))
	}

	if cfg.NotificationsEnabled && cfg.NotificationsTopic == "" {
		errors = append(errors, "NotificationsTopic cannot be empty when notifications are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	cfg.Location = loc
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"time_zone", cfg.TimeZone,
		"default_opens_at", cfg.DefaultOpensAt,
		"default_closes_at", cfg.DefaultClosesAt,
		"alternative_max_suggestions", cfg.AlternativeMaxSuggestions,
		"alternative_horizon_days", cfg.AlternativeHorizonDays,
		"alternative_step_minutes", cfg.AlternativeStepMinutes,
		"availability_slot_minutes", cfg.AvailabilitySlotMinutes,
		"lock_timeout", cfg.LockTimeout,
		"notifications_enabled", cfg.NotificationsEnabled,
		"notifications_topic", cfg.NotificationsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	cfg.Client.GracefulShutdown(ctx, cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
