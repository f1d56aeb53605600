package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	facilitiesrepo "facilityhub/internal/facilities/repository"
	"facilityhub/internal/notifications"
	"facilityhub/pkg/config"
	"facilityhub/pkg/kafka"
	kafka_config "facilityhub/pkg/kafka/config"
	kafka_middleware "facilityhub/pkg/kafka/middleware"
	"facilityhub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	handler := notifications.NewEventHandler(facilitiesrepo.NewMongoFacilityRepository(cfg), cfg.Log, cfg.Location)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.Log, cfg.NotificationsTopic, cfg.NotifierGroupID, cfg.NotificationsDLQTopic, handler.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create kafka consumer", "error", err)
	}

	registry := prometheus.NewRegistry()
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware(metrics.NewCollector(registry)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := metricsServer(cfg, registry)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Metrics server failed", "error", err)
		}
	}()

	cfg.Log.Info("Starting notifier", "topic", cfg.NotificationsTopic, "group_id", cfg.NotifierGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Notifier stopped with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Metrics server shutdown failed", "error", err)
	}
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

// metricsServer exposes /metrics and a liveness probe on the configured port.
func metricsServer(cfg *config.Config, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: cfg.ReadTimeout,
		IdleTimeout: cfg.IdleTimeout,
	}
}
