package main

import (
	"context"

	facilitiesrepo "facilityhub/internal/facilities/repository"
	"facilityhub/internal/notifications"
	"facilityhub/internal/reservations/handler"
	"facilityhub/internal/reservations/repository"
	"facilityhub/internal/reservations/service"
	"facilityhub/internal/reservations/validator"
	"facilityhub/pkg/app"
	"facilityhub/pkg/config"
	"facilityhub/pkg/kafka"
	kafka_config "facilityhub/pkg/kafka/config"
	kafka_middleware "facilityhub/pkg/kafka/middleware"
	"facilityhub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	serverApp := app.NewApplication(cfg, recorder, registry)

	notifier := initNotifier(cfg, recorder, serverApp)
	reservationService := initServices(cfg, recorder, notifier)

	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client, cfg.Log),
		handler.NewReservationHandler(reservationService, cfg.Log, cfg.Location),
	)
	serverApp.OnShutdown(func(context.Context) error {
		cfg.GracefulShutdown()
		return nil
	})
	serverApp.Run()
}

func initServices(cfg *config.Config, recorder metrics.Recorder, notifier service.Notifier) service.ReservationService {
	reservationService := service.NewReservationService(
		repository.NewMongoReservationRepository(cfg),
		repository.NewReservationLockRepository(cfg),
		facilitiesrepo.NewMongoFacilityRepository(cfg),
		validator.NewReservationValidator(cfg.Log),
		cfg,
		service.WithMetrics(recorder),
		service.WithNotifier(notifier),
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

// initNotifier publishes events to Kafka when enabled, and only logs them otherwise.
func initNotifier(cfg *config.Config, recorder metrics.Recorder, serverApp *app.Application) service.Notifier {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Kafka notifications disabled, notifications are logged only")
		return notifications.NewLogNotifier(cfg.Log, cfg.Location)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.NotificationsTopic, cfg.NotificationsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(recorder))

	serverApp.OnShutdown(func(context.Context) error {
		return producer.Close()
	})

	cfg.Log.Info("Kafka notifications enabled", "topic", producer.Topic())
	return notifications.NewKafkaNotifier(producer, ServiceName)
}
