package notifications

import (
	"context"
	"fmt"
	"time"

	"facilityhub/pkg/kafka"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/model"
)

const (
	SchemaVersion = "1"
	DefaultSource = "reservations"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes reservation events keyed by facility, so every event of one
// facility lands on the same partition in commit order.
type KafkaNotifier struct {
	publisher Publisher
	source    string
}

func NewKafkaNotifier(publisher Publisher, source string) *KafkaNotifier {
	if source == "" {
		source = DefaultSource
	}
	return &KafkaNotifier{publisher: publisher, source: source}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event model.ReservationEvent) error {
	if event.Reservation == nil {
		return fmt.Errorf("reservation event %s has no reservation", event.Type)
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Reservation.FacilityID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithCorrelationID(logger.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(n.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", event.Type, err)
	}

	return n.publisher.Publish(ctx, msg)
}

// LogNotifier renders events and writes them to the log. Used when Kafka is disabled.
type LogNotifier struct {
	log      *logger.Logger
	location *time.Location
}

func NewLogNotifier(log *logger.Logger, location *time.Location) *LogNotifier {
	return &LogNotifier{log: log, location: location}
}

func (n *LogNotifier) Notify(ctx context.Context, event model.ReservationEvent) error {
	if event.Reservation == nil {
		return fmt.Errorf("reservation event %s has no reservation", event.Type)
	}
	logNotification(n.log.FromContext(ctx), event, Render(event, "", n.location))
	return nil
}

func logNotification(log *logger.Logger, event model.ReservationEvent, n Notification) {
	log.Info("Notification sent",
		"reservation_id", event.Reservation.ID,
		"recipient_id", n.RecipientID,
		"event_type", n.EventType,
		"subject", n.Subject,
		"message", n.Message,
	)
}
