package kafka

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestMessageBuilder_Build(t *testing.T) {
	at := time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)
	msg, err := NewMessage().
		WithKey("gym-1").
		WithValue(map[string]string{"id": "r-1"}).
		WithEventType("reservation.created").
		WithSource("reservations").
		WithTimestamp(at).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Key != "gym-1" {
		t.Errorf("Key = %s", msg.Key)
	}
	if string(msg.Value) != `{"id":"r-1"}` {
		t.Errorf("Value = %s", msg.Value)
	}
	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}
	if msg.Headers[HeaderTimestamp] != "2030-03-04T10:00:00Z" {
		t.Errorf("timestamp header = %s", msg.Headers[HeaderTimestamp])
	}
	if msg.GetEventType() != "reservation.created" {
		t.Errorf("event type = %s", msg.GetEventType())
	}
}

func TestMessageBuilder_EncodeFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(math.Inf(1)).Build()
	if err == nil {
		t.Fatal("expected encoding error")
	}
}

func TestMessageBuilder_EmptyCorrelationIDIsSkipped(t *testing.T) {
	msg, _ := NewMessage().WithCorrelationID("").Build()
	if _, ok := msg.GetHeader(HeaderCorrelationID); ok {
		t.Error("empty correlation id should not be set")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	if msg.GetRetryCount() != 0 {
		t.Fatal("expected zero retries")
	}
	for range 12 {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}
	if msg.Headers[HeaderRetryCount] != "12" {
		t.Errorf("header = %q", msg.Headers[HeaderRetryCount])
	}

	msg.Headers[HeaderRetryCount] = "garbage"
	if msg.GetRetryCount() != 0 {
		t.Error("unparsable retry count should read as zero")
	}
}

func TestMessage_DecodeValueIsPermanent(t *testing.T) {
	msg := Message{Value: []byte("{not json")}
	var v map[string]any

	err := msg.DecodeValue(&v)
	if err == nil {
		t.Fatal("expected error")
	}
	var kafkaErr *KafkaError
	if !errors.As(err, &kafkaErr) || !kafkaErr.IsPermanent() {
		t.Errorf("expected permanent KafkaError, got %v", err)
	}
}

func TestMessage_CloneIsIndependent(t *testing.T) {
	orig := Message{Headers: map[string]string{"a": "1"}}
	clone := orig.Clone()
	clone.Headers["a"] = "2"

	if orig.Headers["a"] != "1" {
		t.Error("clone shares headers with original")
	}
}
