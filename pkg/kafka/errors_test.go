package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"tagged transient", NewTransientError("db", errors.New("boom")), ErrorTypeTransient},
		{"wrapped permanent", fmt.Errorf("outer: %w", NewPermanentError("bad", nil)), ErrorTypePermanent},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("network", nil)

	if !ShouldRetry(transient, 0, 3) {
		t.Error("expected retry for transient error under the limit")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("expected no retry once the limit is reached")
	}
	if ShouldRetry(NewPermanentError("bad", nil), 0, 3) {
		t.Error("permanent errors are never retried")
	}
	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error is never retried")
	}
}
