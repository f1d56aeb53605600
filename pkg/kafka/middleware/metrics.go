package kafka_middleware

import (
	"context"
	"time"

	"facilityhub/pkg/kafka"
	"facilityhub/pkg/metrics"
)

func MetricsProducerMiddleware(rec metrics.Recorder) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.PublishFunc) error {
		start := time.Now()
		err := next(ctx, msg)
		rec.RecordKafkaMessage(metrics.DirectionPublish, err, time.Since(start))
		return err
	}
}

func MetricsConsumerMiddleware(rec metrics.Recorder) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		rec.RecordKafkaMessage(metrics.DirectionConsume, err, time.Since(start))
		return err
	}
}
