package photocleanup

import (
	"context"
	"errors"
	"fmt"
	"simaru/config"
	"simaru/infras/kafka"
	"simaru/infras/otel"
	"simaru/infras/s3"
	"simaru/internal/domains/room/photo"
	"simaru/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

var ErrTopicNotConfigured = errors.New("photo cleanup topic is not configured")

// Worker deletes the stored photos named by cleanup events.
type Worker struct {
	cfg   *config.Config
	kafka kafka.Client
	s3    s3.S3
	otel  otel.Otel
}

func New(cfg *config.Config, kafka kafka.Client, s3 s3.S3, otel otel.Otel) *Worker {
	return &Worker{
		cfg:   cfg,
		kafka: kafka,
		s3:    s3,
		otel:  otel,
	}
}

// Run consumes the cleanup topic until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	topic := w.cfg.Kafka.Topics.PhotoCleanup
	if topic == constant.Empty {
		return ErrTopicNotConfigured
	}

	log.Info().Str("topic", topic).Str("group", w.cfg.Kafka.ConsumerGroup).Msg("photo cleanup worker started")

	if err := w.kafka.Consume(ctx, w.cfg.Kafka.ConsumerGroup, topic, w.Handle); err != nil {
		return fmt.Errorf("failed to consume photo cleanup events: %w", err)
	}

	return nil
}

// Handle deletes the photo of one event. Events that cannot be decoded or that name
// a key outside the photo directory are dropped, only storage failures are retried.
func (w *Worker) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".PhotoCleanup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, decodeErr := kafka.DecodeMessage[photo.CleanupEvent](message)
	if decodeErr != nil {
		log.Error().Err(decodeErr).Str("key", string(message.Key)).Msg("dropping undecodable photo cleanup event")

		return nil
	}

	if !w.owns(event.Key) {
		log.Warn().Str("key", event.Key).Msg("dropping photo cleanup event outside the photo directory")

		return nil
	}

	scope.SetAttribute("photo.key", event.Key)

	if err = w.s3.Delete(ctx, event.Key); err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", event.Key, err)
	}

	log.Info().Str("key", event.Key).Time("requested_at", event.RequestedAt).Msg("photo cleaned up")

	return nil
}

func (w *Worker) owns(key string) bool {
	if key == constant.Empty || strings.Contains(key, "..") {
		return false
	}

	return strings.HasPrefix(key, strings.TrimSuffix(w.cfg.Storage.PhotoDirectory, "/")+"/")
}
