package photo

//go:generate go run go.uber.org/mock/mockgen -source=./cleaner.go -destination=./mocks/cleaner_mock.go -package=mocks

import (
	"context"
	"simaru/config"
	"simaru/infras/kafka"
	"simaru/infras/s3"
	"simaru/shared/constant"
	"simaru/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

// CleanupEvent is published on the photo cleanup topic, one per stored key.
type CleanupEvent struct {
	Key         string    `json:"key"`
	RequestedAt time.Time `json:"requested_at"`
}

// Cleaner removes stored photos that are no longer referenced by any room.
// It is called only after the row change that dropped the reference has been committed.
type Cleaner interface {
	Cleanup(ctx context.Context, keys ...string)
}

// NewCleaner selects the cleanup strategy from STORAGE_CLEANUP_MODE.
func NewCleaner(cfg *config.Config, s3 s3.S3, kafka kafka.Client) Cleaner {
	direct := NewDirectCleaner(s3)

	if cfg.Storage.CleanupMode == constant.StorageCleanupModeQueue {
		return NewQueueCleaner(kafka, cfg.Kafka.Topics.PhotoCleanup, direct)
	}

	return direct
}

type directCleaner struct {
	s3 s3.S3
}

func NewDirectCleaner(s3 s3.S3) Cleaner {
	return &directCleaner{s3: s3}
}

func (c *directCleaner) Cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == constant.Empty {
			continue
		}

		if err := c.s3.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to clean up photo")
		}
	}
}

type queueCleaner struct {
	kafka    kafka.Client
	topic    string
	fallback Cleaner
}

// NewQueueCleaner publishes cleanup events for the worker. When publishing fails
// the keys are handed to fallback instead.
func NewQueueCleaner(kafka kafka.Client, topic string, fallback Cleaner) Cleaner {
	return &queueCleaner{
		kafka:    kafka,
		topic:    topic,
		fallback: fallback,
	}
}

func (c *queueCleaner) Cleanup(ctx context.Context, keys ...string) {
	messages := make([]kafka.Message, 0, len(keys))
	pending := make([]string, 0, len(keys))

	for _, key := range keys {
		if key == constant.Empty {
			continue
		}

		pending = append(pending, key)
		messages = append(messages, kafka.Message{
			Key:   key,
			Value: CleanupEvent{Key: key, RequestedAt: timezone.Now()},
		})
	}

	if len(messages) == 0 {
		return
	}

	if err := c.kafka.SendMessages(ctx, c.topic, messages...); err != nil {
		log.Warn().Err(err).Strs("keys", pending).Msg("failed to queue photo cleanup, deleting directly")

		c.fallback.Cleanup(ctx, pending...)
	}
}
