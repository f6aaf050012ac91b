package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/UTarts/cardiff-healthcare/internal/event"
	pkgkafka "github.com/UTarts/cardiff-healthcare/pkg/kafka"
)

// WorkerConfig configures the inquiry notification consumer.
type WorkerConfig struct {
	Brokers    []string
	GroupID    string
	MaxRetries int
	DedupTTL   time.Duration
}

// NewIdempotencyStore returns a Redis-backed store when client is non-nil
// and an in-process one otherwise.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) pkgkafka.IdempotencyStore {
	if client == nil {
		return pkgkafka.NewMemoryIdempotencyStore(ttl)
	}
	return pkgkafka.NewRedisIdempotencyStore(client, "notify:inquiry:", ttl)
}

// Worker consumes inquiry.created and sends one notification per event.
type Worker struct {
	consumer *pkgkafka.Consumer
	dlq      *pkgkafka.DLQProducer
	logger   *slog.Logger
}

// NewWorker wires h behind deduplication, retries and a dead-letter topic.
func NewWorker(cfg WorkerConfig, h *Handler, store pkgkafka.IdempotencyStore, logger *slog.Logger) *Worker {
	if cfg.GroupID == "" {
		cfg.GroupID = "cardiff-notify"
	}
	dlq := pkgkafka.NewDLQProducer(cfg.Brokers, logger)
	consumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:    cfg.Brokers,
		GroupID:    cfg.GroupID,
		Topic:      event.TopicInquiryCreated,
		MaxRetries: cfg.MaxRetries,
	}, pkgkafka.IdempotentHandler(store, h.Handle, logger), dlq, logger)

	return &Worker{consumer: consumer, dlq: dlq, logger: logger}
}

// Run consumes until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	if err := w.consumer.Start(ctx); err != nil {
		w.logger.Error("notification worker stopped", slog.String("error", err.Error()))
	}
}

// Close stops the reader and flushes the dead-letter writer.
func (w *Worker) Close() error {
	return errors.Join(w.consumer.Close(), w.dlq.Close())
}
