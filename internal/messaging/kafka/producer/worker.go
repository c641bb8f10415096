package producer

import (
	"context"
	"time"

	"peopleflow-hr/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultBatchSize    = 50
	maxDrainBatches     = 20
)

// ProcessOutboxEvents relays pending outbox rows to Kafka until ctx ends. It
// polls once on start and then every pollInterval.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		if sent, err := drainOutbox(ctx, repo, writer, log, DefaultBatchSize); err != nil {
			log.Error("process outbox events failed", zap.Error(err))
		} else if sent > 0 {
			log.Debug("outbox drained", zap.Int("sent", sent))
		}

		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// drainOutbox keeps publishing batches while they come back full and make
// progress, up to maxDrainBatches per tick. A payroll run can enqueue far
// more than one batch at once.
func drainOutbox(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	batchSize int,
) (int, error) {
	total := 0
	for i := 0; i < maxDrainBatches; i++ {
		if ctx.Err() != nil {
			return total, nil
		}
		sent, full, err := processBatch(ctx, repo, writer, logger, batchSize)
		total += sent
		if err != nil || !full || sent == 0 {
			return total, err
		}
	}
	return total, nil
}

func processBatch(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	batchSize int,
) (sent int, full bool, err error) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, false, err
	}
	sent = publishBatch(ctx, repo, writer, logger, events)
	return sent, len(events) == batchSize, nil
}

// publishBatch sends events in order and records each outcome. Failures are
// marked for retry and do not stop the batch.
func publishBatch(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	events []kafka.OutboxEvent,
) int {
	if len(events) == 0 {
		return 0
	}

	logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		sent++
		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return sent
}
