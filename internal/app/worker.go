package app

import (
	"context"
	"fmt"

	"peopleflow-hr/internal/messaging/kafka"
	"peopleflow-hr/internal/messaging/kafka/producer"
	"peopleflow-hr/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunWorker relays outbox events to Kafka until ctx ends.
func RunWorker(ctx context.Context, cfg Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg, false)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := connection.WaitForKafka(ctx, cfg.KafkaBroker, cfg.ConnectRetries); err != nil {
		return err
	}

	// Hash keeps every event of one payroll on the same partition.
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBroker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	producer.ProcessOutboxEvents(
		ctx,
		kafka.NewOutboxRepository(in.sqlDB),
		writer,
		logger,
		producer.DefaultPollInterval,
	)

	logger.Info("worker shutting down")
	return nil
}
