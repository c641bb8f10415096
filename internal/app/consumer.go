package app

import (
	"context"
	"fmt"

	"peopleflow-hr/internal/employeesalary"
	"peopleflow-hr/internal/events"
	"peopleflow-hr/internal/jurisdiction"
	"peopleflow-hr/internal/messaging/kafka"
	"peopleflow-hr/internal/messaging/kafka/consumer"
	"peopleflow-hr/internal/payroll"
	"peopleflow-hr/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const payrollRunGroupID = "peopleflow-hr-payroll-run"

// RunConsumer executes payroll runs queued on Kafka until ctx ends.
func RunConsumer(ctx context.Context, cfg Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg, true)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := connection.WaitForKafka(ctx, cfg.KafkaBroker, cfg.ConnectRetries); err != nil {
		return err
	}

	jurisdictionService := jurisdiction.NewService(
		in.sqlDB,
		jurisdiction.NewRepository(in.gormDB),
		in.redis,
		cfg.JurisdictionCacheTTL,
	)
	salaryService := employeesalary.NewService(in.sqlDB, employeesalary.NewRepository(in.gormDB))
	payrollService := payroll.NewService(
		in.sqlDB,
		payroll.NewRepository(in.gormDB),
		kafka.NewOutboxRepository(in.sqlDB),
		jurisdictionService,
		salaryService,
		cfg.PayrollRunConcurrency,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.PayrollRunRequestedTopic,
		GroupID:        payrollRunGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumePayrollRunRequested(ctx, reader, payrollService, consumer.DefaultBackoff, logger)

	logger.Info("consumer shutting down")
	return nil
}
