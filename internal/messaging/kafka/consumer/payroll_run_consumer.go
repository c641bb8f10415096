package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"peopleflow-hr/internal/events"
	"peopleflow-hr/internal/payroll"
	"peopleflow-hr/internal/shared/apperror"
	"peopleflow-hr/internal/shared/contextutil"

	"go.uber.org/zap"
)

// PayrollRunner is satisfied by payroll.Service.
type PayrollRunner interface {
	Run(ctx context.Context, companyID, actorID string, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error)
}

// Backoff bounds the wait between attempts of a failing run.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

var DefaultBackoff = Backoff{Initial: time.Second, Max: 30 * time.Second}

func (b Backoff) next(d time.Duration) time.Duration {
	if d <= 0 {
		return b.Initial
	}
	if d *= 2; d > b.Max {
		return b.Max
	}
	return d
}

// ConsumePayrollRunRequested executes queued payroll runs until ctx ends.
// A message is committed once the run finished, even when some employees
// failed; those are reported in the run result. Requests rejected as
// invalid are committed and dropped. Any other failure is retried in place
// with backoff, so the committed offset never passes an unfinished run. A
// retried run keeps its run id and skips payrolls it already created.
func ConsumePayrollRunRequested(
	ctx context.Context,
	reader MessageReader,
	runner PayrollRunner,
	backoff Backoff,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		runLog := log.With(
			zap.String("run_id", event.RunID),
			zap.String("company_id", event.CompanyID),
		)
		runCtx := contextutil.WithLogger(ctx, runLog)

		result, err := runUntilSettled(runCtx, runner, event, backoff, runLog)
		if err != nil {
			if isClientError(err) {
				runLog.Warn("payroll run request rejected, dropping", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Info("payroll run consumer stopped with run unfinished", zap.String("run_id", event.RunID))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			runLog.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		runLog.Info("payroll run completed",
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}
}

// runUntilSettled retries a run until it succeeds, is rejected as invalid
// or ctx ends.
func runUntilSettled(
	ctx context.Context,
	runner PayrollRunner,
	event events.PayrollRunRequestedEvent,
	backoff Backoff,
	log *zap.Logger,
) (payroll.RunPayrollResponse, error) {
	req := payroll.RunPayrollRequest{
		PeriodStart: event.PeriodStart,
		PeriodEnd:   event.PeriodEnd,
		RunID:       event.RunID,
	}

	var delay time.Duration
	for attempt := 1; ; attempt++ {
		result, err := runner.Run(ctx, event.CompanyID, event.RequestedBy, req)
		if err == nil || isClientError(err) {
			return result, err
		}
		if ctx.Err() != nil {
			return payroll.RunPayrollResponse{}, ctx.Err()
		}

		delay = backoff.next(delay)
		log.Error("payroll run failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return payroll.RunPayrollResponse{}, ctx.Err()
		case <-timer.C:
		}
	}
}

func isClientError(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500
}
