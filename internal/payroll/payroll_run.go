package payroll

import (
	"context"
	"errors"

	"peopleflow-hr/internal/employeesalary"
	"peopleflow-hr/internal/events"
	"peopleflow-hr/internal/messaging/kafka"
	payrollerrors "peopleflow-hr/internal/payroll/errors"
	"peopleflow-hr/internal/payrolltax"
	"peopleflow-hr/internal/shared/apperror"
	"peopleflow-hr/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stages a run can fail in besides the engine's own.
const (
	stageRules   = "rules"
	stagePersist = "persist"
)

type runResult struct {
	payroll *Payroll
	failure *RunFailure
}

// Run calculates every employee with a salary in force at the end of the
// period. Calculations fan out over a bounded worker pool sharing one
// read-only rule set per jurisdiction. An employee that fails is reported
// and skipped; it never aborts the others. Persistence is one transaction
// per employee so a late failure cannot undo earlier payrolls.
func (s *service) Run(
	ctx context.Context,
	companyID, actorID string,
	req RunPayrollRequest,
) (RunPayrollResponse, error) {
	companyUUID, createdBy, err := parseActors(companyID, actorID)
	if err != nil {
		return RunPayrollResponse{}, err
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return RunPayrollResponse{}, err
	}

	runID := uuid.New()
	if req.RunID != "" {
		if runID, err = uuid.Parse(req.RunID); err != nil {
			return RunPayrollResponse{}, payrollerrors.ErrInvalidRunID
		}
	}

	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("run_id", runID.String()),
		zap.String("company_id", companyID),
		zap.String("period", period.String()),
	)

	salaries, err := s.salaries.ListEffective(ctx, companyID, period.End)
	if err != nil {
		return RunPayrollResponse{}, err
	}

	ruleSets, ruleErrs := s.resolveRuleSets(ctx, salaries, period)

	results := make([]runResult, len(salaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, salary := range salaries {
		i, salary := i, salary
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			code := salary.JurisdictionCode
			if err := ruleErrs[code]; err != nil {
				results[i] = runResult{failure: newRunFailure(salary, stageRules, err)}
				return nil
			}
			results[i] = calculateRunPayroll(payrollDraft{
				companyID: companyUUID,
				createdBy: createdBy,
				runID:     &runID,
				salary:    salary,
				period:    period,
				rules:     ruleSets[code],
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunPayrollResponse{}, err
	}

	resp := RunPayrollResponse{
		RunID:       runID.String(),
		PeriodStart: period.Start.Format(dateLayout),
		PeriodEnd:   period.End.Format(dateLayout),
		Employees:   len(salaries),
		Payrolls:    []PayrollResponse{},
		Failures:    []RunFailure{},
	}

	for _, res := range results {
		if res.failure == nil {
			err := s.persistRunPayroll(ctx, res.payroll)
			switch {
			case errors.Is(err, payrollerrors.ErrPayrollOverlap):
				resp.Skipped++
				log.Info("payroll already exists for period, skipping",
					zap.String("employee_id", res.payroll.EmployeeID.String()),
				)
				continue
			case err != nil:
				res.failure = &RunFailure{
					EmployeeID:       res.payroll.EmployeeID.String(),
					EmployeeName:     res.payroll.EmployeeName,
					JurisdictionCode: res.payroll.JurisdictionCode,
					Stage:            stagePersist,
					Code:             apperror.ToHTTP(err).Code,
					Reason:           err.Error(),
				}
			default:
				resp.Created++
				resp.Payrolls = append(resp.Payrolls, mapToResponse(*res.payroll))
				continue
			}
		}

		resp.Failures = append(resp.Failures, *res.failure)
		log.Warn("employee payroll failed",
			zap.String("employee_id", res.failure.EmployeeID),
			zap.String("jurisdiction_code", res.failure.JurisdictionCode),
			zap.String("stage", res.failure.Stage),
			zap.String("reason", res.failure.Reason),
		)
	}
	resp.Failed = len(resp.Failures)

	log.Info("payroll run finished",
		zap.Int("employees", resp.Employees),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
		zap.Int("failed", resp.Failed),
	)

	return resp, nil
}

// resolveRuleSets resolves each distinct jurisdiction once for the run.
func (s *service) resolveRuleSets(
	ctx context.Context,
	salaries []employeesalary.EmployeeSalary,
	period payPeriod,
) (map[string]payrolltax.RuleSet, map[string]error) {
	ruleSets := make(map[string]payrolltax.RuleSet)
	ruleErrs := make(map[string]error)

	for _, salary := range salaries {
		code := salary.JurisdictionCode
		if _, ok := ruleSets[code]; ok {
			continue
		}
		if _, ok := ruleErrs[code]; ok {
			continue
		}
		rules, err := s.rules.ResolveRules(ctx, code, period.End)
		if err != nil {
			ruleErrs[code] = err
			continue
		}
		ruleSets[code] = rules
	}

	return ruleSets, ruleErrs
}

func calculateRunPayroll(d payrollDraft) runResult {
	d.earnings = salaryEarnings(d.salary, nil)
	breakdown, err := payrolltax.CalculateWithRuleSet(
		d.rules,
		toPeriodEarnings(d.earnings),
		payrolltax.PayFrequency(d.salary.PayFrequency),
		d.period.subject(d.salary.EmployeeID.String()),
	)
	if err != nil {
		stage := stageRules
		var calcErr *payrolltax.CalculationError
		if errors.As(err, &calcErr) {
			stage = string(calcErr.Stage)
		}
		return runResult{failure: newRunFailure(d.salary, stage, err)}
	}

	d.breakdown = breakdown
	return runResult{payroll: newPayroll(d)}
}

func newRunFailure(salary employeesalary.EmployeeSalary, stage string, err error) *RunFailure {
	return &RunFailure{
		EmployeeID:       salary.EmployeeID.String(),
		EmployeeName:     salary.EmployeeName,
		JurisdictionCode: salary.JurisdictionCode,
		Stage:            stage,
		Code:             apperror.ToHTTP(err).Code,
		Reason:           err.Error(),
	}
}

func (s *service) persistRunPayroll(ctx context.Context, payroll *Payroll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.savePayroll(ctx, tx, payroll); err != nil {
		return err
	}

	return tx.Commit()
}

// RequestRun queues a run for the payroll-run consumer instead of running it
// inside the request.
func (s *service) RequestRun(
	ctx context.Context,
	companyID, actorID string,
	req RunPayrollRequest,
) (RunRequestedResponse, error) {
	if s.outbox == nil {
		return RunRequestedResponse{}, payrollerrors.ErrRunQueueUnavailable
	}
	if _, _, err := parseActors(companyID, actorID); err != nil {
		return RunRequestedResponse{}, err
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return RunRequestedResponse{}, err
	}

	runID := uuid.New().String()
	event, err := kafka.NewOutboxEvent(ctx, kafka.OutboxMessage{
		AggregateType: "payroll_run",
		AggregateID:   runID,
		EventType:     "payroll_run_requested",
		Topic:         events.PayrollRunRequestedTopic,
		Payload: events.PayrollRunRequestedEvent{
			EventType:   "payroll_run_requested",
			RunID:       runID,
			CompanyID:   companyID,
			RequestedBy: actorID,
			PeriodStart: period.Start.Format(dateLayout),
			PeriodEnd:   period.End.Format(dateLayout),
			OccurredAt:  s.now().UTC(),
		},
	})
	if err != nil {
		return RunRequestedResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunRequestedResponse{}, err
	}
	defer tx.Rollback()

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return RunRequestedResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunRequestedResponse{}, err
	}

	return RunRequestedResponse{
		RunID:       runID,
		PeriodStart: period.Start.Format(dateLayout),
		PeriodEnd:   period.End.Format(dateLayout),
	}, nil
}
