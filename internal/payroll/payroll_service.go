package payroll

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"peopleflow-hr/internal/employeesalary"
	"peopleflow-hr/internal/events"
	"peopleflow-hr/internal/messaging/kafka"
	payrollerrors "peopleflow-hr/internal/payroll/errors"
	"peopleflow-hr/internal/payrolltax"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StatusDraft     = "DRAFT"
	StatusApproved  = "APPROVED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"

	DefaultRunConcurrency = 8

	dateLayout   = "2006-01-02"
	periodLayout = "2006-01"
)

var allowedTransitions = map[string][]string{
	StatusDraft:    {StatusApproved, StatusCancelled},
	StatusApproved: {StatusPaid, StatusCancelled},
}

// RuleResolver finds the tax rules in force for a jurisdiction on a date.
type RuleResolver interface {
	ResolveRules(ctx context.Context, code string, asOf time.Time) (payrolltax.RuleSet, error)
}

// SalarySource supplies the gross earnings the engine is run on.
type SalarySource interface {
	ListEffective(ctx context.Context, companyID string, asOf time.Time) ([]employeesalary.EmployeeSalary, error)
	GetEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (employeesalary.EmployeeSalary, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
	Create(ctx context.Context, companyID, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	Run(ctx context.Context, companyID, actorID string, req RunPayrollRequest) (RunPayrollResponse, error)
	RequestRun(ctx context.Context, companyID, actorID string, req RunPayrollRequest) (RunRequestedResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (PayrollBreakdownResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	MarkAsPaid(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db          *sql.DB
	repo        Repository
	outbox      kafka.OutboxRepository
	rules       RuleResolver
	salaries    SalarySource
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	rules RuleResolver,
	salaries SalarySource,
	runConcurrency int,
) Service {
	if runConcurrency <= 0 {
		runConcurrency = DefaultRunConcurrency
	}
	return &service{
		db:          db,
		repo:        repo,
		outbox:      outbox,
		rules:       rules,
		salaries:    salaries,
		concurrency: runConcurrency,
		now:         time.Now,
		logger:      zap.L().Named("payroll.run"),
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	companyUUID, createdBy, err := parseActors(companyID, actorID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	period, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}
	extra, err := parseEarnings(req.AdditionalEarnings)
	if err != nil {
		return PayrollResponse{}, err
	}

	salary, err := s.salaries.GetEffective(ctx, companyID, req.EmployeeID, period.End)
	if err != nil {
		return PayrollResponse{}, err
	}
	rules, err := s.rules.ResolveRules(ctx, salary.JurisdictionCode, period.End)
	if err != nil {
		return PayrollResponse{}, err
	}

	earnings := salaryEarnings(salary, extra)
	breakdown, err := payrolltax.CalculateWithRuleSet(
		rules,
		toPeriodEarnings(earnings),
		payrolltax.PayFrequency(salary.PayFrequency),
		period.subject(salary.EmployeeID.String()),
	)
	if err != nil {
		return PayrollResponse{}, err
	}

	payroll := newPayroll(payrollDraft{
		companyID: companyUUID,
		createdBy: createdBy,
		salary:    salary,
		period:    period,
		rules:     rules,
		earnings:  earnings,
		breakdown: breakdown,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	if err := s.savePayroll(ctx, tx, payroll); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

// savePayroll inserts payroll and queues its tax-calculated event in tx.
func (s *service) savePayroll(ctx context.Context, tx *sql.Tx, payroll *Payroll) error {
	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(
		ctx,
		payroll.CompanyID.String(),
		payroll.EmployeeID.String(),
		payroll.PeriodStart,
		payroll.PeriodEnd,
		nil,
	)
	if err != nil {
		return err
	}
	if overlap {
		return payrollerrors.ErrPayrollOverlap
	}

	if err := qtx.Create(ctx, payroll); err != nil {
		return mapRepositoryError(err)
	}

	return s.enqueueTaxCalculated(ctx, tx, *payroll)
}

func (s *service) enqueueTaxCalculated(ctx context.Context, tx *sql.Tx, payroll Payroll) error {
	if s.outbox == nil {
		return nil
	}

	var runID string
	if payroll.RunID != nil {
		runID = payroll.RunID.String()
	}

	event, err := kafka.NewOutboxEvent(ctx, kafka.OutboxMessage{
		AggregateType: "payroll",
		AggregateID:   payroll.ID.String(),
		EventType:     "payroll_tax_calculated",
		Topic:         events.PayrollTaxCalculatedTopic,
		Payload: events.PayrollTaxCalculatedEvent{
			EventType:            "payroll_tax_calculated",
			PayrollID:            payroll.ID.String(),
			CompanyID:            payroll.CompanyID.String(),
			EmployeeID:           payroll.EmployeeID.String(),
			RunID:                runID,
			JurisdictionCode:     payroll.JurisdictionCode,
			TaxYear:              payroll.TaxYear,
			Currency:             payroll.Currency,
			PeriodStart:          payroll.PeriodStart.Format(dateLayout),
			PeriodEnd:            payroll.PeriodEnd.Format(dateLayout),
			GrossPay:             payroll.GrossPay,
			IncomeTax:            payroll.IncomeTax,
			EmployeeContribution: payroll.EmployeeContribution,
			EmployerContribution: payroll.EmployerContribution,
			NetPay:               payroll.NetPay,
			OccurredAt:           s.now().UTC(),
		},
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filterReq GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	filter, err := buildQueryFilter(filterReq)
	if err != nil {
		return nil, err
	}

	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(payrolls), nil
}

func buildQueryFilter(req GetPayrollsFilterRequest) (PayrollQueryFilter, error) {
	var filter PayrollQueryFilter

	if req.Period != "" {
		month, err := time.Parse(periodLayout, req.Period)
		if err != nil {
			return PayrollQueryFilter{}, payrollerrors.ErrInvalidPeriodFormat
		}
		end := month.AddDate(0, 1, -1)
		filter.PeriodStart = &month
		filter.PeriodEnd = &end
	}

	if req.Status != "" {
		status := strings.ToUpper(strings.TrimSpace(req.Status))
		switch status {
		case StatusDraft, StatusApproved, StatusPaid, StatusCancelled:
			filter.Status = &status
		default:
			return PayrollQueryFilter{}, payrollerrors.ErrInvalidStatusFilter
		}
	}

	if req.EmployeeID != "" {
		if _, err := uuid.Parse(req.EmployeeID); err != nil {
			return PayrollQueryFilter{}, payrollerrors.ErrInvalidEmployeeID
		}
		employeeID := req.EmployeeID
		filter.EmployeeID = &employeeID
	}

	return filter, nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*payroll), nil
}

func (s *service) GetBreakdown(
	ctx context.Context,
	companyID, id string,
) (PayrollBreakdownResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollBreakdownResponse{}, mapRepositoryError(err)
	}

	return mapToBreakdownResponse(*payroll), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusApproved)
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusPaid)
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusCancelled)
}

func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id string,
	target string,
) (PayrollResponse, error) {
	_, actor, err := parseActors(companyID, actorID)
	if err != nil {
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if !canTransition(payroll.Status, target) {
		return PayrollResponse{}, fmt.Errorf(
			"%w: %s -> %s",
			payrollerrors.ErrInvalidStatusTransition, payroll.Status, target,
		)
	}

	now := s.now().UTC()
	payroll.Status = target
	switch target {
	case StatusApproved:
		payroll.ApprovedBy = &actor
		payroll.ApprovedAt = &now
	case StatusPaid:
		payroll.PaidAt = &now
	case StatusCancelled:
		payroll.CancelledAt = &now
	}

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func canTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if payroll.Status != StatusDraft {
		return payrollerrors.ErrDeleteOnlyDraft
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func parseActors(companyID, actorID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidActorID
	}
	return companyUUID, actorUUID, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}
