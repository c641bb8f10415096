package employeesalary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	employeesalaryerrors "peopleflow-hr/internal/employeesalary/errors"
	"peopleflow-hr/internal/payrolltax"
	"peopleflow-hr/internal/shared/money"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employee_salary_service.go -destination=mock/employee_salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeSalaryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeSalaryResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	ListEffective(ctx context.Context, companyID string, asOf time.Time) ([]EmployeeSalary, error)
	GetEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (EmployeeSalary, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

type salaryInput struct {
	EmployeeID       string
	EmployeeName     string
	BaseSalary       string
	Allowance        string
	PayFrequency     string
	JurisdictionCode string
	EffectiveDate    string
}

func (in salaryInput) toEntity(companyID string) (*EmployeeSalary, error) {
	company, err := uuid.Parse(companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: company", employeesalaryerrors.ErrInvalidEmployeeID)
	}
	employeeID, err := uuid.Parse(in.EmployeeID)
	if err != nil {
		return nil, employeesalaryerrors.ErrInvalidEmployeeID
	}

	effectiveDate, err := time.Parse(dateLayout, in.EffectiveDate)
	if err != nil {
		return nil, employeesalaryerrors.ErrInvalidEffectiveDate
	}

	frequency, err := payrolltax.ParsePayFrequency(in.PayFrequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", employeesalaryerrors.ErrInvalidPayFrequency, in.PayFrequency)
	}

	base, err := parseAmount("base_salary", in.BaseSalary)
	if err != nil {
		return nil, err
	}
	allowance, err := parseAmount("allowance", in.Allowance)
	if err != nil {
		return nil, err
	}

	return &EmployeeSalary{
		ID:               uuid.New(),
		CompanyID:        company,
		EmployeeID:       employeeID,
		EmployeeName:     in.EmployeeName,
		BaseSalary:       int64(base),
		Allowance:        int64(allowance),
		PayFrequency:     string(frequency),
		JurisdictionCode: normalizeJurisdictionCode(in.JurisdictionCode),
		EffectiveDate:    effectiveDate,
	}, nil
}

func parseAmount(field, value string) (money.Cents, error) {
	if value == "" {
		return 0, nil
	}
	amount, err := money.ParseMajor(value)
	if err != nil || amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s", employeesalaryerrors.ErrInvalidAmount, field)
	}
	return amount, nil
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeSalaryRequest,
) (EmployeeSalaryResponse, error) {
	salary, err := salaryInput(req).toEntity(companyID)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, salary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	return mapToResponse(*salary), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeSalaryResponse, error) {
	salaries, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(salaries), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeSalaryResponse, error) {
	salary, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*salary), nil
}

// Update never rewrites history: it records a new row for the new
// effective date so that past payrolls stay reproducible.
func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeSalaryRequest,
) (EmployeeSalaryResponse, error) {
	newSalary, err := salaryInput(req).toEntity(companyID)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	if newSalary.EmployeeName == "" {
		newSalary.EmployeeName = current.EmployeeName
	}

	if err := qtx.Create(ctx, newSalary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	return mapToResponse(*newSalary), nil
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

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

// ListEffective returns the salary in force on asOf for every employee of
// the company that has one.
func (s *service) ListEffective(
	ctx context.Context,
	companyID string,
	asOf time.Time,
) ([]EmployeeSalary, error) {
	salaries, err := s.repo.FindEffective(ctx, companyID, asOf)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return salaries, nil
}

func (s *service) GetEffective(
	ctx context.Context,
	companyID, employeeID string,
	asOf time.Time,
) (EmployeeSalary, error) {
	salary, err := s.repo.FindEffectiveByEmployee(ctx, companyID, employeeID, asOf)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, employeesalaryerrors.ErrSalaryNotFound) {
			return EmployeeSalary{}, fmt.Errorf(
				"%w: employee %s on %s",
				employeesalaryerrors.ErrNoEffectiveSalary, employeeID, asOf.Format(dateLayout),
			)
		}
		return EmployeeSalary{}, mapped
	}
	return *salary, nil
}
