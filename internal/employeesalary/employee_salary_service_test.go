package employeesalary_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"peopleflow-hr/internal/employeesalary"
	employeesalaryerrors "peopleflow-hr/internal/employeesalary/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSalaryRepository struct {
	withTxFn                  func(tx *sql.Tx) employeesalary.Repository
	createFn                  func(ctx context.Context, salary *employeesalary.EmployeeSalary) error
	findAllByCompanyFn        func(ctx context.Context, companyID string) ([]employeesalary.EmployeeSalary, error)
	findByIDAndCompanyFn      func(ctx context.Context, companyID string, id string) (*employeesalary.EmployeeSalary, error)
	findEffectiveFn           func(ctx context.Context, companyID string, asOf time.Time) ([]employeesalary.EmployeeSalary, error)
	findEffectiveByEmployeeFn func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*employeesalary.EmployeeSalary, error)
	deleteFn                  func(ctx context.Context, companyID string, id string) error
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) employeesalary.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeSalaryRepository) Create(ctx context.Context, salary *employeesalary.EmployeeSalary) error {
	if f.createFn != nil {
		return f.createFn(ctx, salary)
	}
	return nil
}

func (f *fakeSalaryRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employeesalary.EmployeeSalary, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employeesalary.EmployeeSalary, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) FindEffective(ctx context.Context, companyID string, asOf time.Time) ([]employeesalary.EmployeeSalary, error) {
	if f.findEffectiveFn != nil {
		return f.findEffectiveFn(ctx, companyID, asOf)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) FindEffectiveByEmployee(ctx context.Context, companyID, employeeID string, asOf time.Time) (*employeesalary.EmployeeSalary, error) {
	if f.findEffectiveByEmployeeFn != nil {
		return f.findEffectiveByEmployeeFn(ctx, companyID, employeeID, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) Delete(ctx context.Context, companyID string, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employeesalary.Service
	repo    *fakeSalaryRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &fakeSalaryRepository{}
	svc := employeesalary.NewService(db, repo)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func createRequest(employeeID string) employeesalary.CreateEmployeeSalaryRequest {
	return employeesalary.CreateEmployeeSalaryRequest{
		EmployeeID:       employeeID,
		EmployeeName:     "Asha Persaud",
		BaseSalary:       "280000.00",
		Allowance:        "20000",
		PayFrequency:     "monthly",
		JurisdictionCode: " gy ",
		EffectiveDate:    "2024-01-01",
	}
}

func TestEmployeeSalaryService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, salary *employeesalary.EmployeeSalary) error {
			assert.Equal(t, employeeID, salary.EmployeeID)
			assert.Equal(t, companyID, salary.CompanyID.String())
			assert.Equal(t, int64(28000000), salary.BaseSalary)
			assert.Equal(t, int64(2000000), salary.Allowance)
			assert.Equal(t, int64(30000000), salary.Gross())
			assert.Equal(t, "GY", salary.JurisdictionCode)
			assert.Equal(t, "monthly", salary.PayFrequency)
			assert.Equal(t, "2024-01-01", salary.EffectiveDate.Format("2006-01-02"))
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, createRequest(employeeID.String()))

		require.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.Equal(t, "280000.00", resp.BaseSalary)
		assert.Equal(t, "20000.00", resp.Allowance)
		assert.Equal(t, "GY", resp.JurisdictionCode)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	invalid := []struct {
		name   string
		mutate func(r *employeesalary.CreateEmployeeSalaryRequest)
		want   error
	}{
		{"invalid employee id", func(r *employeesalary.CreateEmployeeSalaryRequest) { r.EmployeeID = "invalid-uuid" }, employeesalaryerrors.ErrInvalidEmployeeID},
		{"invalid date", func(r *employeesalary.CreateEmployeeSalaryRequest) { r.EffectiveDate = "01/01/2024" }, employeesalaryerrors.ErrInvalidEffectiveDate},
		{"negative base", func(r *employeesalary.CreateEmployeeSalaryRequest) { r.BaseSalary = "-1" }, employeesalaryerrors.ErrInvalidAmount},
		{"garbage allowance", func(r *employeesalary.CreateEmployeeSalaryRequest) { r.Allowance = "lots" }, employeesalaryerrors.ErrInvalidAmount},
		{"unknown frequency", func(r *employeesalary.CreateEmployeeSalaryRequest) { r.PayFrequency = "daily" }, employeesalaryerrors.ErrInvalidPayFrequency},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			deps := setupServiceTest(t)
			defer deps.db.Close()

			req := createRequest(employeeID.String())
			tc.mutate(&req)

			_, err := deps.service.Create(ctx, companyID, req)

			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		})
	}

	t.Run("duplicate effective date", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, salary *employeesalary.EmployeeSalary) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_salary_effective"}
		}

		_, err := deps.service.Create(ctx, companyID, createRequest(employeeID.String()))

		assert.ErrorIs(t, err, employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("repo create error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, salary *employeesalary.EmployeeSalary) error {
			return errors.New("db error")
		}

		_, err := deps.service.Create(ctx, companyID, createRequest(employeeID.String()))

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeSalaryService_GetAll(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]employeesalary.EmployeeSalary, error) {
			assert.Equal(t, companyID, cid)
			return []employeesalary.EmployeeSalary{
				{
					ID:            uuid.New(),
					EmployeeID:    employeeID,
					BaseSalary:    10000000,
					PayFrequency:  "weekly",
					EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, employeeID.String(), resp[0].EmployeeID)
		assert.Equal(t, "100000.00", resp[0].BaseSalary)
		assert.Equal(t, "weekly", resp[0].PayFrequency)
	})

	t.Run("repo error", func(t *testing.T) {
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]employeesalary.EmployeeSalary, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, companyID)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeSalaryService_GetByID_NotFound(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid string, id string) (*employeesalary.EmployeeSalary, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := deps.service.GetByID(context.Background(), uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, employeesalaryerrors.ErrSalaryNotFound)
}

func TestEmployeeSalaryService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	oldSalaryID := uuid.New()
	employeeID := uuid.New()

	t.Run("success insert new history", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employeesalary.UpdateEmployeeSalaryRequest{
			EmployeeID:       employeeID.String(),
			BaseSalary:       "120000",
			PayFrequency:     "monthly",
			JurisdictionCode: "GY",
			EffectiveDate:    "2026-03-01",
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid string, id string) (*employeesalary.EmployeeSalary, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, oldSalaryID.String(), id)
			return &employeesalary.EmployeeSalary{
				ID:            oldSalaryID,
				EmployeeID:    employeeID,
				EmployeeName:  "Asha Persaud",
				BaseSalary:    10000000,
				EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		}

		deps.repo.createFn = func(ctx context.Context, salary *employeesalary.EmployeeSalary) error {
			assert.Equal(t, employeeID, salary.EmployeeID)
			assert.Equal(t, int64(12000000), salary.BaseSalary)
			assert.Equal(t, "Asha Persaud", salary.EmployeeName)
			assert.Equal(t, "2026-03-01", salary.EffectiveDate.Format("2006-01-02"))
			assert.NotEqual(t, oldSalaryID, salary.ID)
			return nil
		}

		resp, err := deps.service.Update(ctx, companyID, oldSalaryID.String(), req)

		require.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.Equal(t, "120000.00", resp.BaseSalary)
		assert.Equal(t, "2026-03-01", resp.EffectiveDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employeesalary.UpdateEmployeeSalaryRequest{
			EmployeeID:       employeeID.String(),
			BaseSalary:       "120000",
			PayFrequency:     "monthly",
			JurisdictionCode: "GY",
			EffectiveDate:    "2026-03-01",
		}

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid string, id string) (*employeesalary.EmployeeSalary, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(ctx, companyID, oldSalaryID.String(), req)

		assert.ErrorIs(t, err, employeesalaryerrors.ErrSalaryNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeSalaryService_Delete(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	salaryID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)

		deps.repo.deleteFn = func(ctx context.Context, cid string, id string) error {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, salaryID, id)
			return nil
		}

		err := deps.service.Delete(ctx, companyID, salaryID)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("repo error", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)

		deps.repo.deleteFn = func(ctx context.Context, cid string, id string) error {
			return errors.New("delete failed")
		}

		err := deps.service.Delete(ctx, companyID, salaryID)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeSalaryService_Effective(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New()
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("list effective", func(t *testing.T) {
		deps.repo.findEffectiveFn = func(ctx context.Context, cid string, at time.Time) ([]employeesalary.EmployeeSalary, error) {
			assert.Equal(t, companyID, cid)
			assert.True(t, asOf.Equal(at))
			return []employeesalary.EmployeeSalary{{EmployeeID: employeeID, BaseSalary: 30000000}}, nil
		}

		salaries, err := deps.service.ListEffective(ctx, companyID, asOf)

		require.NoError(t, err)
		require.Len(t, salaries, 1)
		assert.Equal(t, int64(30000000), salaries[0].BaseSalary)
	})

	t.Run("get effective", func(t *testing.T) {
		deps.repo.findEffectiveByEmployeeFn = func(ctx context.Context, cid, eid string, at time.Time) (*employeesalary.EmployeeSalary, error) {
			assert.Equal(t, employeeID.String(), eid)
			return &employeesalary.EmployeeSalary{EmployeeID: employeeID, BaseSalary: 30000000}, nil
		}

		salary, err := deps.service.GetEffective(ctx, companyID, employeeID.String(), asOf)

		require.NoError(t, err)
		assert.Equal(t, employeeID, salary.EmployeeID)
	})

	t.Run("no salary in force", func(t *testing.T) {
		deps.repo.findEffectiveByEmployeeFn = nil

		_, err := deps.service.GetEffective(ctx, companyID, employeeID.String(), asOf)

		assert.ErrorIs(t, err, employeesalaryerrors.ErrNoEffectiveSalary)
		assert.Contains(t, err.Error(), "2024-06-30")
	})
}
