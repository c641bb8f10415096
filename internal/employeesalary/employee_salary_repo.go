package employeesalary

import (
	"context"
	"database/sql"
	"time"

	"peopleflow-hr/internal/shared/connection"
	"peopleflow-hr/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_salary_repo.go -destination=mock/employee_salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, salary *EmployeeSalary) error
	FindAllByCompany(ctx context.Context, companyID string) ([]EmployeeSalary, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*EmployeeSalary, error)
	FindEffective(ctx context.Context, companyID string, asOf time.Time) ([]EmployeeSalary, error)
	FindEffectiveByEmployee(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalary, error)
	Delete(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, salary *EmployeeSalary) error {
	return r.conn(ctx).Create(salary).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]EmployeeSalary, error) {
	var salaries []EmployeeSalary
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("employee_name ASC").
		Order("effective_date DESC").
		Order("created_at DESC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*EmployeeSalary, error) {
	var salary EmployeeSalary
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&salary).Error
	return &salary, err
}

// FindEffective returns, per employee, the latest salary row whose
// effective date is on or before asOf.
func (r *repository) FindEffective(ctx context.Context, companyID string, asOf time.Time) ([]EmployeeSalary, error) {
	var salaries []EmployeeSalary
	query := `
SELECT DISTINCT ON (employee_id) *
FROM employee_salaries
WHERE company_id = ?
  AND effective_date <= ?
ORDER BY
	employee_id,
	effective_date DESC,
	created_at DESC
`

	err := r.conn(ctx).Raw(query, companyID, asOf.Format("2006-01-02")).Scan(&salaries).Error
	return salaries, err
}

func (r *repository) FindEffectiveByEmployee(
	ctx context.Context,
	companyID, employeeID string,
	asOf time.Time,
) (*EmployeeSalary, error) {
	var salary EmployeeSalary
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Scopes(tenant.EffectiveOn(asOf)).
		Where("employee_id = ?", employeeID).
		First(&salary).Error
	return &salary, err
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&EmployeeSalary{}).Error
}
