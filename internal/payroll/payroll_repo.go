package payroll

import (
	"context"
	"database/sql"
	"time"

	"peopleflow-hr/internal/shared/connection"
	"peopleflow-hr/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAllByCompany(ctx context.Context, companyID string, filter PayrollQueryFilter) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error)
	Update(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, companyID string, id string) error
	HasOverlappingPeriod(ctx context.Context, companyID string, employeeID string, periodStart time.Time, periodEnd time.Time, excludePayrollID *string) (bool, error)
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

// Create inserts the payroll together with its components and tax bands.
func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Create(payroll).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter PayrollQueryFilter) ([]Payroll, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))

	if filter.PeriodStart != nil && filter.PeriodEnd != nil {
		db = db.Scopes(tenant.OverlapsPeriod(*filter.PeriodStart, *filter.PeriodEnd))
	} else if filter.PeriodStart != nil {
		db = db.Where("period_end >= ?", *filter.PeriodStart)
	} else if filter.PeriodEnd != nil {
		db = db.Where("period_start <= ?", *filter.PeriodEnd)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.EmployeeID != nil {
		db = db.Where("employee_id = ?", *filter.EmployeeID)
	}

	var payrolls []Payroll
	err := db.
		Order("period_start DESC").
		Order("employee_name ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("TaxBands", func(db *gorm.DB) *gorm.DB {
			return db.Order("band_order ASC")
		}).
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

// Update saves the payroll row only; components and bands are immutable
// once calculated.
func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Omit(clause.Associations).Save(payroll).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Payroll{}, "id = ?", id).Error
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	companyID string,
	employeeID string,
	periodStart time.Time,
	periodEnd time.Time,
	excludePayrollID *string,
) (bool, error) {
	db := r.conn(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusCancelled).
		Scopes(tenant.OverlapsPeriod(periodStart, periodEnd))

	if excludePayrollID != nil && *excludePayrollID != "" {
		db = db.Where("id <> ?", *excludePayrollID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
