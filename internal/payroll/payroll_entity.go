package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ComponentTypeBaseSalary = "BASE_SALARY"
	ComponentTypeAllowance  = "ALLOWANCE"
	ComponentTypeEarning    = "EARNING"
)

// Payroll is the persisted result of one tax calculation for one employee
// and one pay period. Money is stored in minor units.
type Payroll struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_company_status"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_employee_period,unique,where:status <> 'CANCELLED'"`
	EmployeeName string     `gorm:"type:varchar(150)"`
	RunID        *uuid.UUID `gorm:"type:uuid;index"`

	PeriodStart time.Time `gorm:"type:date;not null;index:idx_employee_period,unique"`
	PeriodEnd   time.Time `gorm:"type:date;not null;index:idx_employee_period,unique"`

	JurisdictionCode string          `gorm:"type:varchar(8);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	TaxYear          int             `gorm:"not null"`
	PayFrequency     string          `gorm:"type:varchar(16);not null"`
	PeriodsPerYear   decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	RoundingMode     string          `gorm:"type:varchar(16);not null"`
	Periodization    string          `gorm:"type:varchar(16);not null"`

	BaseSalary            int64           `gorm:"type:bigint;not null;default:0"`
	Allowance             int64           `gorm:"type:bigint;not null;default:0"`
	OtherEarnings         int64           `gorm:"type:bigint;not null;default:0"`
	GrossPay              int64           `gorm:"type:bigint;not null;default:0"`
	AnnualGross           int64           `gorm:"type:bigint;not null;default:0"`
	PersonalDeduction     int64           `gorm:"type:bigint;not null;default:0"`
	TaxableIncome         int64           `gorm:"type:bigint;not null;default:0"`
	AnnualTax             decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	IncomeTax             int64           `gorm:"type:bigint;not null;default:0"`
	ContributableEarnings int64           `gorm:"type:bigint;not null;default:0"`
	EmployeeContribution  int64           `gorm:"type:bigint;not null;default:0"`
	EmployerContribution  int64           `gorm:"type:bigint;not null;default:0"`
	NetPay                int64           `gorm:"type:bigint;not null;default:0"`

	// Workflow & Audit
	Status     string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_company_status"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ApprovedAt  *time.Time     `gorm:"index"`
	PaidAt      *time.Time     `gorm:"index"`
	CancelledAt *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Components []PayrollComponent `gorm:"foreignKey:PayrollID"`
	TaxBands   []PayrollTaxBand   `gorm:"foreignKey:PayrollID"`
}

// PayrollComponent is one earning line that makes up GrossPay.
type PayrollComponent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ComponentType string    `gorm:"type:varchar(20);not null;index"`
	ComponentName string    `gorm:"type:varchar(120);not null"`
	Amount        int64     `gorm:"type:bigint;not null;default:0"`
	Notes         *string   `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PayrollTaxBand is the annual per-band detail of the income tax.
type PayrollTaxBand struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BandOrder  int             `gorm:"not null"`
	BandName   string          `gorm:"type:varchar(120);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Rate       decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	FlatAmount decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	Tax        decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	CreatedAt  time.Time
}
