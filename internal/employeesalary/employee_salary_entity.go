package employeesalary

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeSalary is one row of an employee's salary history. Amounts are
// minor units per pay period of PayFrequency.
type EmployeeSalary struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_employee_salary_effective"`
	EmployeeName     string    `gorm:"type:varchar(150)"`
	BaseSalary       int64     `gorm:"type:bigint;not null;default:0"`
	Allowance        int64     `gorm:"type:bigint;not null;default:0"`
	PayFrequency     string    `gorm:"type:varchar(16);not null;default:'monthly'"`
	JurisdictionCode string    `gorm:"type:varchar(8);not null"`
	EffectiveDate    time.Time `gorm:"type:date;not null;uniqueIndex:uq_employee_salary_effective"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Gross is what the employee earns in one pay period.
func (s EmployeeSalary) Gross() int64 {
	return s.BaseSalary + s.Allowance
}
