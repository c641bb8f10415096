package app

import (
	"peopleflow-hr/internal/employeesalary"
	"peopleflow-hr/internal/jurisdiction"
	"peopleflow-hr/internal/messaging/kafka"
	"peopleflow-hr/internal/payroll"
	"peopleflow-hr/internal/rbac"

	"gorm.io/gorm"
)

func models() []any {
	out := []any{
		&jurisdiction.TaxJurisdiction{},
		&jurisdiction.IncomeTaxRule{},
		&jurisdiction.TaxBandRow{},
		&jurisdiction.SocialSecurityRuleRow{},
		&employeesalary.EmployeeSalary{},
		&payroll.Payroll{},
		&payroll.PayrollComponent{},
		&payroll.PayrollTaxBand{},
		&kafka.OutboxEventRecord{},
	}
	return append(out, rbac.Models()...)
}

// Migrate creates or alters every table the services use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}
