package payroll

import (
	"errors"

	payrollerrors "peopleflow-hr/internal/payroll/errors"
	"peopleflow-hr/internal/shared/apperror"

	"gorm.io/gorm"
)

const employeePeriodIndex = "idx_employee_period"

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return payrollerrors.ErrPayrollNotFound
	case apperror.IsUniqueViolation(err, employeePeriodIndex):
		// Lost a race with a concurrent create for the same period.
		return payrollerrors.ErrPayrollOverlap
	default:
		return err
	}
}
