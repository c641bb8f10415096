package employeesalary

import (
	"errors"

	employeesalaryerrors "peopleflow-hr/internal/employeesalary/errors"
	"peopleflow-hr/internal/shared/apperror"

	"gorm.io/gorm"
)

const effectiveDateIndex = "uq_employee_salary_effective"

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return employeesalaryerrors.ErrSalaryNotFound
	case apperror.IsUniqueViolation(err, effectiveDateIndex):
		return employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists
	default:
		return err
	}
}
