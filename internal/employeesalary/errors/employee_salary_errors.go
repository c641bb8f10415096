package employeesalaryerrors

import (
	"net/http"

	"peopleflow-hr/internal/shared/apperror"
)

var (
	ErrSalaryEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Salary for this employee and effective date already exists",
		http.StatusConflict,
	)
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary not found",
		http.StatusNotFound,
	)
	ErrNoEffectiveSalary = apperror.New(
		apperror.CodeNotFound,
		"Employee has no salary effective on the requested date",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid effective date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Salary amounts must be non-negative decimals",
		http.StatusBadRequest,
	)
	ErrInvalidPayFrequency = apperror.New(
		apperror.CodeInvalidInput,
		"Unsupported pay frequency",
		http.StatusBadRequest,
	)
)
