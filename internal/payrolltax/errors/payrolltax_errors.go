package payrolltaxerrors

import (
	"net/http"

	"peopleflow-hr/internal/shared/apperror"
)

// Every failure of the engine is terminal for the calculation that raised it.
var (
	ErrFormulaSyntax = apperror.New(
		apperror.CodeFormulaSyntax,
		"malformed deduction formula",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownVariable = apperror.New(
		apperror.CodeUnknownVariable,
		"formula references an unknown variable",
		http.StatusUnprocessableEntity,
	)
	ErrDivisionByZero = apperror.New(
		apperror.CodeDivisionByZero,
		"formula divides by zero",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidBandConfiguration = apperror.New(
		apperror.CodeInvalidBandConfiguration,
		"invalid tax band configuration",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidInput = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll tax input",
		http.StatusBadRequest,
	)
	ErrNoApplicableTaxRule = apperror.New(
		apperror.CodeNoApplicableTaxRule,
		"no applicable tax rule",
		http.StatusNotFound,
	)
)
