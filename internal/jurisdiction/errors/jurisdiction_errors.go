package jurisdictionerrors

import (
	"net/http"

	"peopleflow-hr/internal/shared/apperror"
)

var (
	ErrJurisdictionNotFound = apperror.New(
		apperror.CodeNotFound,
		"jurisdiction not found",
		http.StatusNotFound,
	)
	ErrJurisdictionInactive = apperror.New(
		apperror.CodeInvalidState,
		"jurisdiction is not active",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidAsOfDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid as_of date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrUnsupportedFileVersion = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported jurisdiction file version",
		http.StatusBadRequest,
	)
	ErrInvalidRuleFile = apperror.New(
		apperror.CodeInvalidInput,
		"invalid jurisdiction rule file",
		http.StatusBadRequest,
	)
	ErrDuplicateJurisdictionCode = apperror.New(
		apperror.CodeConflict,
		"jurisdiction code already exists",
		http.StatusConflict,
	)
)
