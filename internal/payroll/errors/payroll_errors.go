package payrollerrors

import (
	"net/http"

	"peopleflow-hr/internal/shared/apperror"
)

func badRequest(msg string) *apperror.AppError {
	return apperror.New(apperror.CodeInvalidInput, msg, http.StatusBadRequest)
}

func invalidState(msg string) *apperror.AppError {
	return apperror.New(apperror.CodeInvalidState, msg, http.StatusBadRequest)
}

// Identifiers and dates.
var (
	ErrInvalidCompanyID    = badRequest("invalid company id")
	ErrInvalidActorID      = badRequest("invalid actor id")
	ErrInvalidEmployeeID   = badRequest("invalid employee id")
	ErrInvalidRunID        = badRequest("run_id must be a UUID")
	ErrInvalidDateFormat   = badRequest("invalid date format, expected YYYY-MM-DD")
	ErrInvalidPeriodFormat = badRequest("invalid period format, expected YYYY-MM")
	ErrInvalidDateRange    = badRequest("period_start must be before or equal period_end")
	ErrInvalidStatusFilter = badRequest("invalid payroll status filter")
)

// Earnings.
var (
	ErrInvalidMoneyValue     = badRequest("amounts must be non-negative decimals in major units")
	ErrInvalidComponent      = badRequest("earning components need a name and an amount")
	ErrComponentsExceedGross = badRequest("earning components add up to more than gross pay")
)

// Lifecycle.
var (
	ErrPayrollNotFound = apperror.New(apperror.CodeNotFound, "payroll not found", http.StatusNotFound)
	ErrPayrollOverlap  = apperror.New(
		apperror.CodeConflict,
		"payroll already exists in overlapping period",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = invalidState("invalid payroll status transition")
	ErrDeleteOnlyDraft         = invalidState("payroll can only be deleted while status is DRAFT")
)

var ErrRunQueueUnavailable = apperror.New(
	apperror.CodeServiceUnavailable,
	"payroll run queue is not configured",
	http.StatusServiceUnavailable,
)
