package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInvalidState  = "INVALID_STATE"
	CodeRateLimited   = "RATE_LIMITED"

	// Tax engine (422)
	CodeFormulaSyntax            = "FORMULA_SYNTAX_ERROR"
	CodeUnknownVariable          = "UNKNOWN_VARIABLE"
	CodeDivisionByZero           = "DIVISION_BY_ZERO"
	CodeInvalidBandConfiguration = "INVALID_BAND_CONFIGURATION"
	CodeNoApplicableTaxRule      = "NO_APPLICABLE_TAX_RULE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
