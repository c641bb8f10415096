package payrolltax

import (
	"fmt"
	"strings"
)

// Stage names the step of Calculate that failed.
type Stage string

const (
	StageValidate       Stage = "validate"
	StageAnnualize      Stage = "annualize"
	StageDeduction      Stage = "personal_deduction"
	StageBands          Stage = "tax_bands"
	StageDeannualize    Stage = "deannualize"
	StageSocialSecurity Stage = "social_security"
)

// Subject identifies what was being calculated, for error reporting only.
type Subject struct {
	EmployeeID       string `json:"employee_id,omitempty"`
	Period           string `json:"period,omitempty"`
	JurisdictionCode string `json:"jurisdiction_code,omitempty"`
	TaxYear          int    `json:"tax_year,omitempty"`
}

func (s Subject) String() string {
	var parts []string
	if s.EmployeeID != "" {
		parts = append(parts, "employee="+s.EmployeeID)
	}
	if s.Period != "" {
		parts = append(parts, "period="+s.Period)
	}
	if s.JurisdictionCode != "" {
		parts = append(parts, "jurisdiction="+s.JurisdictionCode)
	}
	if s.TaxYear != 0 {
		parts = append(parts, fmt.Sprintf("tax_year=%d", s.TaxYear))
	}
	return strings.Join(parts, " ")
}

// CalculationError wraps the failure of one stage. errors.Is and errors.As
// reach the underlying payrolltaxerrors sentinel.
type CalculationError struct {
	Stage   Stage
	Subject Subject
	Err     error
}

func (e *CalculationError) Error() string {
	if subject := e.Subject.String(); subject != "" {
		return fmt.Sprintf("payroll tax %s failed (%s): %v", e.Stage, subject, e.Err)
	}
	return fmt.Sprintf("payroll tax %s failed: %v", e.Stage, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}
