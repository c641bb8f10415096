package employeesalary

import (
	"strings"

	"peopleflow-hr/internal/shared/money"
)

func normalizeJurisdictionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func mapToResponse(salary EmployeeSalary) EmployeeSalaryResponse {
	return EmployeeSalaryResponse{
		ID:               salary.ID.String(),
		EmployeeID:       salary.EmployeeID.String(),
		EmployeeName:     salary.EmployeeName,
		BaseSalary:       money.Cents(salary.BaseSalary).String(),
		Allowance:        money.Cents(salary.Allowance).String(),
		PayFrequency:     salary.PayFrequency,
		JurisdictionCode: salary.JurisdictionCode,
		EffectiveDate:    salary.EffectiveDate.Format(dateLayout),
	}
}

func mapToListResponse(salaries []EmployeeSalary) []EmployeeSalaryResponse {
	res := make([]EmployeeSalaryResponse, len(salaries))
	for i, salary := range salaries {
		res[i] = mapToResponse(salary)
	}
	return res
}
