package employeesalary

// Amounts are decimal strings in major units, e.g. "300000.00".

type CreateEmployeeSalaryRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	EmployeeName     string `json:"employee_name" binding:"max=150"`
	BaseSalary       string `json:"base_salary" binding:"required"`
	Allowance        string `json:"allowance"`
	PayFrequency     string `json:"pay_frequency" binding:"required,oneof=annual monthly semimonthly biweekly weekly"`
	JurisdictionCode string `json:"jurisdiction_code" binding:"required,max=8"`
	EffectiveDate    string `json:"effective_date" binding:"required"`
}

type UpdateEmployeeSalaryRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required,uuid"`
	EmployeeName     string `json:"employee_name" binding:"max=150"`
	BaseSalary       string `json:"base_salary" binding:"required"`
	Allowance        string `json:"allowance"`
	PayFrequency     string `json:"pay_frequency" binding:"required,oneof=annual monthly semimonthly biweekly weekly"`
	JurisdictionCode string `json:"jurisdiction_code" binding:"required,max=8"`
	EffectiveDate    string `json:"effective_date" binding:"required"`
}

type EmployeeSalaryResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name,omitempty"`
	BaseSalary       string `json:"base_salary"`
	Allowance        string `json:"allowance"`
	PayFrequency     string `json:"pay_frequency"`
	JurisdictionCode string `json:"jurisdiction_code"`
	EffectiveDate    string `json:"effective_date"`
}

type EffectiveSalaryQuery struct {
	AsOf string `form:"as_of"`
}
