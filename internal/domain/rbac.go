// Package domain holds the authorization types shared by the rbac module and
// the HTTP middleware, so neither has to import the other.
package domain

// Permission is one action on one resource, written "resource:action".
type Permission struct {
	Resource string `json:"resource" yaml:"resource"`
	Action   string `json:"action" yaml:"action"`
}

func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

// EnforceRequest asks whether an employee holds a permission inside one
// company.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

func (r EnforceRequest) Permission() Permission {
	return Permission{Resource: r.Resource, Action: r.Action}
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
