package rbac

import "peopleflow-hr/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

// PermissionSpec names one resource/action pair a role is granted.
type PermissionSpec = domain.Permission

// GrantRequest creates or updates a company role with exactly Permissions
// and assigns it to EmployeeIDs.
type GrantRequest struct {
	CompanyID   string
	RoleName    string
	Permissions []PermissionSpec
	EmployeeIDs []string
}
