package rbac

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error)
	GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error)
	Grant(ctx context.Context, req GrantRequest) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type EmployeeRoleRow struct {
	EmployeeID string
	RoleID     string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow

	err := r.db.WithContext(ctx).
		Table("employee_roles").
		Select("employee_roles.employee_id, employee_roles.role_id").
		Joins("JOIN roles ON roles.id = employee_roles.role_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.company_id = ?", companyID).
		Scan(&result).Error

	return result, err
}

func (r *repository) Grant(ctx context.Context, req GrantRequest) error {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := Role{ID: uuid.New(), CompanyID: companyID, Name: req.RoleName}
		if err := tx.Where("company_id = ? AND name = ?", companyID, req.RoleName).
			FirstOrCreate(&role).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", role.ID).Delete(&RolePermission{}).Error; err != nil {
			return err
		}

		for _, spec := range req.Permissions {
			perm := Permission{ID: uuid.New(), Resource: spec.Resource, Action: spec.Action, Label: spec.String()}
			if err := tx.Where("resource = ? AND action = ?", spec.Resource, spec.Action).
				FirstOrCreate(&perm).Error; err != nil {
				return err
			}
			if err := tx.Create(&RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error; err != nil {
				return err
			}
		}

		for _, id := range req.EmployeeIDs {
			employeeID, err := uuid.Parse(id)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&EmployeeRole{EmployeeID: employeeID, RoleID: role.ID}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
