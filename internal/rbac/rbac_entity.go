package rbac

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_roles_company_name"`
	Name        string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_roles_company_name"`
	Description string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Role) TableName() string { return "roles" }

type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Resource string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_permissions_resource_action"`
	Action   string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_permissions_resource_action"`
	Label    string    `gorm:"type:varchar(120)"`
}

func (Permission) TableName() string { return "permissions" }

type RolePermission struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (RolePermission) TableName() string { return "role_permissions" }

type EmployeeRole struct {
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (EmployeeRole) TableName() string { return "employee_roles" }

// Models lists the tables AutoMigrate creates for this package.
func Models() []any {
	return []any{&Role{}, &Permission{}, &RolePermission{}, &EmployeeRole{}}
}
