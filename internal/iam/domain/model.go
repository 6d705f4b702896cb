// Package domain contains the persistence models for roles, permissions and
// grants.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role scope types.
const (
	RoleScopeSystem     = "system"
	RoleScopeDepartment = "department"
	RoleScopeGroup      = "group"
)

// Permission is immutable reference data seeded from the IAM policy file.
type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"code"`
	Resource string    `gorm:"type:varchar(50);not null" json:"resource"`
	Action   string    `gorm:"type:varchar(50);not null" json:"action"`
}

// TableName sets the database table name.
func (Permission) TableName() string { return "permissions" }

// Role is a named, shared permission template restricted to a scope type.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	ScopeType string    `gorm:"type:varchar(20);not null" json:"scope_type"`
}

// TableName sets the database table name.
func (Role) TableName() string { return "roles" }

// RolePermission links a role to one of its permissions.
type RolePermission struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"role_id"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"permission_id"`
}

// TableName sets the database table name.
func (RolePermission) TableName() string { return "role_permissions" }

// UserRole assigns a role to a user within an optional scope. At most one of
// DepartmentID and GroupID is set; neither means a system-wide grant.
type UserRole struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:ux_user_roles_grant,priority:1" json:"user_id"`
	RoleID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_user_roles_grant,priority:2" json:"role_id"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:ux_user_roles_grant,priority:3" json:"department_id"`
	GroupID      *uuid.UUID `gorm:"type:uuid;uniqueIndex:ux_user_roles_grant,priority:4" json:"group_id"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UserRole) TableName() string { return "user_roles" }

// Grant pairs a user's role assignment with the role it references.
type Grant struct {
	UserRole UserRole
	Role     Role
}
