package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindPermissionByCode(ctx context.Context, code string) (*Permission, error)
	FindPermissionsByResource(ctx context.Context, resource string) ([]Permission, error)
	InsertPermission(ctx context.Context, permission Permission) error

	FindRoleByName(ctx context.Context, name string) (*Role, error)
	RolesByScope(ctx context.Context, scopeType string) ([]Role, error)
	InsertRole(ctx context.Context, role Role) error
	UpdateRoleScope(ctx context.Context, roleID uuid.UUID, scopeType string) error

	RolePermissionExists(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error)
	InsertRolePermission(ctx context.Context, link RolePermission) error
	PermissionCodesByRole(ctx context.Context, roleID uuid.UUID) ([]string, error)

	FirstGrantByUser(ctx context.Context, userID uuid.UUID) (*Grant, error)
	GrantExists(ctx context.Context, grant UserRole) (bool, error)
	InsertGrant(ctx context.Context, grant UserRole) error
	UserHasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}
