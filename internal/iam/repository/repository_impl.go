package repository

import (
	"context"
	"errors"

	"github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) FindPermissionByCode(ctx context.Context, code string) (*domain.Permission, error) {
	var permission domain.Permission
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&permission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}

func (r *repository) FindPermissionsByResource(ctx context.Context, resource string) ([]domain.Permission, error) {
	var permissions []domain.Permission
	err := r.db.WithContext(ctx).
		Where("resource = ?", resource).
		Order("code ASC").
		Find(&permissions).Error
	return permissions, err
}

func (r *repository) InsertPermission(ctx context.Context, permission domain.Permission) error {
	return r.db.WithContext(ctx).Create(&permission).Error
}

func (r *repository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) RolesByScope(ctx context.Context, scopeType string) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).
		Where("scope_type = ?", scopeType).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *repository) InsertRole(ctx context.Context, role domain.Role) error {
	return r.db.WithContext(ctx).Create(&role).Error
}

func (r *repository) UpdateRoleScope(ctx context.Context, roleID uuid.UUID, scopeType string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Role{}).
		Where("id = ?", roleID).
		Update("scope_type", scopeType).Error
}

func (r *repository) RolePermissionExists(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) InsertRolePermission(ctx context.Context, link domain.RolePermission) error {
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *repository) PermissionCodesByRole(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&domain.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.code ASC").
		Pluck("permissions.code", &codes).Error
	return codes, err
}

func (r *repository) FirstGrantByUser(ctx context.Context, userID uuid.UUID) (*domain.Grant, error) {
	var userRole domain.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&userRole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var role domain.Role
	if err := r.db.WithContext(ctx).Where("id = ?", userRole.RoleID).First(&role).Error; err != nil {
		return nil, err
	}
	return &domain.Grant{UserRole: userRole, Role: role}, nil
}

func (r *repository) GrantExists(ctx context.Context, grant domain.UserRole) (bool, error) {
	stmt := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Where("user_id = ? AND role_id = ?", grant.UserID, grant.RoleID)
	if grant.DepartmentID != nil {
		stmt = stmt.Where("department_id = ?", *grant.DepartmentID)
	} else {
		stmt = stmt.Where("department_id IS NULL")
	}
	if grant.GroupID != nil {
		stmt = stmt.Where("group_id = ?", *grant.GroupID)
	} else {
		stmt = stmt.Where("group_id IS NULL")
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) InsertGrant(ctx context.Context, grant domain.UserRole) error {
	return r.db.WithContext(ctx).Create(&grant).Error
}

func (r *repository) UserHasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Joins("JOIN role_permissions ON role_permissions.role_id = user_roles.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("user_roles.user_id = ? AND permissions.code = ?", userID, code).
		Count(&count).Error
	return count > 0, err
}
