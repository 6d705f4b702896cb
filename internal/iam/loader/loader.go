// Package loader materializes the declarative IAM policy into permission,
// role and role-permission records. Loading is idempotent and runs on every
// process start.
package loader

import (
	"context"
	"strings"

	"github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const wildcardSuffix = ".*"

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Loader struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) *Loader {
	return &Loader{
		log:  p.Log.Named("iam.loader"),
		repo: p.Repo,
	}
}

// LoadFile parses the policy file and applies it.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	policy, err := ParseFile(path)
	if err != nil {
		return err
	}
	return l.Load(ctx, policy)
}

// Load applies a policy document. Permissions are insert-only; roles are
// upserted by name with the scope type overwritten from policy; grants are
// inserted only when the (role, permission) pair is absent.
func (l *Loader) Load(ctx context.Context, policy Policy) error {
	for _, declared := range policy.Permissions {
		existing, err := l.repo.FindPermissionByCode(ctx, declared.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		err = l.repo.InsertPermission(ctx, domain.Permission{
			ID:       uuid.New(),
			Code:     declared.Code,
			Resource: declared.Resource,
			Action:   declared.Action,
		})
		if err != nil {
			return err
		}
	}

	for name, declared := range policy.Roles {
		role, err := l.ensureRole(ctx, name, declared.Scope)
		if err != nil {
			return err
		}

		for _, code := range declared.Permissions {
			permissions, err := l.resolveCode(ctx, code)
			if err != nil {
				return err
			}
			for _, permission := range permissions {
				exists, err := l.repo.RolePermissionExists(ctx, role.ID, permission.ID)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				err = l.repo.InsertRolePermission(ctx, domain.RolePermission{
					RoleID:       role.ID,
					PermissionID: permission.ID,
				})
				if err != nil {
					return err
				}
			}
		}
	}

	l.log.Info("iam policy loaded",
		zap.Int("permissions", len(policy.Permissions)),
		zap.Int("roles", len(policy.Roles)),
	)
	return nil
}

func (l *Loader) ensureRole(ctx context.Context, name, scopeType string) (*domain.Role, error) {
	role, err := l.repo.FindRoleByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		role = &domain.Role{
			ID:        uuid.New(),
			Name:      name,
			ScopeType: scopeType,
		}
		if err := l.repo.InsertRole(ctx, *role); err != nil {
			return nil, err
		}
		return role, nil
	}

	// Policy is the source of truth for role scope on every load.
	if role.ScopeType != scopeType {
		if err := l.repo.UpdateRoleScope(ctx, role.ID, scopeType); err != nil {
			return nil, err
		}
		role.ScopeType = scopeType
	}
	return role, nil
}

// resolveCode expands "resource.*" against the resource column, not the code
// prefix, so "document.*" never matches a "documents" resource.
func (l *Loader) resolveCode(ctx context.Context, code string) ([]domain.Permission, error) {
	if strings.HasSuffix(code, wildcardSuffix) {
		resource := strings.TrimSuffix(code, wildcardSuffix)
		return l.repo.FindPermissionsByResource(ctx, resource)
	}

	permission, err := l.repo.FindPermissionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if permission == nil {
		l.log.Warn("policy references unknown permission", zap.String("code", code))
		return nil, nil
	}
	return []domain.Permission{*permission}, nil
}
