package service

import (
	"context"

	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("iam.service"),
		repo: p.Repo,
	}
}

// Authorize performs a fresh lookup per call. Wildcards were already expanded
// into concrete grants at policy load time, so the check is a plain equality
// join.
func (s *Service) Authorize(ctx context.Context, userID uuid.UUID, userType string, code string) error {
	if userType == authdomain.UserTypeRootAdmin {
		return nil
	}

	allowed, err := s.repo.UserHasPermission(ctx, userID, code)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("permission denied",
			zap.String("user_id", userID.String()),
			zap.String("permission", code),
		)
		return domain.ErrPermissionDenied
	}
	return nil
}

// ResolveLoginGrant picks the first grant by creation order. Precedence for
// users holding several grants is a documented limitation, not a feature.
func (s *Service) ResolveLoginGrant(ctx context.Context, userID uuid.UUID) (*domain.Grant, []string, error) {
	grant, err := s.repo.FirstGrantByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if grant == nil {
		return nil, nil, nil
	}

	codes, err := s.repo.PermissionCodesByRole(ctx, grant.Role.ID)
	if err != nil {
		return nil, nil, err
	}
	return grant, codes, nil
}

func (s *Service) RolesByScope(ctx context.Context, scopeType string) ([]domain.Role, error) {
	switch scopeType {
	case domain.RoleScopeSystem, domain.RoleScopeDepartment, domain.RoleScopeGroup:
	default:
		return nil, domain.ErrInvalidScope
	}
	return s.repo.RolesByScope(ctx, scopeType)
}

// AssignGrant uses existence-check-then-insert; concurrent assignment of the
// same tuple can race, which is accepted for low-volume administrative use.
func (s *Service) AssignGrant(ctx context.Context, req domain.AssignGrantRequest) (*domain.UserRole, error) {
	role, err := s.repo.FindRoleByName(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}

	grant := domain.UserRole{
		ID:           uuid.New(),
		UserID:       req.UserID,
		RoleID:       role.ID,
		DepartmentID: req.DepartmentID,
		GroupID:      req.GroupID,
	}

	exists, err := s.repo.GrantExists(ctx, grant)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrGrantExists
	}

	if err := s.repo.InsertGrant(ctx, grant); err != nil {
		return nil, err
	}
	return &grant, nil
}
