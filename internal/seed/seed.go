// Package seed bootstraps the system on startup: IAM policies, the root
// admin account and its ROOT_ADMIN grant.
package seed

import (
	"context"
	"strings"
	"time"

	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/auth/password"
	"github.com/gokulraja-dev/infintree/internal/config"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/gokulraja-dev/infintree/internal/iam/loader"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const rootRoleName = "ROOT_ADMIN"

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Loader  *loader.Loader
	Users   authdomain.Repository
	IAMRepo iamdomain.Repository
}

type Seeder struct {
	cfg     config.Config
	log     *zap.Logger
	loader  *loader.Loader
	users   authdomain.Repository
	iamRepo iamdomain.Repository
}

func New(p Params) *Seeder {
	return &Seeder{
		cfg:     p.Cfg,
		log:     p.Log.Named("seed"),
		loader:  p.Loader,
		users:   p.Users,
		iamRepo: p.IAMRepo,
	}
}

// Run applies policies and ensures the root admin exists with its grant.
// Every step is idempotent, a restart never duplicates records.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.loader.LoadFile(ctx, s.cfg.PolicyFile); err != nil {
		return err
	}

	root, err := s.ensureRootAdmin(ctx)
	if err != nil {
		return err
	}
	return s.ensureRootGrant(ctx, root)
}

func (s *Seeder) ensureRootAdmin(ctx context.Context) (*authdomain.User, error) {
	email := strings.ToLower(strings.TrimSpace(s.cfg.RootAdminEmail))

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := password.Hash(s.cfg.RootAdminPass)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	root := authdomain.User{
		ID:              uuid.New(),
		FirstName:       "Root",
		LastName:        "Admin",
		Email:           email,
		PasswordHash:    hash,
		DefaultPassword: true,
		UserType:        authdomain.UserTypeRootAdmin,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Insert(ctx, root); err != nil {
		return nil, err
	}
	s.log.Info("root admin created", zap.String("email", email))
	return &root, nil
}

func (s *Seeder) ensureRootGrant(ctx context.Context, root *authdomain.User) error {
	role, err := s.iamRepo.FindRoleByName(ctx, rootRoleName)
	if err != nil {
		return err
	}
	if role == nil {
		return iamdomain.ErrRoleNotFound
	}

	grant := iamdomain.UserRole{
		UserID: root.ID,
		RoleID: role.ID,
	}
	exists, err := s.iamRepo.GrantExists(ctx, grant)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	grant.ID = uuid.New()
	grant.CreatedAt = time.Now().UTC()
	return s.iamRepo.InsertGrant(ctx, grant)
}
