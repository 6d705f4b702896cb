package service

import (
	"context"
	"strings"
	"time"

	"github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/auth/password"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/gokulraja-dev/infintree/internal/token"
	"github.com/gokulraja-dev/infintree/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   domain.Repository
	IAM    iamdomain.Service
	Issuer *token.Issuer
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   domain.Repository
	iam    iamdomain.Service
	issuer *token.Issuer
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("auth.service"),
		repo:   p.Repo,
		iam:    p.IAM,
		issuer: p.Issuer,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if user.DefaultPassword {
		return nil, domain.ErrMustChangePassword
	}

	grant, codes, err := s.iam.ResolveLoginGrant(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	issueReq := token.Request{
		UserID:      user.ID.String(),
		Email:       user.Email,
		Permissions: codes,
		Scope:       token.SystemScope(),
	}
	if grant != nil {
		issueReq.Role = grant.Role.Name
		issueReq.Scope = grantScope(grant.UserRole)
	}

	signed, err := s.issuer.Issue(issueReq)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &domain.LoginResult{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}

func (s *Service) SetPassword(ctx context.Context, req domain.SetPasswordRequest) error {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if !user.DefaultPassword {
		return domain.ErrPasswordChangeNotAllowed
	}
	if !password.Verify(req.OldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if req.OldPassword == req.NewPassword {
		return domain.ErrPasswordReuse
	}
	if req.NewPassword != req.ConfirmPassword {
		return domain.ErrPasswordConfirmation
	}
	if !password.MeetsComplexity(req.NewPassword) {
		return domain.ErrWeakPassword
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, hashed)
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	userType := req.UserType
	if userType == "" {
		userType = domain.UserTypeUser
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:              uuid.New(),
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           email,
		PasswordHash:    hashed,
		DefaultPassword: true,
		UserType:        userType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// grantScope derives the token scope from a grant: department wins over
// group, and a grant with neither is system-wide.
func grantScope(grant iamdomain.UserRole) token.Scope {
	switch {
	case grant.DepartmentID != nil:
		return token.DepartmentScope(grant.DepartmentID.String())
	case grant.GroupID != nil:
		return token.GroupScope(grant.GroupID.String())
	default:
		return token.SystemScope()
	}
}
