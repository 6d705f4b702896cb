package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/auth/password"
	"github.com/gokulraja-dev/infintree/internal/auth/repository"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	iamrepository "github.com/gokulraja-dev/infintree/internal/iam/repository"
	iamservice "github.com/gokulraja-dev/infintree/internal/iam/service"
	"github.com/gokulraja-dev/infintree/internal/keystore"
	"github.com/gokulraja-dev/infintree/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAudience = "infintree"

type fixture struct {
	svc      domain.Service
	repo     domain.Repository
	iamRepo  iamdomain.Repository
	verifier *token.Verifier
	db       *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&iamdomain.Permission{},
		&iamdomain.Role{},
		&iamdomain.RolePermission{},
		&iamdomain.UserRole{},
	))

	keys := keystore.NewWithOptions(filepath.Join(t.TempDir(), "keys.json"), 30*24*time.Hour, time.Now)
	issuer := token.NewIssuerWithClock(keys, time.Hour, testAudience, time.Now)

	repo := repository.NewRepository(db)
	iamRepo := iamrepository.NewRepository(db)
	iamSvc := iamservice.New(iamservice.Params{DB: db, Log: zap.NewNop(), Repo: iamRepo})

	return &fixture{
		svc:      New(Params{DB: db, Log: zap.NewNop(), Repo: repo, IAM: iamSvc, Issuer: issuer}),
		repo:     repo,
		iamRepo:  iamRepo,
		verifier: token.NewVerifierWithOptions(keys, testAudience, time.Minute, zap.NewNop()),
		db:       db,
	}
}

func (f *fixture) seedUser(t *testing.T, email, plain string, defaultPassword bool) domain.User {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)

	user := domain.User{
		ID:              uuid.New(),
		FirstName:       "Test",
		LastName:        "User",
		Email:           email,
		PasswordHash:    hash,
		DefaultPassword: defaultPassword,
		UserType:        domain.UserTypeUser,
	}
	require.NoError(t, f.repo.Insert(context.Background(), user))
	return user
}

func (f *fixture) seedGrant(t *testing.T, userID uuid.UUID, roleName, code string, departmentID *uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	perm := iamdomain.Permission{ID: uuid.New(), Code: code, Resource: "document", Action: "read"}
	require.NoError(t, f.iamRepo.InsertPermission(ctx, perm))
	role := iamdomain.Role{ID: uuid.New(), Name: roleName, ScopeType: iamdomain.RoleScopeDepartment}
	require.NoError(t, f.iamRepo.InsertRole(ctx, role))
	require.NoError(t, f.iamRepo.InsertRolePermission(ctx, iamdomain.RolePermission{RoleID: role.ID, PermissionID: perm.ID}))
	require.NoError(t, f.iamRepo.InsertGrant(ctx, iamdomain.UserRole{
		ID: uuid.New(), UserID: userID, RoleID: role.ID, DepartmentID: departmentID,
	}))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "jane@example.com", "Sup3r$ecret", false)

	_, err := f.svc.Login(context.Background(), domain.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), domain.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestInsertPersistsClearedDefaultPasswordFlag(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedUser(t, "settled@example.com", "Sup3r$ecret", false)

	stored, err := f.repo.FindByEmail(context.Background(), "settled@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, stored.ID)
	assert.False(t, stored.DefaultPassword)
}

func TestLoginBlocksDefaultPassword(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "new@example.com", "Default1!", true)

	_, err := f.svc.Login(context.Background(), domain.LoginRequest{Email: "new@example.com", Password: "Default1!"})
	assert.ErrorIs(t, err, domain.ErrMustChangePassword)
}

func TestLoginIssuesTokenWithGrantScope(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "jane@example.com", "Sup3r$ecret", false)
	dept := uuid.New()
	f.seedGrant(t, user.ID, "DEPARTMENT_ADMIN", "document.read", &dept)

	result, err := f.svc.Login(context.Background(), domain.LoginRequest{Email: "Jane@Example.com", Password: "Sup3r$ecret"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)

	claims, err := f.verifier.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, []string{"DEPARTMENT_ADMIN"}, claims.Roles)
	assert.Equal(t, []string{"document.read"}, claims.Permissions)
	assert.Equal(t, token.ScopeDepartment, claims.Scope.Type)
	require.NotNil(t, claims.Scope.ID)
	assert.Equal(t, dept.String(), *claims.Scope.ID)
}

func TestLoginWithoutGrantGetsSystemScope(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "plain@example.com", "Sup3r$ecret", false)

	result, err := f.svc.Login(context.Background(), domain.LoginRequest{Email: "plain@example.com", Password: "Sup3r$ecret"})
	require.NoError(t, err)

	claims, err := f.verifier.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{}, claims.Roles)
	assert.Equal(t, []string{}, claims.Permissions)
	assert.Equal(t, token.ScopeSystem, claims.Scope.Type)
}

func TestSetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "new@example.com", "Default1!", true)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.SetPasswordRequest
		want error
	}{
		{
			name: "unknown user",
			req:  domain.SetPasswordRequest{Email: "ghost@example.com", OldPassword: "Default1!", NewPassword: "N3w$trong", ConfirmPassword: "N3w$trong"},
			want: domain.ErrUserNotFound,
		},
		{
			name: "wrong old password",
			req:  domain.SetPasswordRequest{Email: "new@example.com", OldPassword: "nope", NewPassword: "N3w$trong", ConfirmPassword: "N3w$trong"},
			want: domain.ErrInvalidCredentials,
		},
		{
			name: "reused password",
			req:  domain.SetPasswordRequest{Email: "new@example.com", OldPassword: "Default1!", NewPassword: "Default1!", ConfirmPassword: "Default1!"},
			want: domain.ErrPasswordReuse,
		},
		{
			name: "confirmation mismatch",
			req:  domain.SetPasswordRequest{Email: "new@example.com", OldPassword: "Default1!", NewPassword: "N3w$trong", ConfirmPassword: "Different1!"},
			want: domain.ErrPasswordConfirmation,
		},
		{
			name: "weak password",
			req:  domain.SetPasswordRequest{Email: "new@example.com", OldPassword: "Default1!", NewPassword: "weakpass", ConfirmPassword: "weakpass"},
			want: domain.ErrWeakPassword,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, f.svc.SetPassword(ctx, tc.req), tc.want)
		})
	}

	// Happy path clears the flag and unblocks login.
	require.NoError(t, f.svc.SetPassword(ctx, domain.SetPasswordRequest{
		Email: "new@example.com", OldPassword: "Default1!", NewPassword: "N3w$trong", ConfirmPassword: "N3w$trong",
	}))

	_, err := f.svc.Login(ctx, domain.LoginRequest{Email: "new@example.com", Password: "N3w$trong"})
	require.NoError(t, err)

	// A second change attempt is rejected once the flag is cleared.
	err = f.svc.SetPassword(ctx, domain.SetPasswordRequest{
		Email: "new@example.com", OldPassword: "N3w$trong", NewPassword: "An0ther$1", ConfirmPassword: "An0ther$1",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordChangeNotAllowed)
}

func TestCreateUserSetsDefaultPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.CreateUser(ctx, domain.CreateUserRequest{
		FirstName: "New",
		LastName:  "Hire",
		Email:     "Hire@Example.com",
		Password:  "Onboard1!",
	})
	require.NoError(t, err)
	assert.Equal(t, "hire@example.com", user.Email)
	assert.True(t, user.DefaultPassword)
	assert.Equal(t, domain.UserTypeUser, user.UserType)

	_, err = f.svc.CreateUser(ctx, domain.CreateUserRequest{Email: "hire@example.com", Password: "Onboard1!"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}
