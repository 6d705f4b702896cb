package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/gokulraja-dev/infintree/internal/iam/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.RolePermission{},
		&domain.UserRole{},
	))
	return db
}

func newTestService(t *testing.T) (domain.Service, domain.Repository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewRepository(db)
	svc := New(Params{DB: db, Log: zap.NewNop(), Repo: repo})
	return svc, repo, db
}

func seedRoleWithPermission(t *testing.T, repo domain.Repository, roleName, code string) (domain.Role, domain.Permission) {
	t.Helper()
	ctx := context.Background()

	perm := domain.Permission{ID: uuid.New(), Code: code, Resource: "document", Action: "read"}
	require.NoError(t, repo.InsertPermission(ctx, perm))

	role := domain.Role{ID: uuid.New(), Name: roleName, ScopeType: domain.RoleScopeDepartment}
	require.NoError(t, repo.InsertRole(ctx, role))
	require.NoError(t, repo.InsertRolePermission(ctx, domain.RolePermission{RoleID: role.ID, PermissionID: perm.ID}))
	return role, perm
}

func TestAuthorizeRootAdminBypassesChecks(t *testing.T) {
	svc, _, _ := newTestService(t)

	// No grants exist at all, the user type alone decides.
	err := svc.Authorize(context.Background(), uuid.New(), authdomain.UserTypeRootAdmin, "document.read")
	assert.NoError(t, err)
}

func TestAuthorizeAllowsExactGrant(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	role, _ := seedRoleWithPermission(t, repo, "READER", "document.read")
	userID := uuid.New()
	require.NoError(t, repo.InsertGrant(ctx, domain.UserRole{ID: uuid.New(), UserID: userID, RoleID: role.ID}))

	assert.NoError(t, svc.Authorize(ctx, userID, authdomain.UserTypeUser, "document.read"))
	assert.ErrorIs(t, svc.Authorize(ctx, userID, authdomain.UserTypeUser, "document.delete"), domain.ErrPermissionDenied)
}

func TestAuthorizeDeniesUserWithoutGrant(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Authorize(context.Background(), uuid.New(), authdomain.UserTypeUser, "document.read")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestResolveLoginGrantReturnsFirstGrant(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	first, _ := seedRoleWithPermission(t, repo, "FIRST", "document.read")
	second, _ := seedRoleWithPermission(t, repo, "SECOND", "document.update")

	userID := uuid.New()
	deptID := uuid.New()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.InsertGrant(ctx, domain.UserRole{
		ID: uuid.New(), UserID: userID, RoleID: first.ID, DepartmentID: &deptID, CreatedAt: base,
	}))
	require.NoError(t, repo.InsertGrant(ctx, domain.UserRole{
		ID: uuid.New(), UserID: userID, RoleID: second.ID, CreatedAt: base.Add(time.Minute),
	}))

	grant, codes, err := svc.ResolveLoginGrant(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, "FIRST", grant.Role.Name)
	require.NotNil(t, grant.UserRole.DepartmentID)
	assert.Equal(t, deptID, *grant.UserRole.DepartmentID)
	assert.Equal(t, []string{"document.read"}, codes)
}

func TestResolveLoginGrantWithoutGrants(t *testing.T) {
	svc, _, _ := newTestService(t)

	grant, codes, err := svc.ResolveLoginGrant(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, grant)
	assert.Empty(t, codes)
}

func TestAssignGrantRejectsDuplicates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	role, _ := seedRoleWithPermission(t, repo, "READER", "document.read")
	userID := uuid.New()

	_, err := svc.AssignGrant(ctx, domain.AssignGrantRequest{UserID: userID, RoleName: role.Name})
	require.NoError(t, err)

	_, err = svc.AssignGrant(ctx, domain.AssignGrantRequest{UserID: userID, RoleName: role.Name})
	assert.ErrorIs(t, err, domain.ErrGrantExists)
}

func TestAssignGrantUnknownRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AssignGrant(context.Background(), domain.AssignGrantRequest{
		UserID:   uuid.New(),
		RoleName: "NO_SUCH_ROLE",
	})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestRolesByScopeValidatesScope(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	seedRoleWithPermission(t, repo, "READER", "document.read")

	roles, err := svc.RolesByScope(ctx, domain.RoleScopeDepartment)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "READER", roles[0].Name)

	_, err = svc.RolesByScope(ctx, "universe")
	assert.ErrorIs(t, err, domain.ErrInvalidScope)
}
