package domain

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// Authorize decides allow/deny for a user and a required permission code.
	// A root admin user type passes unconditionally; everyone else needs a
	// grant whose role carries the exact code.
	Authorize(ctx context.Context, userID uuid.UUID, userType string, code string) error

	// ResolveLoginGrant returns the first grant found for the user together
	// with the role's permission codes. Users without any grant get a nil
	// grant and no permissions.
	ResolveLoginGrant(ctx context.Context, userID uuid.UUID) (*Grant, []string, error)

	RolesByScope(ctx context.Context, scopeType string) ([]Role, error)

	AssignGrant(ctx context.Context, req AssignGrantRequest) (*UserRole, error)
}

type AssignGrantRequest struct {
	UserID       uuid.UUID
	RoleName     string
	DepartmentID *uuid.UUID
	GroupID      *uuid.UUID
}
