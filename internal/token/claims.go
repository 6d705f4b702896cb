// Package token mints and verifies the signed access tokens used by the API.
package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ScopeSystem     = "system"
	ScopeDepartment = "department"
	ScopeGroup      = "group"
)

// ErrInvalidToken covers every verification failure. The cause is logged but
// never surfaced to the caller.
var ErrInvalidToken = errors.New("invalid token")

// Scope is the organizational boundary a token is restricted to.
type Scope struct {
	Type string  `json:"type"`
	ID   *string `json:"id"`
}

// SystemScope is the unscoped (system-wide) grant scope.
func SystemScope() Scope {
	return Scope{Type: ScopeSystem}
}

// DepartmentScope scopes a token to a single department.
func DepartmentScope(id string) Scope {
	return Scope{Type: ScopeDepartment, ID: &id}
}

// GroupScope scopes a token to a single group.
func GroupScope(id string) Scope {
	return Scope{Type: ScopeGroup, ID: &id}
}

// Claims is the access token payload.
type Claims struct {
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	Scope       Scope    `json:"scope"`
	jwt.RegisteredClaims
}
