package domain

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// Login verifies credentials and mints an access token carrying the
	// user's first grant, its role and its permission codes.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)

	// SetPassword replaces a forced default password. Only allowed while the
	// default password flag is still set.
	SetPassword(ctx context.Context, req SetPasswordRequest) error

	// CreateUser provisions a user with a default password that must be
	// changed before the first login succeeds.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// UserByID loads a user for the authentication middleware.
	UserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SetPasswordRequest struct {
	Email           string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

type CreateUserRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	UserType  string
}
