package domain

import "errors"

var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrMustChangePassword       = errors.New("password change required")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserExists               = errors.New("user already exists")
	ErrPasswordChangeNotAllowed = errors.New("password change not allowed")
	ErrPasswordReuse            = errors.New("new password must differ from old password")
	ErrPasswordConfirmation     = errors.New("password confirmation does not match")
	ErrWeakPassword             = errors.New("password does not meet complexity requirements")
)
