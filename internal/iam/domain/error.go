package domain

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrRoleNotFound     = errors.New("role not found")
	ErrGrantExists      = errors.New("grant already exists")
	ErrInvalidScope     = errors.New("invalid scope")
)
