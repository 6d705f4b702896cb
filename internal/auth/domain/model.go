// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User types. Root admins bypass every permission check.
const (
	UserTypeRootAdmin = "ROOT_ADMIN"
	UserTypeUser      = "USER"
)

// User represents a system user account.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName       string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName        string    `gorm:"type:varchar(50);not null" json:"last_name"`
	Email           string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	DefaultPassword bool      `gorm:"not null" json:"default_password"`
	UserType        string    `gorm:"type:varchar(50);not null" json:"user_type"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// IsRootAdmin reports whether the user bypasses permission checks.
func (u User) IsRootAdmin() bool { return u.UserType == UserTypeRootAdmin }
