// Package domain contains persistence models for departments.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Department is a tenant-like scoping container that also anchors document
// ownership.
type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Department) TableName() string { return "departments" }
