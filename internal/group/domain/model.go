// Package domain contains persistence models for groups.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group is a scoping container that can span several departments.
type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Group) TableName() string { return "groups" }

// GroupDepartment associates a group with a department.
type GroupDepartment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_group_departments,priority:1" json:"group_id"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_group_departments,priority:2" json:"department_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (GroupDepartment) TableName() string { return "group_department_associations" }
