// Package domain contains persistence models for the document tree.
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PathSeparator joins node ids into a materialized path.
const PathSeparator = "."

// Document holds a document's content, independent of its tree position.
type Document struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string            `gorm:"type:varchar(200);not null" json:"title"`
	Content    datatypes.JSONMap `gorm:"not null;default:'{}'" json:"content"`
	SearchText string            `gorm:"type:text;index" json:"-"`
	DeletedAt  *time.Time        `json:"-"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// DocumentNode places a document in a department's tree. Path is the
// root-to-self chain of node ids joined by the separator; node ids are
// lexicographically sortable and time-ordered, so sorting by path walks the
// tree in pre-order.
type DocumentNode struct {
	NodeID       string     `gorm:"type:varchar(26);primaryKey" json:"node_id"`
	DocumentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"document_id"`
	ParentNodeID *string    `gorm:"type:varchar(26)" json:"parent_node_id"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"department_id"`
	Path         string     `gorm:"type:varchar(255);not null;index" json:"path"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (DocumentNode) TableName() string { return "document_nodes" }

// ChildPath extends a node's path with a child's id.
func (n DocumentNode) ChildPath(nodeID string) string {
	return n.Path + PathSeparator + nodeID
}

// NodeDocument pairs a tree node with the document it references.
type NodeDocument struct {
	Node     DocumentNode
	Document Document
}
