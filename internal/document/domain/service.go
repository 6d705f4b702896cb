package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Retrieval depths. Anything else is rejected.
const (
	DepthZero = "0"
	DepthOne  = "1"
	DepthAll  = "all"
)

var (
	ErrNotFound              = errors.New("document not found")
	ErrParentNotFound        = errors.New("parent document not found")
	ErrCrossDepartmentParent = errors.New("parent belongs to another department")
	ErrInvalidDepth          = errors.New("invalid depth parameter")
)

type Service interface {
	// Create persists a document and its tree node atomically.
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)

	// Get returns the node at the requested depth: "0" the node alone, "1"
	// the node plus immediate children, "all" the full active subtree.
	Get(ctx context.Context, req GetRequest) (*TreeNode, error)

	// Update mutates title/content in place without touching the hierarchy.
	Update(ctx context.Context, req UpdateRequest) (string, error)

	// Delete soft-deletes the node and every active descendant, stamping all
	// affected rows with the same deletion instant.
	Delete(ctx context.Context, departmentID uuid.UUID, nodeID string) error
}

type CreateRequest struct {
	DepartmentID uuid.UUID
	Title        string
	Content      datatypes.JSONMap
	ParentNodeID *string
}

type CreateResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	NodeID     string    `json:"node_id"`
	Path       string    `json:"path"`
}

type GetRequest struct {
	DepartmentID uuid.UUID
	NodeID       string
	Depth        string
}

type UpdateRequest struct {
	DepartmentID uuid.UUID
	NodeID       string
	Title        *string
	Content      datatypes.JSONMap
}

// TreeNode is the nested read model returned by Get.
type TreeNode struct {
	NodeID       string            `json:"node_id"`
	Title        string            `json:"title"`
	Content      datatypes.JSONMap `json:"content"`
	ParentNodeID *string           `json:"parent_node_id"`
	Children     []*TreeNode       `json:"children"`
}
