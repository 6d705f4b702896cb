package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	InsertDocument(ctx context.Context, document Document) error
	InsertNode(ctx context.Context, node DocumentNode) error

	// ActiveNodeByID looks a node up regardless of department; used for
	// parent resolution at create time.
	ActiveNodeByID(ctx context.Context, nodeID string) (*DocumentNode, error)

	// ActiveNode scopes the lookup to a department.
	ActiveNode(ctx context.Context, departmentID uuid.UUID, nodeID string) (*DocumentNode, error)

	NodeWithDocument(ctx context.Context, departmentID uuid.UUID, nodeID string) (*NodeDocument, error)

	// Children returns immediate active children ordered by path.
	Children(ctx context.Context, departmentID uuid.UUID, parentNodeID string) ([]NodeDocument, error)

	// Subtree returns every active node whose path starts with the given
	// path, ordered by path (pre-order).
	Subtree(ctx context.Context, departmentID uuid.UUID, path string) ([]NodeDocument, error)

	UpdateDocument(ctx context.Context, document Document) error

	// SoftDeleteSubtree stamps every active node under the path prefix, and
	// the documents they reference, with the given instant.
	SoftDeleteSubtree(ctx context.Context, departmentID uuid.UUID, path string, at time.Time) error
}
