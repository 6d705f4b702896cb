package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gokulraja-dev/infintree/internal/document/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) InsertDocument(ctx context.Context, document domain.Document) error {
	return r.db.WithContext(ctx).Create(&document).Error
}

func (r *repository) InsertNode(ctx context.Context, node domain.DocumentNode) error {
	return r.db.WithContext(ctx).Create(&node).Error
}

func (r *repository) ActiveNodeByID(ctx context.Context, nodeID string) (*domain.DocumentNode, error) {
	var node domain.DocumentNode
	err := r.db.WithContext(ctx).
		Where("node_id = ? AND deleted_at IS NULL", nodeID).
		First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *repository) ActiveNode(ctx context.Context, departmentID uuid.UUID, nodeID string) (*domain.DocumentNode, error) {
	var node domain.DocumentNode
	err := r.db.WithContext(ctx).
		Where("node_id = ? AND department_id = ? AND deleted_at IS NULL", nodeID, departmentID).
		First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

// joinedRow flattens the node/document join for scanning.
type joinedRow struct {
	domain.DocumentNode
	Document domain.Document `gorm:"embedded;embeddedPrefix:doc_"`
}

const joinedSelect = `document_nodes.*,
	documents.id AS doc_id,
	documents.title AS doc_title,
	documents.content AS doc_content,
	documents.created_at AS doc_created_at,
	documents.updated_at AS doc_updated_at`

func (row joinedRow) pair() domain.NodeDocument {
	return domain.NodeDocument{Node: row.DocumentNode, Document: row.Document}
}

func (r *repository) NodeWithDocument(ctx context.Context, departmentID uuid.UUID, nodeID string) (*domain.NodeDocument, error) {
	var row joinedRow
	err := r.db.WithContext(ctx).
		Table("document_nodes").
		Select(joinedSelect).
		Joins("JOIN documents ON documents.id = document_nodes.document_id").
		Where("document_nodes.node_id = ? AND document_nodes.department_id = ? AND document_nodes.deleted_at IS NULL",
			nodeID, departmentID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	pair := row.pair()
	return &pair, nil
}

func (r *repository) Children(ctx context.Context, departmentID uuid.UUID, parentNodeID string) ([]domain.NodeDocument, error) {
	var rows []joinedRow
	err := r.db.WithContext(ctx).
		Table("document_nodes").
		Select(joinedSelect).
		Joins("JOIN documents ON documents.id = document_nodes.document_id").
		Where("document_nodes.department_id = ? AND document_nodes.parent_node_id = ? AND document_nodes.deleted_at IS NULL",
			departmentID, parentNodeID).
		Order("document_nodes.path ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return pairs(rows), nil
}

func (r *repository) Subtree(ctx context.Context, departmentID uuid.UUID, path string) ([]domain.NodeDocument, error) {
	var rows []joinedRow
	err := r.db.WithContext(ctx).
		Table("document_nodes").
		Select(joinedSelect).
		Joins("JOIN documents ON documents.id = document_nodes.document_id").
		Where("document_nodes.department_id = ? AND document_nodes.path LIKE ? AND document_nodes.deleted_at IS NULL",
			departmentID, path+"%").
		Order("document_nodes.path ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return pairs(rows), nil
}

func pairs(rows []joinedRow) []domain.NodeDocument {
	out := make([]domain.NodeDocument, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.pair())
	}
	return out
}

func (r *repository) UpdateDocument(ctx context.Context, document domain.Document) error {
	return r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", document.ID).
		Updates(map[string]any{
			"title":       document.Title,
			"content":     document.Content,
			"search_text": document.SearchText,
			"updated_at":  document.UpdatedAt,
		}).Error
}

func (r *repository) SoftDeleteSubtree(ctx context.Context, departmentID uuid.UUID, path string, at time.Time) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE documents SET deleted_at = ?
		 WHERE id IN (
			SELECT document_id FROM document_nodes
			WHERE department_id = ? AND path LIKE ? AND deleted_at IS NULL
		 ) AND deleted_at IS NULL`,
		at, departmentID, path+"%",
	).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(
		`UPDATE document_nodes SET deleted_at = ?
		 WHERE department_id = ? AND path LIKE ? AND deleted_at IS NULL`,
		at, departmentID, path+"%",
	).Error
}
