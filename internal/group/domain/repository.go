package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, group Group) error
	List(ctx context.Context) ([]Group, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)
	FindByName(ctx context.Context, name string) (*Group, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AssociationExists(ctx context.Context, groupID, departmentID uuid.UUID) (bool, error)
	InsertAssociation(ctx context.Context, association GroupDepartment) error
	DepartmentIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}
