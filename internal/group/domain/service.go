package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("group not found")
	ErrNameTaken         = errors.New("group name already exists")
	ErrAssociationExists = errors.New("group already associated with department")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Group, error)
	List(ctx context.Context) ([]Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachDepartment(ctx context.Context, groupID, departmentID uuid.UUID) error
	DepartmentIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

type CreateRequest struct {
	Name        string
	Description *string
}
