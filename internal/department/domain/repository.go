package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, department Department) error
	List(ctx context.Context) ([]Department, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
	FindByName(ctx context.Context, name string) (*Department, error)
	Update(ctx context.Context, department Department) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
