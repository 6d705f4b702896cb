package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("department not found")
	ErrNameTaken = errors.New("department name already exists")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Department, error)
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateRequest struct {
	Name        string
	Description *string
}

type UpdateRequest struct {
	Name        string
	Description *string
}
