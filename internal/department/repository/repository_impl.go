package repository

import (
	"context"
	"errors"

	"github.com/gokulraja-dev/infintree/internal/department/domain"
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

func (r *repository) Insert(ctx context.Context, department domain.Department) error {
	return r.db.WithContext(ctx).Create(&department).Error
}

func (r *repository) List(ctx context.Context) ([]domain.Department, error) {
	var departments []domain.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	var department domain.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*domain.Department, error) {
	var department domain.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

func (r *repository) Update(ctx context.Context, department domain.Department) error {
	return r.db.WithContext(ctx).
		Model(&domain.Department{}).
		Where("id = ?", department.ID).
		Updates(map[string]any{
			"name":        department.Name,
			"description": department.Description,
			"updated_at":  department.UpdatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Department{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
