package repository

import (
	"context"
	"errors"

	"github.com/gokulraja-dev/infintree/internal/group/domain"
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

func (r *repository) Insert(ctx context.Context, group domain.Group) error {
	return r.db.WithContext(ctx).Create(&group).Error
}

func (r *repository) List(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Group{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) AssociationExists(ctx context.Context, groupID, departmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.GroupDepartment{}).
		Where("group_id = ? AND department_id = ?", groupID, departmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) InsertAssociation(ctx context.Context, association domain.GroupDepartment) error {
	return r.db.WithContext(ctx).Create(&association).Error
}

func (r *repository) DepartmentIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.GroupDepartment{}).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Pluck("department_id", &ids).Error
	return ids, err
}
