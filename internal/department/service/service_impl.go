package service

import (
	"context"
	"strings"
	"time"

	"github.com/gokulraja-dev/infintree/internal/department/domain"
	"github.com/gokulraja-dev/infintree/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("department.service"),
		repo: p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Department, error) {
	name := strings.TrimSpace(req.Name)

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNameTaken
	}

	now := time.Now().UTC()
	department := domain.Department{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, department); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	return &department, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []domain.Department{}
	}
	return departments, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, domain.ErrNotFound
	}
	return department, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req domain.UpdateRequest) (*domain.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.ErrNameTaken
	}

	department.Name = name
	department.Description = req.Description
	department.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, *department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
