package service

import (
	"context"
	"strings"
	"time"

	departmentdomain "github.com/gokulraja-dev/infintree/internal/department/domain"
	"github.com/gokulraja-dev/infintree/internal/group/domain"
	"github.com/gokulraja-dev/infintree/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	Departments departmentdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	departments departmentdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("group.service"),
		repo:        p.Repo,
		departments: p.Departments,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Group, error) {
	name := strings.TrimSpace(req.Name)

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNameTaken
	}

	now := time.Now().UTC()
	group := domain.Group{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, group); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameTaken
		}
		return nil, err
	}
	return &group, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	return groups, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}
	return group, nil
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

func (s *Service) AttachDepartment(ctx context.Context, groupID, departmentID uuid.UUID) error {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrNotFound
	}

	department, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		return err
	}
	if department == nil {
		return departmentdomain.ErrNotFound
	}

	exists, err := s.repo.AssociationExists(ctx, groupID, departmentID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAssociationExists
	}

	return s.repo.InsertAssociation(ctx, domain.GroupDepartment{
		ID:           uuid.New(),
		GroupID:      groupID,
		DepartmentID: departmentID,
		CreatedAt:    time.Now().UTC(),
	})
}

func (s *Service) DepartmentIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNotFound
	}
	ids, err := s.repo.DepartmentIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
