package service

import (
	"context"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/repository"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{Name: req.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name}, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID.String(), Name: c.Name})
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	c.Name = req.Name
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name}, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(ctx, id)
}
