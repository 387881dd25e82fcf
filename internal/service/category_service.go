package service

import (
	"context"

	"github.com/d60-Lab/waimai/internal/model"
	"github.com/d60-Lab/waimai/internal/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
	Create(ctx context.Context, name string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]*model.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, name string) error {
	return s.repo.Create(ctx, &model.Category{Name: name})
}
