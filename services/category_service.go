package services

import (
	"context"

	"sorveteria-service/models"
	"sorveteria-service/repository"

	"go.uber.org/zap"
)

// CategoryService exposes the navigation category list.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
}

type categoryServiceImpl struct {
	repo   repository.CategoryRepository
	logger *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{repo: repo, logger: logger}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: err.Error()}
	}
	return categories, nil
}
