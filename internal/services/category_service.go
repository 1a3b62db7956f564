package services

import (
	"errors"
	"log"

	"tienda/internal/apperrors"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/pkg/rabbitmq"
)

// CategoryService handles business logic related to categories, including
// the guard that keeps a category alive while products reference it.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	mqClient     *rabbitmq.Client // may be nil, events are best effort
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		mqClient:     mqClient,
	}
}

// ListCategories retrieves one page of categories plus the total count.
func (s *CategoryService) ListCategories(offset, limit int) ([]models.Category, int64, error) {
	categories, total, err := s.categoryRepo.List(offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return categories, total, nil
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.CategoryNotFound(id)
		}
		return nil, apperrors.Internal(err)
	}
	return category, nil
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if err := s.categoryRepo.Create(category); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// UpdateCategory renames an existing category.
func (s *CategoryService) UpdateCategory(id, name string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.CategoryNotFound(id)
		}
		return nil, apperrors.Internal(err)
	}

	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, apperrors.Internal(err)
	}
	return category, nil
}

// DeleteCategory deletes a category only if no product references it.
// Existence is checked before the dependent count so a missing category
// reports "not found" rather than "has products".
func (s *CategoryService) DeleteCategory(id string) error {
	exists, err := s.categoryRepo.ExistsByID(id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !exists {
		return apperrors.CategoryNotFound(id)
	}

	count, err := s.productRepo.CountByCategoryID(id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if count > 0 {
		return apperrors.CategoryHasProducts(id)
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return apperrors.Internal(err)
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishEvent("category.deleted", map[string]interface{}{"category_id": id}); err != nil {
			log.Printf("Warning: Failed to publish category deleted event for %s: %v", id, err)
		}
	}
	return nil
}
