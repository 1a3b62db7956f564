package services

import (
	"errors"
	"log"

	"tienda/internal/apperrors"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/pkg/rabbitmq"
)

// ProductInput carries the caller-supplied fields of a product. Availability
// is deliberately absent: it is derived from stock, never accepted.
type ProductInput struct {
	Name        string
	Stock       int
	Price       float64
	Description string
	CategoryID  string
}

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	mqClient     *rabbitmq.Client // may be nil, events are best effort
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		mqClient:     mqClient,
	}
}

// ListProducts retrieves one page of products plus the total count.
func (s *ProductService) ListProducts(offset, limit int) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.List(offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return products, total, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ProductNotFound(id)
		}
		return nil, apperrors.Internal(err)
	}
	return product, nil
}

// CreateProduct creates a new product in an existing category. Availability
// is recomputed from stock.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	category, err := s.resolveCategory(input.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Stock:       input.Stock,
		Price:       input.Price,
		Description: input.Description,
		Available:   input.Stock > 0,
		CategoryID:  category.ID,
		Category:    *category,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// UpdateProduct replaces the caller-supplied fields of an existing product.
// Availability is recomputed from the new stock.
func (s *ProductService) UpdateProduct(id string, input ProductInput) (*models.Product, error) {
	category, err := s.resolveCategory(input.CategoryID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ProductNotFound(id)
		}
		return nil, apperrors.Internal(err)
	}

	product.Name = input.Name
	product.Stock = input.Stock
	product.Price = input.Price
	product.Description = input.Description
	product.Available = input.Stock > 0
	product.CategoryID = category.ID
	product.Category = *category

	if err := s.productRepo.Update(product); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.publishEvent("product.updated", product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ProductNotFound(id)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *ProductService) resolveCategory(id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.CategoryNotFound(id)
		}
		return nil, apperrors.Internal(err)
	}
	return category, nil
}

func (s *ProductService) publishEvent(eventType string, product *models.Product) {
	if s.mqClient == nil {
		return
	}
	event := map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"stock":      product.Stock,
		"available":  product.Available,
	}
	if err := s.mqClient.PublishEvent(eventType, event); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", eventType, product.ID, err)
	}
}
