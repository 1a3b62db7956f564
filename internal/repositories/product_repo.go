package repositories

import (
	"tienda/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(offset, limit int) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	CountByCategoryID(categoryID string) (int64, error)
}
