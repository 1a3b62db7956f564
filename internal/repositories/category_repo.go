package repositories

import (
	"tienda/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(offset, limit int) ([]models.Category, int64, error)
	GetByID(id string) (*models.Category, error)
	ExistsByID(id string) (bool, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}
