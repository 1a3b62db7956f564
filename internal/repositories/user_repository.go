package repositories

import (
	"errors"

	"tienda/internal/models"
)

// ErrNotFound is returned by every repository when the requested record does
// not exist, so services can tell "missing" apart from a store failure.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateName is returned by user Create when the unique-name guard
// trips at the store level.
var ErrDuplicateName = errors.New("name already taken")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	FindByName(name string) (*models.User, error)
	ExistsByName(name string) (bool, error)
	FindByID(id string) (*models.User, error)
}
