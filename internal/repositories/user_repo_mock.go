package repositories

import (
	"sync"

	"tienda/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository,
// used when the app runs without a database and in tests. The write lock
// makes the exists-then-create sequence atomic, which a real store only
// guarantees through its unique index on name.
type MockUserRepository struct {
	users map[string]models.User // keyed by name
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user, rejecting duplicate names.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Name]; ok {
		return ErrDuplicateName
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.Name] = *user
	return nil
}

// FindByName returns a user by their unique name.
func (r *MockUserRepository) FindByName(name string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// ExistsByName reports whether a user with the given name exists.
func (r *MockUserRepository) ExistsByName(name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[name]
	return ok, nil
}

// FindByID returns a user by their ID.
func (r *MockUserRepository) FindByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}
