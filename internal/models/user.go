package models

import "gorm.io/gorm"

// Role is the authorization level assigned to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered account of the store.
// Password always holds the bcrypt hash, never the plaintext.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(20)" validate:"required,min=3,max=20"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=5"` // No json tag for security
	Role       Role   `json:"role" gorm:"type:varchar(20)" validate:"required"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Principal is the authenticated-identity view attached to a request context
// by the auth middleware. It deliberately carries no password hash, keeping
// the persistence shape out of the authentication boundary.
type Principal struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}
