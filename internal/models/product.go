package models

import "gorm.io/gorm"

// Product represents a product in the store.
// Available is always derived from Stock on create/update; callers never
// set it directly.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,min=3,max=200"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Available   bool     `json:"available"`
	CategoryID  string   `json:"category_id" gorm:"type:varchar(36);index" validate:"required"`
	Category    Category `json:"category" gorm:"foreignKey:CategoryID"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
