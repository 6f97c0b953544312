package domain

import (
	"time"
)

// Category represents one node of the storefront category hierarchy as stored.
// ParentID is nil for a root category. Inactive categories are soft-deleted:
// they stay in the table but must never surface in any read path.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // URL-safe, unique across all categories
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product represents a storefront product. Brand and the descriptive pointer
// fields are nullable in the database. Soft-deleted products carry
// IsActive=false and are excluded from every storefront query.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // URL-safe, unique across all products
	Description *string   `json:"description,omitempty"`
	SKU         string    `json:"sku"`
	Price       float64   `json:"price"`
	Brand       *string   `json:"brand,omitempty"`
	Rating      float64   `json:"rating"` // aggregate review rating in [0,5]
	ReviewCount int32     `json:"review_count"`
	Stock       int32     `json:"stock"`
	CategoryID  int64     `json:"category_id"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
