package store

import (
	"context"

	"storefront-catalog-service/internal/catalog"
	"storefront-catalog-service/internal/domain"
)

// ListCategoriesParams holds parameters for reading the category snapshot.
type ListCategoriesParams struct {
	ActiveOnly bool
}

// CategoryStorer defines the database operations for categories.
type CategoryStorer interface {
	ListCategories(ctx context.Context, params ListCategoriesParams) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	// DeleteCategory soft-deletes; it is refused while the category still has
	// active products or active subcategories.
	DeleteCategory(ctx context.Context, id int64) error
}

// ProductStorer defines the database operations for products. CountProducts
// and QueryProducts are the query-engine contract (see catalog.Store): the
// same predicate value drives both, translated to SQL field by field.
type ProductStorer interface {
	CountProducts(ctx context.Context, pred catalog.Predicate) (int, error)
	QueryProducts(ctx context.Context, pred catalog.Predicate, sort []catalog.SortKey, offset, limit int) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetRelatedProducts(ctx context.Context, categoryID, excludeProductID int64, limit int) ([]domain.Product, error)
	GetFeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// DeleteProduct soft-deletes by clearing is_active.
	DeleteProduct(ctx context.Context, id int64) error
}
