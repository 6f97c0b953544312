package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"storefront-catalog-service/internal/catalog"
	"storefront-catalog-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrCategoryNotFound    = errors.New("store: category not found")
	ErrCategorySlugExists  = errors.New("store: category slug already exists")
	ErrCategoryHasProducts = errors.New("store: category still has active products")
	ErrCategoryHasChildren = errors.New("store: category still has active subcategories")
	ErrProductNotFound     = errors.New("store: product not found")
	ErrProductSlugExists   = errors.New("store: product slug already exists")
	ErrProductSKUExists    = errors.New("store: product SKU already exists")
)

// PostgresStore implements the CategoryStorer and ProductStorer interfaces
// using PostgreSQL. Free-text search is delegated to the database: products
// carry a search_vector tsvector column, matches come from plainto_tsquery
// and relevance from ts_rank.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const categoryColumns = "id, name, slug, description, image_url, parent_id, is_active, sort_order, created_at, updated_at"

const productColumns = "id, name, slug, description, sku, price, brand, rating, review_count, stock, category_id, image_url, is_featured, is_active, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCategory(row rowScanner, c *domain.Category) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL,
		&c.ParentID, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
}

func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.SKU, &p.Price,
		&p.Brand, &p.Rating, &p.ReviewCount, &p.Stock, &p.CategoryID,
		&p.ImageURL, &p.IsFeatured, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
}

// --- CategoryStorer Implementation ---

func (s *PostgresStore) ListCategories(ctx context.Context, params ListCategoriesParams) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM storefront.categories`
	if params.ActiveOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM storefront.categories WHERE slug = $1 AND is_active = TRUE;`

	var category domain.Category
	if err := scanCategory(s.db.QueryRowContext(ctx, query, slug), &category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategoryBySlug failed to scan row: %w", err)
	}
	return &category, nil
}

func (s *PostgresStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO storefront.categories (name, slug, description, image_url, parent_id, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns + `;`

	row := s.db.QueryRowContext(ctx, query,
		category.Name, category.Slug, category.Description, category.ImageURL,
		category.ParentID, category.IsActive, category.SortOrder,
	)

	var created domain.Category
	if err := scanCategory(row, &created); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "categories_slug_key") || strings.Contains(pqErr.Detail, "Key (slug)") {
				return nil, ErrCategorySlugExists
			}
		}
		return nil, fmt.Errorf("store: CreateCategory failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE storefront.categories
		SET name = $1, slug = $2, description = $3, image_url = $4, parent_id = $5,
			is_active = $6, sort_order = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + categoryColumns + `;`

	row := s.db.QueryRowContext(ctx, query,
		category.Name, category.Slug, category.Description, category.ImageURL,
		category.ParentID, category.IsActive, category.SortOrder, category.ID,
	)

	var updated domain.Category
	if err := scanCategory(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "categories_slug_key") || strings.Contains(pqErr.Detail, "Key (slug)") {
				return nil, ErrCategorySlugExists
			}
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to scan row: %w", err)
	}
	return &updated, nil
}

// DeleteCategory soft-deletes a category. Mirrors the storefront's admin
// rules: a category that still has active products or active subcategories
// cannot be removed.
func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	var productCount int
	countProductsQuery := `SELECT COUNT(*) FROM storefront.products WHERE category_id = $1 AND is_active = TRUE;`
	if err := s.db.QueryRowContext(ctx, countProductsQuery, id).Scan(&productCount); err != nil {
		return fmt.Errorf("store: DeleteCategory failed to count products: %w", err)
	}
	if productCount > 0 {
		return ErrCategoryHasProducts
	}

	var childCount int
	countChildrenQuery := `SELECT COUNT(*) FROM storefront.categories WHERE parent_id = $1 AND is_active = TRUE;`
	if err := s.db.QueryRowContext(ctx, countChildrenQuery, id).Scan(&childCount); err != nil {
		return fmt.Errorf("store: DeleteCategory failed to count subcategories: %w", err)
	}
	if childCount > 0 {
		return ErrCategoryHasChildren
	}

	query := `UPDATE storefront.categories SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// --- ProductStorer Implementation ---

// buildProductWhere translates an opaque predicate into a WHERE clause with
// positional args. It returns the next free placeholder index and the index
// holding the text-search query, which the ORDER BY reuses for ts_rank so the
// ranked expression and the match condition always agree.
func buildProductWhere(pred catalog.Predicate) (where string, args []interface{}, nextArg, searchArg int, err error) {
	var clauses []string
	argID := 1

	for _, c := range pred.Conditions {
		switch {
		case c.Field == catalog.FieldIsActive && c.Op == catalog.OpEq:
			clauses = append(clauses, fmt.Sprintf("is_active = $%d", argID))
			args = append(args, c.Value)
		case c.Field == catalog.FieldCategoryID && c.Op == catalog.OpIn:
			ids, ok := c.Value.([]int64)
			if !ok {
				return "", nil, 0, 0, fmt.Errorf("store: category_id IN condition expects []int64, got %T", c.Value)
			}
			clauses = append(clauses, fmt.Sprintf("category_id = ANY($%d)", argID))
			args = append(args, pq.Array(ids))
		case c.Field == catalog.FieldPrice && c.Op == catalog.OpGte:
			clauses = append(clauses, fmt.Sprintf("price >= $%d", argID))
			args = append(args, c.Value)
		case c.Field == catalog.FieldPrice && c.Op == catalog.OpLte:
			clauses = append(clauses, fmt.Sprintf("price <= $%d", argID))
			args = append(args, c.Value)
		case c.Field == catalog.FieldBrand && c.Op == catalog.OpIn:
			brands, ok := c.Value.([]string)
			if !ok {
				return "", nil, 0, 0, fmt.Errorf("store: brand IN condition expects []string, got %T", c.Value)
			}
			clauses = append(clauses, fmt.Sprintf("brand = ANY($%d)", argID))
			args = append(args, pq.Array(brands))
		case c.Field == catalog.FieldRating && c.Op == catalog.OpGte:
			clauses = append(clauses, fmt.Sprintf("rating >= $%d", argID))
			args = append(args, c.Value)
		case c.Field == catalog.FieldStock && c.Op == catalog.OpGt:
			clauses = append(clauses, fmt.Sprintf("stock > $%d", argID))
			args = append(args, c.Value)
		case c.Field == catalog.FieldTextQuery && c.Op == catalog.OpMatches:
			clauses = append(clauses, fmt.Sprintf("search_vector @@ plainto_tsquery('english', $%d)", argID))
			args = append(args, c.Value)
			searchArg = argID
		default:
			return "", nil, 0, 0, fmt.Errorf("store: unsupported predicate condition %s %s", c.Field, c.Op)
		}
		argID++
	}

	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return where, args, argID, searchArg, nil
}

func buildProductOrderBy(sort []catalog.SortKey, searchArg int) (string, error) {
	if len(sort) == 0 {
		return "id ASC", nil
	}

	terms := make([]string, 0, len(sort))
	for _, key := range sort {
		var expr string
		switch key.Field {
		case catalog.FieldName:
			expr = "name"
		case catalog.FieldPrice:
			expr = "price"
		case catalog.FieldRating:
			expr = "rating"
		case catalog.FieldCreatedAt:
			expr = "created_at"
		case catalog.FieldID:
			expr = "id"
		case catalog.FieldRelevance:
			if searchArg == 0 {
				return "", errors.New("store: relevance ordering requires a text match condition")
			}
			expr = fmt.Sprintf("ts_rank(search_vector, plainto_tsquery('english', $%d))", searchArg)
		default:
			return "", fmt.Errorf("store: unsupported sort field %s", key.Field)
		}
		dir := "ASC"
		if key.Descending {
			dir = "DESC"
		}
		terms = append(terms, expr+" "+dir)
	}
	return strings.Join(terms, ", "), nil
}

func (s *PostgresStore) CountProducts(ctx context.Context, pred catalog.Predicate) (int, error) {
	where, args, _, _, err := buildProductWhere(pred)
	if err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM storefront.products" + where
	var totalCount int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&totalCount); err != nil {
		return 0, fmt.Errorf("store: CountProducts failed to count products: %w", err)
	}
	return totalCount, nil
}

func (s *PostgresStore) QueryProducts(ctx context.Context, pred catalog.Predicate, sort []catalog.SortKey, offset, limit int) ([]domain.Product, error) {
	where, args, argID, searchArg, err := buildProductWhere(pred)
	if err != nil {
		return nil, err
	}
	orderBy, err := buildProductOrderBy(sort, searchArg)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM storefront.products%s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, orderBy, argID, argID+1)
	finalArgs := append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, finalArgs...)
	if err != nil {
		return nil, fmt.Errorf("store: QueryProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("store: QueryProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: QueryProducts iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM storefront.products WHERE slug = $1 AND is_active = TRUE;`

	var product domain.Product
	if err := scanProduct(s.db.QueryRowContext(ctx, query, slug), &product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductBySlug failed to scan row: %w", err)
	}
	return &product, nil
}

func (s *PostgresStore) GetRelatedProducts(ctx context.Context, categoryID, excludeProductID int64, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return []domain.Product{}, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM storefront.products
		WHERE category_id = $1 AND id <> $2 AND is_active = TRUE
		ORDER BY rating DESC, id ASC
		LIMIT $3;`

	rows, err := s.db.QueryContext(ctx, query, categoryID, excludeProductID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: GetRelatedProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("store: GetRelatedProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetRelatedProducts iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) GetFeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return []domain.Product{}, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM storefront.products
		WHERE is_featured = TRUE AND is_active = TRUE
		ORDER BY created_at DESC, id ASC
		LIMIT $1;`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: GetFeaturedProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("store: GetFeaturedProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetFeaturedProducts iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO storefront.products
			(name, slug, description, sku, price, brand, rating, review_count, stock, category_id, image_url, is_featured, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + productColumns + `;`

	row := s.db.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.Description, product.SKU, product.Price,
		product.Brand, product.Rating, product.ReviewCount, product.Stock,
		product.CategoryID, product.ImageURL, product.IsFeatured, product.IsActive,
	)

	var created domain.Product
	if err := scanProduct(row, &created); err != nil {
		if mapped := mapProductUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE storefront.products
		SET name = $1, slug = $2, description = $3, sku = $4, price = $5, brand = $6,
			rating = $7, review_count = $8, stock = $9, category_id = $10, image_url = $11,
			is_featured = $12, is_active = $13, updated_at = CURRENT_TIMESTAMP
		WHERE id = $14
		RETURNING ` + productColumns + `;`

	row := s.db.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.Description, product.SKU, product.Price,
		product.Brand, product.Rating, product.ReviewCount, product.Stock,
		product.CategoryID, product.ImageURL, product.IsFeatured, product.IsActive,
		product.ID,
	)

	var updated domain.Product
	if err := scanProduct(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if mapped := mapProductUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return &updated, nil
}

func mapProductUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pqErr.Constraint, "products_slug_key") || strings.Contains(pqErr.Detail, "Key (slug)") {
		return ErrProductSlugExists
	}
	if strings.Contains(pqErr.Constraint, "products_sku_key") || strings.Contains(pqErr.Detail, "Key (sku)") {
		return ErrProductSKUExists
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	query := `UPDATE storefront.products SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		log.Println("INFO: Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database connection pool: %v", err)
			return err
		}
		log.Println("INFO: Database connection pool closed.")
	}
	return nil
}
