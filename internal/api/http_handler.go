package api

import (
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"storefront-catalog-service/internal/catalog"
	"storefront-catalog-service/internal/domain"
	"storefront-catalog-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Options controls listing behavior sourced from configuration.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	FeaturedLimit   int
	RelatedLimit    int
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	categoryStore store.CategoryStorer
	productStore  store.ProductStorer
	validate      *validator.Validate
	opts          Options
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(cs store.CategoryStorer, ps store.ProductStorer, opts Options) *HTTPHandler {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.FeaturedLimit <= 0 {
		opts.FeaturedLimit = 8
	}
	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = 4
	}
	return &HTTPHandler{
		categoryStore: cs,
		productStore:  ps,
		validate:      validator.New(),
		opts:          opts,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Pagination matches the envelope the storefront frontend consumes.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: Failed to encode JSON response: %v", err)
			http.Error(w, `{"error": "Internal server error during JSON encoding"}`, http.StatusInternalServerError)
		}
	}
}

// parsePageParams reads page/limit with defaults and the configured cap.
// Malformed or out-of-range values clamp rather than fail; pagination bounds
// are preferences, not correctness inputs.
func (h *HTTPHandler) parsePageParams(r *http.Request) (page, limit int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = h.opts.DefaultPageSize
	}
	if limit > h.opts.MaxPageSize {
		limit = h.opts.MaxPageSize
	}
	page, err = strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	return page, limit
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

const skuCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateSKU(name string) string {
	code := strings.ToUpper(slugify(name))
	if len(code) > 3 {
		code = code[:3]
	}
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = skuCharset[rand.Intn(len(skuCharset))]
	}
	return code + "-" + string(suffix)
}

// --- Category Handlers ---

// GetCategories returns the active category forest by default, or the flat
// ordered snapshot when ?flat=true is passed.
func (h *HTTPHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.categoryStore.ListCategories(r.Context(), store.ListCategoriesParams{ActiveOnly: true})
	if err != nil {
		log.Printf("ERROR: GetCategories store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	if r.URL.Query().Get("flat") == "true" {
		respondWithJSON(w, http.StatusOK, snapshot)
		return
	}
	respondWithJSON(w, http.StatusOK, catalog.BuildTree(snapshot))
}

// GetCategoryBySlug returns a category, its direct active children and a
// first page of its products.
func (h *HTTPHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.categoryStore.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else {
			log.Printf("ERROR: GetCategoryBySlug store operation for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
		}
		return
	}

	snapshot, err := h.categoryStore.ListCategories(r.Context(), store.ListCategoriesParams{ActiveOnly: true})
	if err != nil {
		log.Printf("ERROR: GetCategoryBySlug snapshot read failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
		return
	}
	children := make([]domain.Category, 0)
	for _, c := range snapshot {
		if c.ParentID != nil && *c.ParentID == category.ID && c.ID != category.ID {
			children = append(children, c)
		}
	}

	plan := catalog.BuildQueryPlan(catalog.FilterSpec{
		CategoryIDs: []int64{category.ID},
		Page:        1,
		PageSize:    12,
	})
	result, err := catalog.ExecuteQuery(r.Context(), h.productStore, plan)
	if err != nil {
		log.Printf("ERROR: GetCategoryBySlug product query failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category products")
		return
	}

	respondWithJSON(w, http.StatusOK, struct {
		domain.Category
		Children []domain.Category `json:"children"`
		Products []domain.Product  `json:"products"`
	}{
		Category: *category,
		Children: children,
		Products: result.Items,
	})
}

// ListCategoryProducts returns the paginated products of a category and all
// of its active descendants, so browsing a parent includes subcategory stock.
func (h *HTTPHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.categoryStore.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else {
			log.Printf("ERROR: ListCategoryProducts category lookup for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
		}
		return
	}

	snapshot, err := h.categoryStore.ListCategories(r.Context(), store.ListCategoriesParams{ActiveOnly: true})
	if err != nil {
		log.Printf("ERROR: ListCategoryProducts snapshot read failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	page, limit := h.parsePageParams(r)
	spec := catalog.FilterSpec{
		CategoryIDs: catalog.ResolveCategoryScope(category.ID, snapshot),
		SortPolicy:  catalog.ParseSortPolicy(r.URL.Query().Get("sort_by")),
		Page:        page,
		PageSize:    limit,
	}

	result, err := catalog.ExecuteQuery(r.Context(), h.productStore, catalog.BuildQueryPlan(spec))
	if err != nil {
		log.Printf("ERROR: ListCategoryProducts query failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respondWithJSON(w, http.StatusOK, struct {
		Data       []domain.Product `json:"data"`
		Category   *domain.Category `json:"category"`
		Pagination Pagination       `json:"pagination"`
	}{
		Data:     result.Items,
		Category: category,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: result.TotalCount,
			TotalPages: result.PageCount,
		},
	})
}

// CategoryInput defines the expected input for creating or updating a category.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=2048"`
	ParentID    *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   int     `json:"sort_order"`
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if input.Slug == "" {
		input.Slug = slugify(input.Name)
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	category := &domain.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ParentID:    input.ParentID,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}

	created, err := h.categoryStore.CreateCategory(r.Context(), category)
	if err != nil {
		log.Printf("ERROR: CreateCategory store operation failed: %v", err)
		if errors.Is(err, store.ErrCategorySlugExists) {
			respondWithError(w, http.StatusConflict, store.ErrCategorySlugExists.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.categoryStore.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else {
			log.Printf("ERROR: UpdateCategory lookup for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Error checking category existence")
		}
		return
	}

	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	// Business rule: a category cannot be its own parent.
	if input.ParentID != nil && *input.ParentID == existing.ID {
		respondWithError(w, http.StatusBadRequest, "Category cannot be its own parent")
		return
	}

	if input.Slug == "" {
		input.Slug = existing.Slug
	}
	isActive := existing.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	category := &domain.Category{
		ID:          existing.ID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ParentID:    input.ParentID,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}

	updated, err := h.categoryStore.UpdateCategory(r.Context(), category)
	if err != nil {
		log.Printf("ERROR: UpdateCategory store operation for ID %d failed: %v", existing.ID, err)
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else if errors.Is(err, store.ErrCategorySlugExists) {
			respondWithError(w, http.StatusConflict, store.ErrCategorySlugExists.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.categoryStore.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else {
			log.Printf("ERROR: DeleteCategory lookup for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Error checking category existence")
		}
		return
	}

	if err := h.categoryStore.DeleteCategory(r.Context(), existing.ID); err != nil {
		log.Printf("ERROR: DeleteCategory store operation for ID %d failed: %v", existing.ID, err)
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		case errors.Is(err, store.ErrCategoryHasProducts):
			respondWithError(w, http.StatusConflict, store.ErrCategoryHasProducts.Error())
		case errors.Is(err, store.ErrCategoryHasChildren):
			respondWithError(w, http.StatusConflict, store.ErrCategoryHasChildren.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Product Handlers ---

// ListProducts is the full storefront filter surface: category scoping,
// price/brand/rating/stock filters, text search, sort policy, pagination.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()
	page, limit := h.parsePageParams(r)

	spec := catalog.FilterSpec{
		SearchText: qParams.Get("q"),
		SortPolicy: catalog.ParseSortPolicy(qParams.Get("sort_by")),
		Page:       page,
		PageSize:   limit,
	}

	if slug := qParams.Get("category"); slug != "" {
		category, err := h.categoryStore.GetCategoryBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
			} else {
				log.Printf("ERROR: ListProducts category lookup for %q failed: %v", slug, err)
				respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
			}
			return
		}
		snapshot, err := h.categoryStore.ListCategories(r.Context(), store.ListCategoriesParams{ActiveOnly: true})
		if err != nil {
			log.Printf("ERROR: ListProducts snapshot read failed: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
			return
		}
		spec.CategoryIDs = catalog.ResolveCategoryScope(category.ID, snapshot)
	}

	if priceStr := qParams.Get("min_price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid min_price format")
			return
		}
		spec.PriceMin = &price
	}
	if priceStr := qParams.Get("max_price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid max_price format")
			return
		}
		spec.PriceMax = &price
	}
	if spec.PriceMin != nil && spec.PriceMax != nil && *spec.PriceMin > *spec.PriceMax {
		respondWithError(w, http.StatusBadRequest, "min_price cannot exceed max_price")
		return
	}
	if brandStr := qParams.Get("brand"); brandStr != "" {
		spec.Brands = strings.Split(brandStr, ",")
	}
	if ratingStr := qParams.Get("min_rating"); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil || rating < 0 || rating > 5 {
			respondWithError(w, http.StatusBadRequest, "Invalid min_rating value: must be 0-5")
			return
		}
		spec.MinRating = &rating
	}
	if stockStr := qParams.Get("in_stock"); stockStr != "" {
		b, err := strconv.ParseBool(stockStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid in_stock value: must be true or false")
			return
		}
		spec.InStockOnly = b
	}

	result, err := catalog.ExecuteQuery(r.Context(), h.productStore, catalog.BuildQueryPlan(spec))
	if err != nil {
		log.Printf("ERROR: ListProducts query failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respondWithJSON(w, http.StatusOK, struct {
		Data       []domain.Product `json:"data"`
		Pagination Pagination       `json:"pagination"`
	}{
		Data: result.Items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: result.TotalCount,
			TotalPages: result.PageCount,
		},
	})
}

// SearchProducts runs a dedicated text search; relevance is the primary sort
// and the requested policy only breaks ties.
func (h *HTTPHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondWithError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	page, limit := h.parsePageParams(r)
	spec := catalog.FilterSpec{
		SearchText: q,
		SortPolicy: catalog.ParseSortPolicy(r.URL.Query().Get("sort_by")),
		Page:       page,
		PageSize:   limit,
	}

	result, err := catalog.ExecuteQuery(r.Context(), h.productStore, catalog.BuildQueryPlan(spec))
	if err != nil {
		log.Printf("ERROR: SearchProducts query failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	respondWithJSON(w, http.StatusOK, struct {
		Data       []domain.Product `json:"data"`
		Query      string           `json:"query"`
		Pagination Pagination       `json:"pagination"`
	}{
		Data:  result.Items,
		Query: q,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: result.TotalCount,
			TotalPages: result.PageCount,
		},
	})
}

func (h *HTTPHandler) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = h.opts.FeaturedLimit
	}
	if limit > 20 {
		limit = 20
	}

	featured, err := h.productStore.GetFeaturedProducts(r.Context(), limit)
	if err != nil {
		log.Printf("ERROR: GetFeaturedProducts store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch featured products")
		return
	}
	if featured == nil {
		featured = []domain.Product{}
	}

	respondWithJSON(w, http.StatusOK, featured)
}

func (h *HTTPHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.productStore.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			log.Printf("ERROR: GetProductBySlug store operation for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		}
		return
	}

	related, err := h.productStore.GetRelatedProducts(r.Context(), product.CategoryID, product.ID, h.opts.RelatedLimit)
	if err != nil {
		log.Printf("ERROR: GetProductBySlug related lookup failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve related products")
		return
	}
	if related == nil {
		related = []domain.Product{}
	}

	respondWithJSON(w, http.StatusOK, struct {
		domain.Product
		RelatedProducts []domain.Product `json:"related_products"`
	}{
		Product:         *product,
		RelatedProducts: related,
	})
}

// ProductInput defines the expected input for creating or updating a product.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SKU         string  `json:"sku" validate:"omitempty,max=100"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Brand       *string `json:"brand" validate:"omitempty,max=100"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int32   `json:"review_count" validate:"gte=0"`
	Stock       int32   `json:"stock" validate:"gte=0"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=2048"`
	IsFeatured  bool    `json:"is_featured"`
	IsActive    *bool   `json:"is_active"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if input.Slug == "" {
		input.Slug = slugify(input.Name)
	}
	if input.SKU == "" {
		input.SKU = generateSKU(input.Name)
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &domain.Product{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		SKU:         input.SKU,
		Price:       input.Price,
		Brand:       input.Brand,
		Rating:      input.Rating,
		ReviewCount: input.ReviewCount,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		IsFeatured:  input.IsFeatured,
		IsActive:    isActive,
	}

	created, err := h.productStore.CreateProduct(r.Context(), product)
	if err != nil {
		log.Printf("ERROR: CreateProduct store operation failed: %v", err)
		switch {
		case errors.Is(err, store.ErrProductSlugExists):
			respondWithError(w, http.StatusConflict, store.ErrProductSlugExists.Error())
		case errors.Is(err, store.ErrProductSKUExists):
			respondWithError(w, http.StatusConflict, store.ErrProductSKUExists.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.productStore.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			log.Printf("ERROR: UpdateProduct lookup for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Error checking product existence")
		}
		return
	}

	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if input.Slug == "" {
		input.Slug = existing.Slug
	}
	if input.SKU == "" {
		input.SKU = existing.SKU
	}
	isActive := existing.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &domain.Product{
		ID:          existing.ID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		SKU:         input.SKU,
		Price:       input.Price,
		Brand:       input.Brand,
		Rating:      input.Rating,
		ReviewCount: input.ReviewCount,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		IsFeatured:  input.IsFeatured,
		IsActive:    isActive,
	}

	updated, err := h.productStore.UpdateProduct(r.Context(), product)
	if err != nil {
		log.Printf("ERROR: UpdateProduct store operation for ID %d failed: %v", existing.ID, err)
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		case errors.Is(err, store.ErrProductSlugExists):
			respondWithError(w, http.StatusConflict, store.ErrProductSlugExists.Error())
		case errors.Is(err, store.ErrProductSKUExists):
			respondWithError(w, http.StatusConflict, store.ErrProductSKUExists.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := h.productStore.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			log.Printf("ERROR: DeleteProduct lookup for %q failed: %v", slug, err)
			respondWithError(w, http.StatusInternalServerError, "Error checking product existence")
		}
		return
	}

	if err := h.productStore.DeleteProduct(r.Context(), existing.ID); err != nil {
		log.Printf("ERROR: DeleteProduct store operation for ID %d failed: %v", existing.ID, err)
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", h.GetCategories)    // GET /api/v1/categories[?flat=true]
		r.Post("/", h.CreateCategory)  // POST /api/v1/categories
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.GetCategoryBySlug)          // GET /api/v1/categories/{slug}
			r.Get("/products", h.ListCategoryProducts) // GET /api/v1/categories/{slug}/products
			r.Put("/", h.UpdateCategory)             // PUT /api/v1/categories/{slug}
			r.Delete("/", h.DeleteCategory)          // DELETE /api/v1/categories/{slug}
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)   // GET /api/v1/products
		r.Post("/", h.CreateProduct) // POST /api/v1/products
		// Fixed paths must come before the {slug} route so "search" and
		// "featured" are not treated as slugs.
		r.Get("/search", h.SearchProducts)
		r.Get("/featured", h.GetFeaturedProducts)

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.GetProductBySlug) // GET /api/v1/products/{slug}
			r.Put("/", h.UpdateProduct)    // PUT /api/v1/products/{slug}
			r.Delete("/", h.DeleteProduct) // DELETE /api/v1/products/{slug}
		})
	})
}
