package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-catalog-service/internal/catalog"
	"storefront-catalog-service/internal/domain"
	"storefront-catalog-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryStorer is a mock implementation of store.CategoryStorer
type MockCategoryStorer struct {
	mock.Mock
}

func (m *MockCategoryStorer) ListCategories(ctx context.Context, params store.ListCategoriesParams) ([]domain.Category, error) {
	args := m.Called(ctx, params)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryStorer) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductStorer is a mock implementation of store.ProductStorer
type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) CountProducts(ctx context.Context, pred catalog.Predicate) (int, error) {
	args := m.Called(ctx, pred)
	return args.Int(0), args.Error(1)
}

func (m *MockProductStorer) QueryProducts(ctx context.Context, pred catalog.Predicate, sort []catalog.SortKey, offset, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, pred, sort, offset, limit)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStorer) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) GetRelatedProducts(ctx context.Context, categoryID, excludeProductID int64, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID, excludeProductID, limit)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStorer) GetFeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Helper for setting up tests with a chi router and handler
func setupTestChiServer(t *testing.T, cs store.CategoryStorer, ps store.ProductStorer) *httptest.Server {
	handler := NewHTTPHandler(cs, ps, Options{})
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return httptest.NewServer(router)
}

// Helper function to get a pointer (useful for optional fields in domain structs)
func PtrTo[T any](v T) *T {
	return &v
}

// findCondition looks up a predicate condition by field, for MatchedBy checks.
func findCondition(pred catalog.Predicate, field catalog.Field) (catalog.Condition, bool) {
	for _, c := range pred.Conditions {
		if c.Field == field {
			return c, true
		}
	}
	return catalog.Condition{}, false
}

type productPageResponse struct {
	Data       []domain.Product `json:"data"`
	Category   *domain.Category `json:"category"`
	Query      string           `json:"query"`
	Pagination Pagination       `json:"pagination"`
}

func TestHTTPHandler_GetCategories_Tree(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	server := setupTestChiServer(t, mockCatStore, nil)
	defer server.Close()

	snapshot := []domain.Category{
		{ID: 1, Name: "Electronics", Slug: "electronics", IsActive: true},
		{ID: 2, Name: "Laptops", Slug: "laptops", ParentID: PtrTo(int64(1)), IsActive: true},
		{ID: 3, Name: "Furniture", Slug: "furniture", IsActive: true, SortOrder: 1},
	}
	mockCatStore.On("ListCategories", mock.Anything, store.ListCategoriesParams{ActiveOnly: true}).
		Return(snapshot, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/categories")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var roots []*catalog.CategoryNode
	require.NoError(t, json.NewDecoder(res.Body).Decode(&roots))

	require.Len(t, roots, 2)
	assert.Equal(t, "Electronics", roots[0].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Laptops", roots[0].Children[0].Name)
	assert.Equal(t, "Furniture", roots[1].Name)
	assert.Empty(t, roots[1].Children)

	mockCatStore.AssertExpectations(t)
}

func TestHTTPHandler_GetCategories_Flat(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	server := setupTestChiServer(t, mockCatStore, nil)
	defer server.Close()

	snapshot := []domain.Category{
		{ID: 1, Name: "Electronics", Slug: "electronics", IsActive: true},
		{ID: 2, Name: "Laptops", Slug: "laptops", ParentID: PtrTo(int64(1)), IsActive: true},
	}
	mockCatStore.On("ListCategories", mock.Anything, store.ListCategoriesParams{ActiveOnly: true}).
		Return(snapshot, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/categories?flat=true")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var flat []domain.Category
	require.NoError(t, json.NewDecoder(res.Body).Decode(&flat))
	require.Len(t, flat, 2)
	assert.Equal(t, "Electronics", flat[0].Name)

	mockCatStore.AssertExpectations(t)
}

func TestHTTPHandler_ListProducts_Success(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	products := []domain.Product{
		{ID: 1, Name: "Desk Lamp", Slug: "desk-lamp", Price: 30, IsActive: true},
		{ID: 2, Name: "Floor Lamp", Slug: "floor-lamp", Price: 45, IsActive: true},
	}

	predCheck := mock.MatchedBy(func(pred catalog.Predicate) bool {
		minCond, hasMin := findCondition(pred, catalog.FieldPrice)
		_, hasBrand := findCondition(pred, catalog.FieldBrand)
		return hasMin && minCond.Op == catalog.OpGte && minCond.Value == 10.0 &&
			hasBrand
	})

	mockProdStore.On("CountProducts", mock.Anything, predCheck).Return(5, nil).Once()
	mockProdStore.On("QueryProducts", mock.Anything, predCheck, mock.Anything, 0, 2).
		Return(products, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/products?min_price=10&brand=Ikea,Philips&limit=2&sort_by=price-low")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body productPageResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Desk Lamp", body.Data[0].Name)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 2, body.Pagination.Limit)
	assert.Equal(t, 5, body.Pagination.TotalItems)
	assert.Equal(t, 3, body.Pagination.TotalPages)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_ListProducts_InvalidMinPrice(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	res, err := http.Get(server.URL + "/api/v1/products?min_price=abc")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockProdStore.AssertNotCalled(t, "CountProducts", mock.Anything, mock.Anything)
}

func TestHTTPHandler_ListProducts_MinPriceExceedsMax(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	res, err := http.Get(server.URL + "/api/v1/products?min_price=50&max_price=10")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockProdStore.AssertNotCalled(t, "CountProducts", mock.Anything, mock.Anything)
}

func TestHTTPHandler_ListProducts_PageBeyondEnd(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	mockProdStore.On("CountProducts", mock.Anything, mock.Anything).Return(3, nil).Once()
	mockProdStore.On("QueryProducts", mock.Anything, mock.Anything, mock.Anything, 980, 10).
		Return([]domain.Product{}, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/products?page=99&limit=10")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body productPageResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)
	assert.Equal(t, 3, body.Pagination.TotalItems)
	assert.Equal(t, 1, body.Pagination.TotalPages)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_ListCategoryProducts_ScopesToDescendants(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, mockCatStore, mockProdStore)
	defer server.Close()

	electronics := &domain.Category{ID: 1, Name: "Electronics", Slug: "electronics", IsActive: true}
	snapshot := []domain.Category{
		*electronics,
		{ID: 2, Name: "Laptops", Slug: "laptops", ParentID: PtrTo(int64(1)), IsActive: true},
		{ID: 3, Name: "Furniture", Slug: "furniture", IsActive: true},
	}

	mockCatStore.On("GetCategoryBySlug", mock.Anything, "electronics").Return(electronics, nil).Once()
	mockCatStore.On("ListCategories", mock.Anything, store.ListCategoriesParams{ActiveOnly: true}).
		Return(snapshot, nil).Once()

	// The query must cover the category and its descendants, not just the
	// category itself.
	scopeCheck := mock.MatchedBy(func(pred catalog.Predicate) bool {
		cond, ok := findCondition(pred, catalog.FieldCategoryID)
		if !ok || cond.Op != catalog.OpIn {
			return false
		}
		ids, ok := cond.Value.([]int64)
		if !ok || len(ids) != 2 {
			return false
		}
		seen := map[int64]bool{}
		for _, id := range ids {
			seen[id] = true
		}
		return seen[1] && seen[2]
	})

	mockProdStore.On("CountProducts", mock.Anything, scopeCheck).Return(1, nil).Once()
	mockProdStore.On("QueryProducts", mock.Anything, scopeCheck, mock.Anything, 0, 20).
		Return([]domain.Product{{ID: 7, Name: "Laptop Pro", Slug: "laptop-pro", CategoryID: 2, IsActive: true}}, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/categories/electronics/products")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body productPageResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Laptop Pro", body.Data[0].Name)
	require.NotNil(t, body.Category)
	assert.Equal(t, "Electronics", body.Category.Name)

	mockCatStore.AssertExpectations(t)
	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_ListCategoryProducts_CategoryNotFound(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, mockCatStore, mockProdStore)
	defer server.Close()

	mockCatStore.On("GetCategoryBySlug", mock.Anything, "nope").
		Return(nil, store.ErrCategoryNotFound).Once()

	res, err := http.Get(server.URL + "/api/v1/categories/nope/products")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	mockProdStore.AssertNotCalled(t, "CountProducts", mock.Anything, mock.Anything)
}

func TestHTTPHandler_SearchProducts_MissingQuery(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	res, err := http.Get(server.URL + "/api/v1/products/search?q=%20%20")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockProdStore.AssertNotCalled(t, "CountProducts", mock.Anything, mock.Anything)
}

func TestHTTPHandler_SearchProducts_Success(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	searchCheck := mock.MatchedBy(func(pred catalog.Predicate) bool {
		cond, ok := findCondition(pred, catalog.FieldTextQuery)
		return ok && cond.Op == catalog.OpMatches && cond.Value == "wireless headphones"
	})
	relevanceFirst := mock.MatchedBy(func(sort []catalog.SortKey) bool {
		return len(sort) > 0 && sort[0].Field == catalog.FieldRelevance && sort[0].Descending
	})

	mockProdStore.On("CountProducts", mock.Anything, searchCheck).Return(1, nil).Once()
	mockProdStore.On("QueryProducts", mock.Anything, searchCheck, relevanceFirst, 0, 20).
		Return([]domain.Product{{ID: 8, Name: "Wireless Headphones", Slug: "wireless-headphones", IsActive: true}}, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/products/search?q=wireless+headphones")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body productPageResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "wireless headphones", body.Query)
	assert.Equal(t, 1, body.Pagination.TotalItems)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_GetFeaturedProducts_CapsLimit(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	mockProdStore.On("GetFeaturedProducts", mock.Anything, 20).
		Return([]domain.Product{{ID: 5, Name: "Smart Watch", IsFeatured: true, IsActive: true}}, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/products/featured?limit=500")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var featured []domain.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&featured))
	require.Len(t, featured, 1)
	assert.True(t, featured[0].IsFeatured)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_GetProductBySlug_WithRelated(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	now := time.Now().Truncate(time.Millisecond)
	product := &domain.Product{
		ID: 8, Name: "Wireless Headphones", Slug: "wireless-headphones",
		SKU: "WIR-1234", Price: 99.9, CategoryID: 2, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	related := []domain.Product{
		{ID: 9, Name: "Headphone Stand", Slug: "headphone-stand", CategoryID: 2, IsActive: true},
	}

	mockProdStore.On("GetProductBySlug", mock.Anything, "wireless-headphones").Return(product, nil).Once()
	mockProdStore.On("GetRelatedProducts", mock.Anything, int64(2), int64(8), 4).Return(related, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/products/wireless-headphones")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		domain.Product
		RelatedProducts []domain.Product `json:"related_products"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "Wireless Headphones", body.Name)
	require.Len(t, body.RelatedProducts, 1)
	assert.Equal(t, "Headphone Stand", body.RelatedProducts[0].Name)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_GetProductBySlug_NotFound(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	mockProdStore.On("GetProductBySlug", mock.Anything, "nope").
		Return(nil, store.ErrProductNotFound).Once()

	res, err := http.Get(server.URL + "/api/v1/products/nope")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateCategory_GeneratesSlug(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	server := setupTestChiServer(t, mockCatStore, nil)
	defer server.Close()

	inputPayload := CategoryInput{Name: "Home & Garden"}
	expectedCreated := &domain.Category{ID: 4, Name: "Home & Garden", Slug: "home-garden", IsActive: true}

	mockCatStore.On("CreateCategory", mock.Anything, mock.MatchedBy(func(cat *domain.Category) bool {
		return cat.Name == "Home & Garden" && cat.Slug == "home-garden" && cat.IsActive
	})).Return(expectedCreated, nil).Once()

	reqBody, _ := json.Marshal(inputPayload)
	res, err := http.Post(server.URL+"/api/v1/categories", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created domain.Category
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, "home-garden", created.Slug)

	mockCatStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateCategory_ValidationFailure(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	server := setupTestChiServer(t, mockCatStore, nil)
	defer server.Close()

	reqBody, _ := json.Marshal(CategoryInput{Name: ""})
	res, err := http.Post(server.URL+"/api/v1/categories", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockCatStore.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestHTTPHandler_DeleteCategory_Conflict(t *testing.T) {
	mockCatStore := new(MockCategoryStorer)
	server := setupTestChiServer(t, mockCatStore, nil)
	defer server.Close()

	electronics := &domain.Category{ID: 1, Name: "Electronics", Slug: "electronics", IsActive: true}
	mockCatStore.On("GetCategoryBySlug", mock.Anything, "electronics").Return(electronics, nil).Once()
	mockCatStore.On("DeleteCategory", mock.Anything, int64(1)).Return(store.ErrCategoryHasProducts).Once()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/categories/electronics", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusConflict, res.StatusCode)
	mockCatStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_GeneratesSlugAndSKU(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	inputPayload := ProductInput{
		Name:       "Wireless Headphones",
		Price:      99.9,
		CategoryID: 2,
	}
	expectedCreated := &domain.Product{
		ID: 8, Name: "Wireless Headphones", Slug: "wireless-headphones",
		SKU: "WIR-A1B2", Price: 99.9, CategoryID: 2, IsActive: true,
	}

	mockProdStore.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Slug == "wireless-headphones" &&
			strings.HasPrefix(p.SKU, "WIR-") && len(p.SKU) == 8 &&
			p.IsActive
	})).Return(expectedCreated, nil).Once()

	reqBody, _ := json.Marshal(inputPayload)
	res, err := http.Post(server.URL+"/api/v1/products", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created domain.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, "wireless-headphones", created.Slug)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_SlugConflict(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	mockProdStore.On("CreateProduct", mock.Anything, mock.Anything).
		Return(nil, store.ErrProductSlugExists).Once()

	reqBody, _ := json.Marshal(ProductInput{Name: "Wireless Headphones", Price: 99.9, CategoryID: 2})
	res, err := http.Post(server.URL+"/api/v1/products", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusConflict, res.StatusCode)
	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_DeleteProduct_Success(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore)
	defer server.Close()

	product := &domain.Product{ID: 8, Name: "Wireless Headphones", Slug: "wireless-headphones", IsActive: true}
	mockProdStore.On("GetProductBySlug", mock.Anything, "wireless-headphones").Return(product, nil).Once()
	mockProdStore.On("DeleteProduct", mock.Anything, int64(8)).Return(nil).Once()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/products/wireless-headphones", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	mockProdStore.AssertExpectations(t)
}
