package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog_admin/internal/domain"
	"catalog_admin/internal/repository"
	"catalog_admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router     *gin.Engine
	categories usecase.CategoryUseCase
	products   usecase.ProductUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := repository.NewMemoryStore()
	catRepo := repository.NewMemoryCategoryRepository(store, logger)
	prodRepo := repository.NewMemoryProductRepository(store, logger)
	categories := usecase.NewCategoryUseCase(catRepo, logger)
	products := usecase.NewProductUseCase(prodRepo, catRepo, logger)

	router := NewRouter(NewCategoryHandler(categories, logger), NewProductHandler(products, logger), logger)
	return &testServer{router: router, categories: categories, products: products}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedTwelve(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	cat, err := s.categories.CreateCategory(ctx, &domain.Category{Name: "Tools"})
	require.NoError(t, err)
	for i := 12; i >= 1; i-- {
		_, err := s.products.CreateProduct(ctx, &domain.Product{
			Name:       "Item",
			Price:      float64(i * 100),
			CategoryID: cat.ID,
		})
		require.NoError(t, err)
	}
}

func TestListProducts_PagingHeadersAndSort(t *testing.T) {
	s := newTestServer(t)
	s.seedTwelve(t)

	w := s.do(t, http.MethodGet, "/products?_page=1&_limit=5&_sort=price&_order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12", w.Header().Get(TotalCountHeader))
	assert.Equal(t, TotalCountHeader, w.Header().Get("Access-Control-Expose-Headers"))

	var page []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 5)
	assert.Equal(t, 100.0, page[0].Price)
	assert.Equal(t, 500.0, page[4].Price)

	w = s.do(t, http.MethodGet, "/products?_page=3&_limit=5&_sort=price&_order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 2)
	assert.Equal(t, 1100.0, page[0].Price)
	assert.Equal(t, 1200.0, page[1].Price)

	w = s.do(t, http.MethodGet, "/products?_page=1&_limit=5&_sort=price&_order=desc", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1200.0, page[0].Price)
}

func TestListProducts_SearchWithoutMatches(t *testing.T) {
	s := newTestServer(t)
	s.seedTwelve(t)

	w := s.do(t, http.MethodGet, "/products?_page=1&_limit=5&q=nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get(TotalCountHeader))
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListProducts_RejectsBadParameters(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/products?_page=abc",
		"/products?_sort=stock",
		"/products?_order=up",
		"/products?_page=-1",
	} {
		w := s.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/categories", map[string]interface{}{"name": "Safety"})
	require.Equal(t, http.StatusCreated, w.Code)
	var cat domain.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	w = s.do(t, http.MethodPost, "/products", map[string]interface{}{"name": "Helmet", "price": 0, "categoryId": cat.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Helmet", created.Name)

	w = s.do(t, http.MethodPost, "/products", map[string]interface{}{"name": "Helmet", "categoryId": cat.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "price is required")

	w = s.do(t, http.MethodPost, "/products", map[string]interface{}{"name": "Helmet", "price": 5, "categoryId": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code, "category must exist")

	w = s.do(t, http.MethodPut, "/products/1", map[string]interface{}{
		"id": 1, "name": "Helmet XL", "description": "bigger", "price": 12.5, "image": "", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Helmet XL")

	w = s.do(t, http.MethodPatch, "/products/1", map[string]interface{}{"price": 20})
	require.Equal(t, http.StatusOK, w.Code)
	var patched domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, 20.0, patched.Price)
	assert.Equal(t, "Helmet XL", patched.Name)

	w = s.do(t, http.MethodGet, "/products/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/products/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/products/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)

	w = s.do(t, http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductWrites_AcceptNumericStrings(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/categories", map[string]interface{}{"name": "Gas"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/products", map[string]interface{}{"name": "Regulator", "price": "120000", "categoryId": "1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 120000.0, created.Price)
	assert.Equal(t, 1, created.CategoryID)

	w = s.do(t, http.MethodPut, "/products/1", map[string]interface{}{"name": "Regulator", "price": "99.5", "categoryId": "1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var replaced domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replaced))
	assert.Equal(t, 99.5, replaced.Price)

	w = s.do(t, http.MethodPatch, "/products/1", map[string]interface{}{"price": "80", "categoryId": "1"})
	assert.Equal(t, http.StatusOK, w.Code)

	for _, body := range []map[string]interface{}{
		{"name": "Regulator", "price": "cheap", "categoryId": "1"},
		{"name": "Regulator", "price": "-1", "categoryId": "1"},
		{"name": "Regulator", "price": "10", "categoryId": "one"},
		{"name": "Regulator", "price": nil, "categoryId": "1"},
	} {
		w = s.do(t, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodPost, "/categories", map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/categories", map[string]interface{}{"name": "Tools"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPut, "/categories/1", map[string]interface{}{"id": 1, "name": "Hand Tools"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Hand Tools"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/categories/1", nil)
	assert.JSONEq(t, `{"id":1,"name":"Hand Tools"}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/categories/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/categories/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
