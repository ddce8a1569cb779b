package usecase

import (
	"context"
	"io"
	"testing"

	"catalog_admin/internal/domain"
	"catalog_admin/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCases(t *testing.T) (CategoryUseCase, ProductUseCase) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := repository.NewMemoryStore()
	catRepo := repository.NewMemoryCategoryRepository(store, logger)
	prodRepo := repository.NewMemoryProductRepository(store, logger)
	return NewCategoryUseCase(catRepo, logger), NewProductUseCase(prodRepo, catRepo, logger)
}

func TestCategoryUseCase_Validation(t *testing.T) {
	categories, _ := newUseCases(t)
	ctx := context.Background()

	_, err := categories.CreateCategory(ctx, &domain.Category{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	created, err := categories.CreateCategory(ctx, &domain.Category{Name: "  Tools "})
	require.NoError(t, err)
	assert.Equal(t, "Tools", created.Name)

	_, err = categories.UpdateCategory(ctx, &domain.Category{ID: created.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = categories.GetCategoryByID(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, categories.DeleteCategory(ctx, 77), domain.ErrNotFound)
}

func TestProductUseCase_CreateRequiresExistingCategory(t *testing.T) {
	categories, products := newUseCases(t)
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, &domain.Product{Name: "Helmet", Price: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = products.CreateProduct(ctx, &domain.Product{Name: "Helmet", Price: 10, CategoryID: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cat, err := categories.CreateCategory(ctx, &domain.Category{Name: "Safety"})
	require.NoError(t, err)

	_, err = products.CreateProduct(ctx, &domain.Product{Name: "Helmet", Price: -1, CategoryID: cat.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	created, err := products.CreateProduct(ctx, &domain.Product{Name: "Helmet", Price: 0, CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
}

func TestProductUseCase_UpdateCoercesFormValues(t *testing.T) {
	categories, products := newUseCases(t)
	ctx := context.Background()

	first, err := categories.CreateCategory(ctx, &domain.Category{Name: "A"})
	require.NoError(t, err)
	second, err := categories.CreateCategory(ctx, &domain.Category{Name: "B"})
	require.NoError(t, err)
	product, err := products.CreateProduct(ctx, &domain.Product{Name: "Drill", Price: 100, CategoryID: first.ID})
	require.NoError(t, err)

	updated, err := products.UpdateProduct(ctx, product.ID, map[string]interface{}{
		"id":         float64(product.ID),
		"price":      "250.5",
		"categoryId": "2",
		"stock":      3.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 250.5, updated.Price)
	assert.Equal(t, second.ID, updated.CategoryID)

	_, err = products.UpdateProduct(ctx, product.ID, map[string]interface{}{"categoryId": 1.5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = products.UpdateProduct(ctx, product.ID, map[string]interface{}{"name": ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = products.UpdateProduct(ctx, 404, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ListNormalisesQuery(t *testing.T) {
	categories, products := newUseCases(t)
	ctx := context.Background()
	require.NoError(t, SeedCatalog(ctx, categories, products))

	_, _, err := products.ListProducts(ctx, domain.ProductQuery{Sort: "stock"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = products.ListProducts(ctx, domain.ProductQuery{Order: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = products.ListProducts(ctx, domain.ProductQuery{Page: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, total, err := products.ListProducts(ctx, domain.ProductQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, len(seedProducts), total)
	assert.Len(t, page, domain.DefaultPageLimit)

	limited, _, err := products.ListProducts(ctx, domain.ProductQuery{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	all, total, err := products.ListProducts(ctx, domain.ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, all, total)
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	categories, products := newUseCases(t)
	ctx := context.Background()

	require.NoError(t, SeedCatalog(ctx, categories, products))
	require.NoError(t, SeedCatalog(ctx, categories, products))

	list, err := categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(seedCategories))
}
