package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"catalog_admin/internal/domain"

	"github.com/sirupsen/logrus"
)

// MemoryStore backs both in-memory repositories so they share id sequences
// and a single lock, the way one json-server db.json file would.
type MemoryStore struct {
	mu             sync.RWMutex
	categories     map[int]domain.Category
	products       map[int]domain.Product
	nextCategoryID int
	nextProductID  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories:     make(map[int]domain.Category),
		products:       make(map[int]domain.Product),
		nextCategoryID: 1,
		nextProductID:  1,
	}
}

type memoryCategoryRepository struct {
	store *MemoryStore
	log   *logrus.Logger
}

func NewMemoryCategoryRepository(store *MemoryStore, logger *logrus.Logger) domain.CategoryRepository {
	return &memoryCategoryRepository{store: store, log: logger}
}

func (r *memoryCategoryRepository) CreateCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category.ID = r.store.nextCategoryID
	r.store.nextCategoryID++
	r.store.categories[category.ID] = *category

	r.log.Infof("Category created successfully with ID: %d, Name: %s", category.ID, category.Name)
	return category, nil
}

func (r *memoryCategoryRepository) GetCategoryByID(_ context.Context, id int) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok {
		r.log.Warnf("Category with ID %d not found", id)
		return nil, fmt.Errorf("category with id %d: %w", id, domain.ErrNotFound)
	}
	return &category, nil
}

func (r *memoryCategoryRepository) UpdateCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[category.ID]; !ok {
		r.log.Warnf("Category with ID %d not found for update", category.ID)
		return nil, fmt.Errorf("category with id %d: %w", category.ID, domain.ErrNotFound)
	}
	r.store.categories[category.ID] = *category

	r.log.Infof("Category updated successfully with ID: %d", category.ID)
	return category, nil
}

func (r *memoryCategoryRepository) DeleteCategory(_ context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[id]; !ok {
		r.log.Warnf("Attempted to delete non-existent category ID %d", id)
		return fmt.Errorf("category with id %d: %w", id, domain.ErrNotFound)
	}
	delete(r.store.categories, id)

	r.log.Infof("Category deleted successfully with ID: %d", id)
	return nil
}

func (r *memoryCategoryRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

type memoryProductRepository struct {
	store *MemoryStore
	log   *logrus.Logger
}

func NewMemoryProductRepository(store *MemoryStore, logger *logrus.Logger) domain.ProductRepository {
	return &memoryProductRepository{store: store, log: logger}
}

func (r *memoryProductRepository) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product.ID = r.store.nextProductID
	r.store.nextProductID++
	r.store.products[product.ID] = *product

	r.log.Infof("Product created successfully with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *memoryProductRepository) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok {
		r.log.Warnf("Product with ID %d not found", id)
		return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
	}
	return &product, nil
}

func (r *memoryProductRepository) ReplaceProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[product.ID]; !ok {
		r.log.Warnf("Product with ID %d not found for replace", product.ID)
		return nil, fmt.Errorf("product with id %d: %w", product.ID, domain.ErrNotFound)
	}
	r.store.products[product.ID] = *product

	r.log.Infof("Product replaced successfully with ID: %d", product.ID)
	return product, nil
}

func (r *memoryProductRepository) UpdateProduct(_ context.Context, id int, updates map[string]interface{}) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok {
		r.log.Warnf("Repository: Product with ID %d not found for update", id)
		return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
	}

	for key, value := range updates {
		switch key {
		case "name":
			product.Name, _ = value.(string)
		case "description":
			product.Description, _ = value.(string)
		case "price":
			product.Price, _ = value.(float64)
		case "image":
			product.Image, _ = value.(string)
		case "categoryId":
			product.CategoryID, _ = value.(int)
		default:
			r.log.Warnf("Repository: Skipping unknown field '%s' provided for product update ID %d", key, id)
		}
	}
	r.store.products[id] = product

	r.log.Infof("Repository: Partial update successful for product ID %d", id)
	return &product, nil
}

func (r *memoryProductRepository) DeleteProduct(_ context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
	}
	delete(r.store.products, id)

	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

func (r *memoryProductRepository) ListProducts(_ context.Context, q domain.ProductQuery) ([]domain.Product, int, error) {
	r.store.mu.RLock()
	matches := make([]domain.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		if matchesProductQuery(product, q) {
			matches = append(matches, product)
		}
	}
	r.store.mu.RUnlock()

	sortProducts(matches, q)
	total := len(matches)

	if q.Paged() {
		start := q.Offset()
		if start > total {
			start = total
		}
		end := start + q.Limit
		if end > total {
			end = total
		}
		matches = matches[start:end]
	}

	r.log.Debugf("Retrieved %d of %d products (page: %d, limit: %d)", len(matches), total, q.Page, q.Limit)
	return matches, total, nil
}

func matchesProductQuery(p domain.Product, q domain.ProductQuery) bool {
	if q.CategoryID > 0 && p.CategoryID != q.CategoryID {
		return false
	}
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func sortProducts(products []domain.Product, q domain.ProductQuery) {
	less := func(a, b domain.Product) bool { return a.ID < b.ID }
	switch q.Sort {
	case domain.SortByPrice:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case domain.SortByName:
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
	}

	// Ties keep id order in both directions, matching the postgres ORDER BY.
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	desc := q.Order == domain.OrderDesc
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}
