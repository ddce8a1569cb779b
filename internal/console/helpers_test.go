package console

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog_admin/internal/clients"
	"catalog_admin/internal/delivery"
	"catalog_admin/internal/repository"
	"catalog_admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.errors)
}

// fakeCatalog is an in-process CatalogClient. ListProducts waits on gate
// when one is registered for the requested search term.
type fakeCatalog struct {
	mu         sync.Mutex
	products   []clients.Product
	categories []clients.Category
	nextID     int

	listErr     error
	categoryErr error
	deleteErr   error
	saveErr     error
	gates       map[string]chan struct{}
	listCalls   int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{nextID: 100, gates: make(map[string]chan struct{})}
}

func (f *fakeCatalog) gate(term string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[term] = ch
	return ch
}

func (f *fakeCatalog) ListProducts(ctx context.Context, params url.Values) (*clients.ProductPage, error) {
	term := params.Get("q")
	f.mu.Lock()
	f.listCalls++
	gate := f.gates[term]
	err := f.listErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []clients.Product
	for _, p := range f.products {
		if term == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if params.Get("_order") == "desc" {
			return matched[i].Price > matched[j].Price
		}
		return matched[i].Price < matched[j].Price
	})

	page, _ := strconv.Atoi(params.Get("_page"))
	limit, _ := strconv.Atoi(params.Get("_limit"))
	start := (page - 1) * limit
	items := []clients.Product{}
	if start < len(matched) {
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		items = append(items, matched[start:end]...)
	}
	return &clients.ProductPage{Items: items, TotalCount: len(matched)}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id clients.ID) (*clients.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, &clients.APIError{StatusCode: 404}
}

func (f *fakeCatalog) CreateProduct(_ context.Context, product *clients.Product) (*clients.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.nextID++
	created := *product
	created.ID = clients.ID(strconv.Itoa(f.nextID))
	f.products = append(f.products, created)
	return &created, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id clients.ID, product *clients.Product) (*clients.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			updated := *product
			updated.ID = id
			f.products[i] = updated
			return &updated, nil
		}
	}
	return nil, &clients.APIError{StatusCode: 404}
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id clients.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return &clients.APIError{StatusCode: 404}
}

func (f *fakeCatalog) ListCategories(context.Context) ([]clients.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	out := make([]clients.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeCatalog) GetCategory(_ context.Context, id clients.ID) (*clients.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, &clients.APIError{StatusCode: 404}
}

func (f *fakeCatalog) CreateCategory(_ context.Context, category *clients.Category) (*clients.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.nextID++
	created := clients.Category{ID: clients.ID(strconv.Itoa(f.nextID)), Name: category.Name}
	f.categories = append(f.categories, created)
	return &created, nil
}

func (f *fakeCatalog) UpdateCategory(_ context.Context, id clients.ID, category *clients.Category) (*clients.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Name = category.Name
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, &clients.APIError{StatusCode: 404}
}

func (f *fakeCatalog) DeleteCategory(_ context.Context, id clients.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return &clients.APIError{StatusCode: 404}
}

func (f *fakeCatalog) seed(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = []clients.Category{{ID: "1", Name: "Electrodes"}}
	for i := n; i >= 1; i-- {
		f.products = append(f.products, clients.Product{
			ID:         clients.ID(strconv.Itoa(i)),
			Name:       fmt.Sprintf("Product %02d", i),
			Price:      float64(i * 1000),
			CategoryID: "1",
		})
	}
}

// newServiceClient starts the catalog service on the in-memory store and
// returns a real HTTP CatalogClient pointed at it.
func newServiceClient(t *testing.T) clients.CatalogClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := quietLogger()

	store := repository.NewMemoryStore()
	catRepo := repository.NewMemoryCategoryRepository(store, logger)
	prodRepo := repository.NewMemoryProductRepository(store, logger)
	router := delivery.NewRouter(
		delivery.NewCategoryHandler(usecase.NewCategoryUseCase(catRepo, logger), logger),
		delivery.NewProductHandler(usecase.NewProductUseCase(prodRepo, catRepo, logger), logger),
		logger,
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := clients.NewCatalogClient(clients.NewResourceHTTPClient(server.URL, 2*time.Second, logger), logger)
	return client
}

func seedService(t *testing.T, client clients.CatalogClient, n int) clients.Category {
	t.Helper()
	ctx := context.Background()
	cat, err := client.CreateCategory(ctx, &clients.Category{Name: "Electrodes"})
	require.NoError(t, err)
	for i := n; i >= 1; i-- {
		_, err := client.CreateProduct(ctx, &clients.Product{
			Name:       fmt.Sprintf("Product %02d", i),
			Price:      float64(i * 1000),
			CategoryID: cat.ID,
		})
		require.NoError(t, err)
	}
	return *cat
}
