package tui

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"catalog_admin/internal/clients"
	"catalog_admin/internal/console"
	"catalog_admin/internal/delivery"
	"catalog_admin/internal/repository"
	"catalog_admin/internal/usecase"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, "error: "+message)
}

type fixture struct {
	client   clients.CatalogClient
	deps     Deps
	notifier *recordingNotifier
	category clients.Category
}

func newFixture(t *testing.T, products int) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := repository.NewMemoryStore()
	catRepo := repository.NewMemoryCategoryRepository(store, logger)
	prodRepo := repository.NewMemoryProductRepository(store, logger)
	server := httptest.NewServer(delivery.NewRouter(
		delivery.NewCategoryHandler(usecase.NewCategoryUseCase(catRepo, logger), logger),
		delivery.NewProductHandler(usecase.NewProductUseCase(prodRepo, catRepo, logger), logger),
		logger,
	))
	t.Cleanup(server.Close)

	client := clients.NewCatalogClient(clients.NewResourceHTTPClient(server.URL, 2*time.Second, logger), logger)
	ctx := context.Background()
	cat, err := client.CreateCategory(ctx, &clients.Category{Name: "Electrodes"})
	require.NoError(t, err)
	for i := products; i >= 1; i-- {
		_, err := client.CreateProduct(ctx, &clients.Product{
			Name:       fmt.Sprintf("Product %02d", i),
			Price:      float64(i * 1000),
			CategoryID: cat.ID,
		})
		require.NoError(t, err)
	}

	notifier := &recordingNotifier{}
	productList := console.NewProductListCoordinator(client, console.NewCategoryLookup(client, logger), notifier, logger)
	categoryList := console.NewCategoryListCoordinator(client, notifier, logger)
	return &fixture{
		client:   client,
		notifier: notifier,
		category: *cat,
		deps: Deps{
			Products:       productList,
			Categories:     categoryList,
			ProductForm:    console.NewProductForm(client, logger),
			CategoryForm:   console.NewCategoryForm(client, logger),
			ProductDelete:  console.NewProductDeleteFlow(client, productList, notifier, logger),
			CategoryDelete: console.NewCategoryDeleteFlow(client, categoryList, notifier, logger),
			Log:            logger,
		},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(App)
	require.True(t, ok)
	return app, cmd
}

// run executes a single command and feeds its message back into the model.
func run(t *testing.T, m App, cmd tea.Cmd) App {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func TestApp_InitialLoadRendersFirstPage(t *testing.T) {
	f := newFixture(t, 12)
	m := NewApp(f.deps)

	m = run(t, m, m.Init())
	view := m.View()
	assert.Contains(t, view, "Product 01")
	assert.Contains(t, view, "Product 05")
	assert.NotContains(t, view, "Product 06")
	assert.Contains(t, view, "Electrodes")
	assert.Equal(t, 3, m.view.TotalPages)
	assert.False(t, m.loading)
}

func TestApp_PagingKeys(t *testing.T) {
	f := newFixture(t, 12)
	m := NewApp(f.deps)
	m = run(t, m, m.Init())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "already on the first page")

	m, cmd = update(t, m, keyRune('n'))
	m = run(t, m, cmd)
	m, cmd = update(t, m, keyRune('n'))
	m = run(t, m, cmd)
	assert.Equal(t, 3, m.view.State.Page)
	assert.Contains(t, m.View(), "Product 12")

	_, cmd = update(t, m, keyRune('n'))
	assert.Nil(t, cmd, "already on the last page")
}

func TestApp_OutOfOrderResponsesKeepLatest(t *testing.T) {
	f := newFixture(t, 12)
	m := NewApp(f.deps)
	m = run(t, m, m.Init())

	m, toDesc := update(t, m, keyRune('s'))
	m, backToAsc := update(t, m, keyRune('s'))

	latest := backToAsc()
	older := toDesc()
	m, _ = update(t, m, latest)
	m, _ = update(t, m, older)

	assert.Equal(t, console.SortAsc, m.view.State.SortOrder)
	require.NotEmpty(t, m.view.Rows)
	assert.Equal(t, 1000.0, m.view.Rows[0].Product.Price)
}

func TestApp_SupersededFailureKeepsLoading(t *testing.T) {
	f := newFixture(t, 12)
	m := NewApp(f.deps)
	m = run(t, m, m.Init())

	m, _ = update(t, m, keyRune('s'))
	m, latest := update(t, m, keyRune('s'))
	require.True(t, m.loading)

	m, _ = update(t, m, productsLoadedMsg{seq: 2, err: console.ErrStaleResponse})
	assert.True(t, m.loading, "the newer load is still in flight")

	m, _ = update(t, m, latest())
	assert.False(t, m.loading)
	assert.Equal(t, console.SortAsc, m.view.State.SortOrder)
	assert.Empty(t, f.notifier.messages)
}

func TestApp_DeleteProduct(t *testing.T) {
	f := newFixture(t, 12)
	m := NewApp(f.deps)
	m = run(t, m, m.Init())

	m, cmd := update(t, m, keyRune('d'))
	assert.Nil(t, cmd)
	require.True(t, m.confirming)
	assert.Contains(t, m.View(), `delete product "Product 01"`)

	m, cmd = update(t, m, keyRune('y'))
	m = run(t, m, cmd)
	assert.False(t, m.confirming)
	assert.Equal(t, 11, m.view.TotalCount)
	assert.NotContains(t, m.View(), "Product 01")
	assert.Equal(t, []string{`Deleted product "Product 01"`}, f.notifier.messages)
}

func TestApp_CancelDelete(t *testing.T) {
	f := newFixture(t, 3)
	m := NewApp(f.deps)
	m = run(t, m, m.Init())

	m, _ = update(t, m, keyRune('d'))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.confirming)
	_, staged := f.deps.ProductDelete.Staged()
	assert.False(t, staged)
	assert.Equal(t, 3, m.view.TotalCount)
}

func TestApp_CreateProductThroughForm(t *testing.T) {
	f := newFixture(t, 0)
	m := NewApp(f.deps)
	m = run(t, m, m.Init())
	assert.Contains(t, m.View(), "No products.")

	m, cmd := update(t, m, keyRune('a'))
	assert.Equal(t, screenProductForm, m.screen)
	m = run(t, m, cmd)
	require.False(t, m.form.loading)
	assert.Contains(t, m.View(), "Add Product")

	m.form.inputs[fieldName].SetValue("Welding mask")
	m.form.inputs[fieldPrice].SetValue("abc")
	m.form.cycleCategory(1)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, cmd())
	assert.Equal(t, screenProductForm, m.screen, "invalid price keeps the form open")
	assert.Contains(t, m.toast.text, "Price")

	m.form.inputs[fieldPrice].SetValue("450000")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, cmd())
	assert.Equal(t, screenProducts, m.screen)
	assert.Equal(t, "Product saved", m.toast.text)

	page, err := f.client.ListProducts(context.Background(), console.BuildProductParams(console.NewListState()))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Welding mask", page.Items[0].Name)
	assert.Equal(t, f.category.ID, page.Items[0].CategoryID)
}

func TestApp_CategoriesScreen(t *testing.T) {
	f := newFixture(t, 1)
	m := NewApp(f.deps)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, screenCategories, m.screen)
	m = run(t, m, cmd)
	assert.Contains(t, m.View(), "Electrodes")

	m, _ = update(t, m, keyRune('d'))
	require.True(t, m.confirming)
	m, cmd = update(t, m, keyRune('y'))
	m = run(t, m, cmd)
	assert.Contains(t, m.View(), "No categories.")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = run(t, m, cmd)
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, console.MissingCategory, m.view.Rows[0].Category)
}

func TestApp_Toasts(t *testing.T) {
	f := newFixture(t, 0)
	m := NewApp(f.deps)

	m, cmd := update(t, m, toastMsg{text: "Could not load products.", isError: true})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Could not load products.")

	m, _ = update(t, m, toastExpiredMsg{id: m.toast.id - 1})
	assert.Contains(t, m.View(), "Could not load products.", "older expiry is ignored")

	m, _ = update(t, m, toastExpiredMsg{id: m.toast.id})
	assert.NotContains(t, m.View(), "Could not load products.")
}

func TestProgramNotifier_WithoutProgram(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	n := NewProgramNotifier(logger)
	assert.NotPanics(t, func() {
		n.Success("saved")
		n.Error("failed")
	})
}
