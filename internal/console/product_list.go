package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog_admin/internal/clients"

	"github.com/sirupsen/logrus"
)

var ErrStaleResponse = errors.New("stale list response")

const productLoadFailed = "Could not load products."

type ProductRow struct {
	Product  clients.Product
	Category string
	Price    string
}

// ProductView is one applied page of the product list.
type ProductView struct {
	Seq        uint64
	State      ListState
	Rows       []ProductRow
	TotalCount int
	TotalPages int
}

// Empty reports whether the placeholder row should be shown.
func (v ProductView) Empty() bool {
	return len(v.Rows) == 0
}

// ProductListCoordinator drives the product list. Every load gets a sequence
// number and only responses newer than the last applied one are kept.
type ProductListCoordinator struct {
	client   clients.CatalogClient
	lookup   *CategoryLookup
	notifier Notifier
	log      *logrus.Logger

	mu      sync.Mutex
	state   ListState
	issued  uint64
	applied uint64
	view    ProductView
}

func NewProductListCoordinator(client clients.CatalogClient, lookup *CategoryLookup, notifier Notifier, logger *logrus.Logger) *ProductListCoordinator {
	state := NewListState()
	return &ProductListCoordinator{
		client:   client,
		lookup:   lookup,
		notifier: notifier,
		log:      logger,
		state:    state,
		view:     ProductView{State: state, Rows: []ProductRow{}},
	}
}

func (c *ProductListCoordinator) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ProductListCoordinator) View() ProductView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Begin records state as current and returns the sequence for its load.
func (c *ProductListCoordinator) Begin(state ListState) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.issued++
	return c.issued
}

// Fetch rebuilds the category lookup and loads one page. Categories missing
// from the rebuilt lookup are resolved one at a time. It does not touch the
// applied view.
func (c *ProductListCoordinator) Fetch(ctx context.Context, seq uint64, state ListState) (ProductView, error) {
	if err := c.lookup.Refresh(ctx); err != nil {
		return ProductView{}, c.fail(seq, err)
	}

	params := BuildProductParams(state)
	page, err := c.client.ListProducts(ctx, params)
	if err != nil {
		c.log.Errorf("ProductList: Failed to load products with %s: %v", params.Encode(), err)
		return ProductView{}, c.fail(seq, fmt.Errorf("failed to load products: %w", err))
	}

	rows := make([]ProductRow, 0, len(page.Items))
	for _, product := range page.Items {
		rows = append(rows, ProductRow{
			Product:  product,
			Category: c.lookup.Resolve(ctx, product.CategoryID),
			Price:    FormatPrice(product.Price),
		})
	}

	return ProductView{
		Seq:        seq,
		State:      state,
		Rows:       rows,
		TotalCount: page.TotalCount,
		TotalPages: TotalPages(page.TotalCount, ProductPageSize),
	}, nil
}

// Apply installs view unless a newer load has already been applied.
func (c *ProductListCoordinator) Apply(view ProductView) (ProductView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if view.Seq <= c.applied {
		c.log.Debugf("ProductList: Dropping response %d, %d already applied", view.Seq, c.applied)
		return c.view, ErrStaleResponse
	}
	c.applied = view.Seq
	c.view = view
	c.log.Debugf("ProductList: Applied page %d of %d (%d products)", view.State.Page, view.TotalPages, view.TotalCount)
	return view, nil
}

// fail reports a load failure unless a newer load has been started or applied.
func (c *ProductListCoordinator) fail(seq uint64, err error) error {
	c.mu.Lock()
	stale := seq < c.issued || seq <= c.applied
	c.mu.Unlock()
	if stale {
		c.log.Debugf("ProductList: Ignoring failure of superseded load %d: %v", seq, err)
		return ErrStaleResponse
	}
	c.notifier.Error(productLoadFailed)
	return err
}

func (c *ProductListCoordinator) Load(ctx context.Context, state ListState) (ProductView, error) {
	seq := c.Begin(state)
	view, err := c.Fetch(ctx, seq, state)
	if err != nil {
		return c.View(), err
	}
	return c.Apply(view)
}

// Reload loads the current state again.
func (c *ProductListCoordinator) Reload(ctx context.Context) error {
	_, err := c.Load(ctx, c.State())
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	return err
}

func (c *ProductListCoordinator) Search(ctx context.Context, term string) (ProductView, error) {
	return c.Load(ctx, c.State().WithSearch(term))
}

func (c *ProductListCoordinator) ToggleSort(ctx context.Context) (ProductView, error) {
	return c.Load(ctx, c.State().ToggleSort())
}

func (c *ProductListCoordinator) GoToPage(ctx context.Context, page int) (ProductView, error) {
	return c.Load(ctx, c.State().WithPage(page))
}
