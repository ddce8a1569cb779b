package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog_admin/internal/clients"

	"github.com/sirupsen/logrus"
)

const categoryLoadFailed = "Could not load categories."

// CategoryListCoordinator loads the unpaginated category list.
type CategoryListCoordinator struct {
	client   clients.CatalogClient
	notifier Notifier
	log      *logrus.Logger

	mu         sync.Mutex
	issued     uint64
	applied    uint64
	categories []clients.Category
}

func NewCategoryListCoordinator(client clients.CatalogClient, notifier Notifier, logger *logrus.Logger) *CategoryListCoordinator {
	return &CategoryListCoordinator{
		client:     client,
		notifier:   notifier,
		log:        logger,
		categories: []clients.Category{},
	}
}

func (c *CategoryListCoordinator) Categories() []clients.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]clients.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *CategoryListCoordinator) Load(ctx context.Context) ([]clients.Category, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	categories, err := c.client.ListCategories(ctx)

	c.mu.Lock()
	if seq <= c.applied {
		c.mu.Unlock()
		return c.Categories(), ErrStaleResponse
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Errorf("CategoryList: Failed to load categories: %v", err)
		c.notifier.Error(categoryLoadFailed)
		return c.Categories(), fmt.Errorf("failed to load categories: %w", err)
	}
	c.applied = seq
	c.categories = categories
	c.mu.Unlock()
	return c.Categories(), nil
}

// Reload is Load without the result, for delete refreshes.
func (c *CategoryListCoordinator) Reload(ctx context.Context) error {
	_, err := c.Load(ctx)
	if errors.Is(err, ErrStaleResponse) {
		return nil
	}
	return err
}
