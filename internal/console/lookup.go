package console

import (
	"context"
	"fmt"
	"sync"

	"catalog_admin/internal/clients"

	"github.com/sirupsen/logrus"
)

const MissingCategory = "N/A"

// CategoryLookup maps category ids to names. Refresh rebuilds it from the
// full collection; a refresh that finishes after a newer one is dropped.
type CategoryLookup struct {
	client clients.CatalogClient
	log    *logrus.Logger

	mu      sync.RWMutex
	names   map[clients.ID]string
	issued  uint64
	applied uint64
}

func NewCategoryLookup(client clients.CatalogClient, logger *logrus.Logger) *CategoryLookup {
	return &CategoryLookup{
		client: client,
		log:    logger,
		names:  make(map[clients.ID]string),
	}
}

func (l *CategoryLookup) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	l.mu.Unlock()

	categories, err := l.client.ListCategories(ctx)
	if err != nil {
		l.log.Errorf("CategoryLookup: Failed to load categories: %v", err)
		return fmt.Errorf("failed to load categories: %w", err)
	}

	names := make(map[clients.ID]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.applied {
		l.log.Debugf("CategoryLookup: Dropping refresh %d, %d already applied", seq, l.applied)
		return nil
	}
	l.applied = seq
	l.names = names
	l.log.Debugf("CategoryLookup: Loaded %d categories", len(categories))
	return nil
}

// Name returns the cached name or MissingCategory.
func (l *CategoryLookup) Name(id clients.ID) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if name, ok := l.names[id]; ok {
		return name
	}
	return MissingCategory
}

// Resolve is Name with a read-through fetch on a miss.
func (l *CategoryLookup) Resolve(ctx context.Context, id clients.ID) string {
	if id.IsZero() {
		return MissingCategory
	}
	l.mu.RLock()
	name, ok := l.names[id]
	l.mu.RUnlock()
	if ok {
		return name
	}

	category, err := l.client.GetCategory(ctx, id)
	if err != nil {
		if !clients.IsNotFound(err) {
			l.log.Warnf("CategoryLookup: Failed to resolve category %s: %v", id, err)
		}
		return MissingCategory
	}

	l.mu.Lock()
	l.names[category.ID] = category.Name
	l.mu.Unlock()
	return category.Name
}
