package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog_admin/internal/clients"

	"github.com/sirupsen/logrus"
)

var ErrNothingStaged = errors.New("no delete target staged")

type DeleteTarget struct {
	ID   clients.ID
	Name string
}

// DeleteFlow is the two-step stage then confirm delete for one kind of entity.
type DeleteFlow struct {
	kind     string
	remove   func(ctx context.Context, id clients.ID) error
	refresh  func(ctx context.Context) error
	notifier Notifier
	log      *logrus.Logger

	mu     sync.Mutex
	staged *DeleteTarget
}

func NewProductDeleteFlow(client clients.CatalogClient, list *ProductListCoordinator, notifier Notifier, logger *logrus.Logger) *DeleteFlow {
	return &DeleteFlow{
		kind:     "product",
		remove:   client.DeleteProduct,
		refresh:  list.Reload,
		notifier: notifier,
		log:      logger,
	}
}

func NewCategoryDeleteFlow(client clients.CatalogClient, list *CategoryListCoordinator, notifier Notifier, logger *logrus.Logger) *DeleteFlow {
	return &DeleteFlow{
		kind:     "category",
		remove:   client.DeleteCategory,
		refresh:  list.Reload,
		notifier: notifier,
		log:      logger,
	}
}

func (d *DeleteFlow) Stage(target DeleteTarget) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.staged = &target
}

func (d *DeleteFlow) Staged() (DeleteTarget, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.staged == nil {
		return DeleteTarget{}, false
	}
	return *d.staged, true
}

func (d *DeleteFlow) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.staged = nil
}

func (d *DeleteFlow) Prompt() string {
	target, ok := d.Staged()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Are you sure you want to delete %s %q?", d.kind, target.Name)
}

// Confirm deletes the staged target, notifies the outcome and refreshes the
// list. The target stays staged when the delete fails.
func (d *DeleteFlow) Confirm(ctx context.Context) error {
	target, ok := d.Staged()
	if !ok {
		return ErrNothingStaged
	}

	if err := d.remove(ctx, target.ID); err != nil {
		d.log.Errorf("DeleteFlow: Failed to delete %s %s: %v", d.kind, target.ID, err)
		d.notifier.Error(fmt.Sprintf("Could not delete %s.", d.kind))
		return fmt.Errorf("failed to delete %s %s: %w", d.kind, target.ID, err)
	}

	d.mu.Lock()
	if d.staged != nil && d.staged.ID == target.ID {
		d.staged = nil
	}
	d.mu.Unlock()

	d.log.Infof("DeleteFlow: Deleted %s %s", d.kind, target.ID)
	d.notifier.Success(fmt.Sprintf("Deleted %s %q", d.kind, target.Name))

	if err := d.refresh(ctx); err != nil {
		d.log.Warnf("DeleteFlow: List refresh after deleting %s %s failed: %v", d.kind, target.ID, err)
	}
	return nil
}
