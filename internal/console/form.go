package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"catalog_admin/internal/clients"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

const (
	RouteProducts   = "/products"
	RouteCategories = "/categories"
)

type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// ValidationError lists every draft field that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range []string{"Name", "Price", "CategoryID"} {
		if msg, ok := e.Fields[field]; ok {
			parts = append(parts, field+" "+msg)
		}
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

func validateDraft(draft interface{}) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			out.Fields[fe.Field()] = "is required"
		case "numeric":
			out.Fields[fe.Field()] = "must be a number"
		default:
			out.Fields[fe.Field()] = "is invalid"
		}
	}
	return out
}

// ProductDraft holds the product form's raw field values.
type ProductDraft struct {
	Name        string `validate:"required"`
	Description string
	Price       string `validate:"required,numeric"`
	Image       string
	CategoryID  clients.ID `validate:"required"`
}

func draftFromProduct(p *clients.Product) ProductDraft {
	return ProductDraft{
		Name:        p.Name,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Image:       p.Image,
		CategoryID:  p.CategoryID,
	}
}

func (d ProductDraft) toProduct() (*clients.Product, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Price = strings.TrimSpace(d.Price)
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	price, err := strconv.ParseFloat(d.Price, 64)
	if err != nil || price < 0 {
		return nil, &ValidationError{Fields: map[string]string{"Price": "must be a non-negative number"}}
	}
	return &clients.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Image:       strings.TrimSpace(d.Image),
		CategoryID:  d.CategoryID,
	}, nil
}

// ProductForm is the create/edit state machine for one product.
type ProductForm struct {
	client clients.CatalogClient
	log    *logrus.Logger

	mu         sync.Mutex
	mode       FormMode
	id         clients.ID
	draft      ProductDraft
	categories []clients.Category
}

func NewProductForm(client clients.CatalogClient, logger *logrus.Logger) *ProductForm {
	return &ProductForm{client: client, log: logger, categories: []clients.Category{}}
}

// Open resets the form. A zero id opens it in create mode, otherwise the
// product is fetched and the form switches to edit mode. Category options
// are loaded in both modes.
func (f *ProductForm) Open(ctx context.Context, id clients.ID) error {
	f.mu.Lock()
	f.id = id
	f.mode = ModeCreate
	if !id.IsZero() {
		f.mode = ModeEdit
	}
	f.draft = ProductDraft{}
	f.mu.Unlock()

	categories, err := f.client.ListCategories(ctx)
	if err != nil {
		f.log.Errorf("ProductForm: Failed to load categories: %v", err)
	} else {
		f.mu.Lock()
		f.categories = categories
		f.mu.Unlock()
	}

	if id.IsZero() {
		return nil
	}

	product, err := f.client.GetProduct(ctx, id)
	if err != nil {
		f.log.Errorf("ProductForm: Failed to load product %s: %v", id, err)
		return fmt.Errorf("failed to load product %s: %w", id, err)
	}

	f.mu.Lock()
	f.draft = draftFromProduct(product)
	f.mu.Unlock()
	return nil
}

func (f *ProductForm) Mode() FormMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *ProductForm) ID() clients.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *ProductForm) Draft() ProductDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *ProductForm) SetDraft(draft ProductDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = draft
}

func (f *ProductForm) Categories() []clients.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]clients.Category, len(f.categories))
	copy(out, f.categories)
	return out
}

// Submit validates the draft, then creates or updates depending on the mode.
// On success it returns the route to navigate back to. The draft is kept on
// failure.
func (f *ProductForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	mode, id, draft := f.mode, f.id, f.draft
	f.mu.Unlock()

	product, err := draft.toProduct()
	if err != nil {
		f.log.Warnf("ProductForm: Rejected draft: %v", err)
		return "", err
	}

	if mode == ModeEdit {
		_, err = f.client.UpdateProduct(ctx, id, product)
	} else {
		_, err = f.client.CreateProduct(ctx, product)
	}
	if err != nil {
		f.log.Errorf("ProductForm: Failed to save product (%s): %v", mode, err)
		return "", fmt.Errorf("failed to save product: %w", err)
	}

	f.log.Infof("ProductForm: Saved product '%s' (%s)", product.Name, mode)
	return RouteProducts, nil
}

type CategoryDraft struct {
	Name string `validate:"required"`
}

// CategoryForm is the create/edit state machine for one category.
type CategoryForm struct {
	client clients.CatalogClient
	log    *logrus.Logger

	mu    sync.Mutex
	mode  FormMode
	id    clients.ID
	draft CategoryDraft
}

func NewCategoryForm(client clients.CatalogClient, logger *logrus.Logger) *CategoryForm {
	return &CategoryForm{client: client, log: logger}
}

func (f *CategoryForm) Open(ctx context.Context, id clients.ID) error {
	f.mu.Lock()
	f.id = id
	f.mode = ModeCreate
	if !id.IsZero() {
		f.mode = ModeEdit
	}
	f.draft = CategoryDraft{}
	f.mu.Unlock()

	if id.IsZero() {
		return nil
	}

	category, err := f.client.GetCategory(ctx, id)
	if err != nil {
		f.log.Errorf("CategoryForm: Failed to load category %s: %v", id, err)
		return fmt.Errorf("failed to load category %s: %w", id, err)
	}

	f.mu.Lock()
	f.draft = CategoryDraft{Name: category.Name}
	f.mu.Unlock()
	return nil
}

func (f *CategoryForm) Mode() FormMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *CategoryForm) ID() clients.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *CategoryForm) Draft() CategoryDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *CategoryForm) SetDraft(draft CategoryDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = draft
}

func (f *CategoryForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	mode, id, draft := f.mode, f.id, f.draft
	f.mu.Unlock()

	draft.Name = strings.TrimSpace(draft.Name)
	if err := validateDraft(draft); err != nil {
		f.log.Warnf("CategoryForm: Rejected draft: %v", err)
		return "", err
	}

	category := &clients.Category{Name: draft.Name}
	var err error
	if mode == ModeEdit {
		_, err = f.client.UpdateCategory(ctx, id, category)
	} else {
		_, err = f.client.CreateCategory(ctx, category)
	}
	if err != nil {
		f.log.Errorf("CategoryForm: Failed to save category (%s): %v", mode, err)
		return "", fmt.Errorf("failed to save category: %w", err)
	}

	f.log.Infof("CategoryForm: Saved category '%s' (%s)", category.Name, mode)
	return RouteCategories, nil
}
