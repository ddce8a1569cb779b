package clients

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	ProductsResource   = "products"
	CategoriesResource = "categories"

	TotalCountHeader = "X-Total-Count"
)

type ProductPage struct {
	Items      []Product
	TotalCount int
}

type CatalogClient interface {
	ListProducts(ctx context.Context, params url.Values) (*ProductPage, error)
	GetProduct(ctx context.Context, id ID) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	UpdateProduct(ctx context.Context, id ID, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id ID) error

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id ID) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	UpdateCategory(ctx context.Context, id ID, category *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id ID) error
}

type catalogClient struct {
	resources ResourceClient
	log       *logrus.Logger
}

func NewCatalogClient(resources ResourceClient, logger *logrus.Logger) CatalogClient {
	return &catalogClient{resources: resources, log: logger}
}

func (c *catalogClient) ListProducts(ctx context.Context, params url.Values) (*ProductPage, error) {
	resp, err := c.resources.List(ctx, ProductsResource, params)
	if err != nil {
		return nil, err
	}

	var items []Product
	if err := resp.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []Product{}
	}

	return &ProductPage{Items: items, TotalCount: c.totalCount(resp, len(items))}, nil
}

// totalCount reads X-Total-Count, falling back to the number of returned items.
func (c *catalogClient) totalCount(resp *Response, fallback int) int {
	raw := strings.TrimSpace(resp.Header.Get(TotalCountHeader))
	if raw == "" {
		c.log.Warnf("CatalogClient: %s header missing, using item count %d", TotalCountHeader, fallback)
		return fallback
	}
	total, err := strconv.Atoi(raw)
	if err != nil || total < 0 {
		c.log.Warnf("CatalogClient: Invalid %s header '%s', using item count %d", TotalCountHeader, raw, fallback)
		return fallback
	}
	return total
}

func (c *catalogClient) GetProduct(ctx context.Context, id ID) (*Product, error) {
	resp, err := c.resources.Get(ctx, ProductsResource, id)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := resp.Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *catalogClient) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	resp, err := c.resources.Create(ctx, ProductsResource, product)
	if err != nil {
		return nil, err
	}
	var created Product
	if err := resp.Decode(&created); err != nil {
		return nil, err
	}
	c.log.Infof("CatalogClient: Created product ID %s", created.ID)
	return &created, nil
}

func (c *catalogClient) UpdateProduct(ctx context.Context, id ID, product *Product) (*Product, error) {
	body := *product
	body.ID = id
	resp, err := c.resources.Update(ctx, ProductsResource, id, &body)
	if err != nil {
		return nil, err
	}
	var updated Product
	if err := resp.Decode(&updated); err != nil {
		return nil, err
	}
	c.log.Infof("CatalogClient: Updated product ID %s", id)
	return &updated, nil
}

func (c *catalogClient) DeleteProduct(ctx context.Context, id ID) error {
	if err := c.resources.Delete(ctx, ProductsResource, id); err != nil {
		return err
	}
	c.log.Infof("CatalogClient: Deleted product ID %s", id)
	return nil
}

func (c *catalogClient) ListCategories(ctx context.Context) ([]Category, error) {
	resp, err := c.resources.List(ctx, CategoriesResource, nil)
	if err != nil {
		return nil, err
	}
	var categories []Category
	if err := resp.Decode(&categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

func (c *catalogClient) GetCategory(ctx context.Context, id ID) (*Category, error) {
	resp, err := c.resources.Get(ctx, CategoriesResource, id)
	if err != nil {
		return nil, err
	}
	var category Category
	if err := resp.Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *catalogClient) CreateCategory(ctx context.Context, category *Category) (*Category, error) {
	resp, err := c.resources.Create(ctx, CategoriesResource, category)
	if err != nil {
		return nil, err
	}
	var created Category
	if err := resp.Decode(&created); err != nil {
		return nil, err
	}
	c.log.Infof("CatalogClient: Created category ID %s", created.ID)
	return &created, nil
}

func (c *catalogClient) UpdateCategory(ctx context.Context, id ID, category *Category) (*Category, error) {
	body := *category
	body.ID = id
	resp, err := c.resources.Update(ctx, CategoriesResource, id, &body)
	if err != nil {
		return nil, err
	}
	var updated Category
	if err := resp.Decode(&updated); err != nil {
		return nil, err
	}
	c.log.Infof("CatalogClient: Updated category ID %s", id)
	return &updated, nil
}

func (c *catalogClient) DeleteCategory(ctx context.Context, id ID) error {
	if err := c.resources.Delete(ctx, CategoriesResource, id); err != nil {
		return err
	}
	c.log.Infof("CatalogClient: Deleted category ID %s", id)
	return nil
}
