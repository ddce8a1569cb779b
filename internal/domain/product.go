package domain

import "context"

type SortField string

const (
	SortByID    SortField = "id"
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ProductQuery mirrors the json-server list parameters. Page 0 disables paging.
type ProductQuery struct {
	Page       int
	Limit      int
	Sort       SortField
	Order      SortOrder
	Search     string
	CategoryID int
}

func (q ProductQuery) Paged() bool {
	return q.Page > 0
}

func (q ProductQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

func ValidSortField(f SortField) bool {
	switch f {
	case SortByID, SortByName, SortByPrice:
		return true
	}
	return false
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int) (*Product, error)

	// ReplaceProduct overwrites every field; UpdateProduct applies a partial set.
	ReplaceProduct(ctx context.Context, product *Product) (*Product, error)
	UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*Product, error)

	DeleteProduct(ctx context.Context, id int) error

	// ListProducts returns the requested page and the number of matches before paging.
	ListProducts(ctx context.Context, query ProductQuery) ([]Product, int, error)
}
