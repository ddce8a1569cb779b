package console

import (
	"net/url"
	"strconv"
	"strings"
)

const ProductPageSize = 5

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Toggle() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// ListState is the product list's view state. Methods return copies.
type ListState struct {
	Page       int
	SearchTerm string
	SortOrder  SortOrder
}

func NewListState() ListState {
	return ListState{Page: 1, SortOrder: SortAsc}
}

// WithSearch always resets the page to 1, even when the term is unchanged.
func (s ListState) WithSearch(term string) ListState {
	s.SearchTerm = term
	s.Page = 1
	return s
}

func (s ListState) WithSort(order SortOrder) ListState {
	if order != SortDesc {
		order = SortAsc
	}
	s.SortOrder = order
	return s
}

func (s ListState) ToggleSort() ListState {
	return s.WithSort(s.SortOrder.Toggle())
}

func (s ListState) WithPage(page int) ListState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// BuildProductParams turns a list state into json-server query parameters.
func BuildProductParams(s ListState) url.Values {
	page := s.Page
	if page < 1 {
		page = 1
	}
	order := s.SortOrder
	if order != SortDesc {
		order = SortAsc
	}

	params := url.Values{}
	params.Set("_page", strconv.Itoa(page))
	params.Set("_limit", strconv.Itoa(ProductPageSize))
	params.Set("_sort", "price")
	params.Set("_order", string(order))
	if term := strings.TrimSpace(s.SearchTerm); term != "" {
		params.Set("q", term)
	}
	return params
}

func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
