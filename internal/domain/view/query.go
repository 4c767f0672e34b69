// Package view computes filtered, sorted and paginated projections of a collection.
//
// Everything here is a pure function of (records, query): nothing is cached and
// no record is modified.
package view

import (
	"bizdesk/internal/domain/filter"
)

// DefaultPageSize is used when neither the query nor the schema set one.
const DefaultPageSize = 10

// Sort is a sort key and direction.
type Sort struct {
	Field string `json:"field" form:"sort"`
	Desc  bool   `json:"desc" form:"desc"`
}

// Query is the state of one list view.
type Query struct {
	Search   string        `json:"search,omitempty"`
	Filters  []filter.Item `json:"filters,omitempty"`
	Sort     Sort          `json:"sort"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize,omitempty"`

	// Expr is an optional CEL predicate over `record`, e.g.
	// `record.stock < 5 && record.category == "Tools"`.
	Expr string `json:"expr,omitempty"`
}

// NewQuery returns the first page with no search, filter or sort.
func NewQuery() Query {
	return Query{Page: 1}
}

// WithSearch changes the search text and goes back to page 1.
func (q Query) WithSearch(s string) Query {
	q.Search = s
	q.Page = 1
	return q
}

// WithFilter replaces the filter on item.Field and goes back to page 1.
func (q Query) WithFilter(item filter.Item) Query {
	filters := make([]filter.Item, 0, len(q.Filters)+1)
	for _, f := range q.Filters {
		if f.Field != item.Field {
			filters = append(filters, f)
		}
	}
	q.Filters = append(filters, item)
	q.Page = 1
	return q
}

// WithExpr changes the expression filter and goes back to page 1.
func (q Query) WithExpr(expr string) Query {
	q.Expr = expr
	q.Page = 1
	return q
}

// WithSort changes the ordering. The current page is kept.
func (q Query) WithSort(field string, desc bool) Query {
	q.Sort = Sort{Field: field, Desc: desc}
	return q
}

// WithPage moves to another page.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// Result is the projection of a collection for one query.
type Result[T any] struct {
	// Items is the full filtered and sorted result set
	Items []T `json:"-"`

	// PageItems is the slice for the requested page; empty when out of range
	PageItems  []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`

	// TotalPages is ceil(TotalCount / PageSize); 0 when nothing matched
	TotalPages int `json:"totalPages"`
}
