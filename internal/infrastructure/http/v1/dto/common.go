// Package dto provides Data Transfer Objects for API requests/responses.
//
// Amounts travel as decimal strings. Every request is parsed into domain
// values before a service is called, so a malformed amount never reaches
// the store.
package dto

import (
	"encoding/json"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/filter"
	"bizdesk/internal/domain/view"
)

// --- Generic responses ---

// IDResponse contains just an ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse is one page of a derived view.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// FromResult converts a view result, never returning a nil item slice.
func FromResult[T any](r view.Result[T]) ListResponse[T] {
	items := r.PageItems
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:      items,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
		TotalPages: r.TotalPages,
	}
}

// ItemsResponse wraps a plain list.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// Items builds an ItemsResponse, never returning a nil slice.
func Items[T any](items []T) ItemsResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ItemsResponse[T]{Items: items}
}

// --- View query ---

// ViewQueryRequest carries list-view state in query parameters.
//
// filter is a JSON array of filter items, e.g.
// [{"field":"status","operator":"in","value":["paid","overdue"]}].
type ViewQueryRequest struct {
	Search   string `form:"search"`
	Filter   string `form:"filter"`
	Sort     string `form:"sort"`
	Desc     bool   `form:"desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Expr     string `form:"expr"`
}

// ToQuery converts the request into a view query.
func (r *ViewQueryRequest) ToQuery(defaultPageSize int) (view.Query, error) {
	q := view.NewQuery().WithSearch(r.Search).WithSort(r.Sort, r.Desc)
	if r.Filter != "" {
		var items []filter.Item
		if err := json.Unmarshal([]byte(r.Filter), &items); err != nil {
			return view.Query{}, apperror.NewValidation("invalid filter format (json expected)").
				WithDetail("field", "filter")
		}
		for _, it := range items {
			q = q.WithFilter(it)
		}
	}
	if r.Expr != "" {
		if err := view.ValidateExpr(r.Expr); err != nil {
			return view.Query{}, err
		}
		q = q.WithExpr(r.Expr)
	}
	if r.Page > 0 {
		q = q.WithPage(r.Page)
	}
	q.PageSize = defaultPageSize
	if r.PageSize > 0 {
		q.PageSize = r.PageSize
	}
	return q, nil
}

// --- Parsing helpers ---

// ParseMoney parses a required decimal string.
func ParseMoney(field, s string) (types.Money, error) {
	return types.ParseMoney(field, s)
}

// ParseOptionalMoney parses a decimal string, treating empty input as zero.
func ParseOptionalMoney(field, s string) (types.Money, error) {
	if strings.TrimSpace(s) == "" {
		return types.Zero(), nil
	}
	return types.ParseMoney(field, s)
}

// ParseIDs parses a list of ids, failing on the first bad one.
func ParseIDs(field string, raw []string) ([]id.ID, error) {
	out := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		v, err := id.ParseField(field, s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// IDsRequest is a batch of record ids.
type IDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}
