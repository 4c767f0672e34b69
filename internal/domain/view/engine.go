package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/domain/filter"
)

// Apply filters, sorts and paginates items. The input slice is not modified.
//
// Page numbers outside [1, TotalPages] yield an empty page, never an error.
// Errors are only returned for malformed queries (unknown field or operator,
// invalid expression).
func Apply[T any](items []T, schema Schema[T], q Query) (Result[T], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = schema.PageSize
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	preds, err := compileFilters(schema, q.Filters)
	if err != nil {
		return Result[T]{}, err
	}
	var expr *program
	if strings.TrimSpace(q.Expr) != "" {
		if expr, err = compileExpr(q.Expr); err != nil {
			return Result[T]{}, err
		}
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesSearch(schema, item, needle) {
			continue
		}
		if !matchesAll(preds, item) {
			continue
		}
		if expr != nil {
			ok, err := expr.eval(record(schema, item))
			if err != nil {
				return Result[T]{}, err
			}
			if !ok {
				continue
			}
		}
		matched = append(matched, item)
	}

	if q.Sort.Field != "" {
		if err := sortItems(schema, matched, q.Sort); err != nil {
			return Result[T]{}, err
		}
	}

	return paginate(matched, q.Page, pageSize), nil
}

func paginate[T any](matched []T, page, pageSize int) Result[T] {
	total := len(matched)
	res := Result[T]{
		Items:      matched,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
		PageItems:  []T{},
	}
	if page < 1 || page > res.TotalPages {
		return res
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	res.PageItems = matched[start:end]
	return res
}

func matchesSearch[T any](schema Schema[T], item T, needle string) bool {
	if needle == "" {
		return true
	}
	for _, fn := range schema.Searchable {
		if strings.Contains(strings.ToLower(fn(item)), needle) {
			return true
		}
	}
	return false
}

type predicate[T any] func(T) bool

func matchesAll[T any](preds []predicate[T], item T) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

func compileFilters[T any](schema Schema[T], items []filter.Item) ([]predicate[T], error) {
	preds := make([]predicate[T], 0, len(items))
	for _, it := range items {
		if it.MatchesAll() {
			continue
		}
		field, ok := schema.Fields[it.Field]
		if !ok {
			return nil, apperror.NewValidation("unknown filter field").
				WithDetail("field", it.Field)
		}
		op := it.Operator
		if op == "" {
			op = filter.InList
		}
		if !op.IsValid() {
			return nil, apperror.NewValidation("unknown filter operator").
				WithDetail("field", it.Field).
				WithDetail("operator", string(op))
		}
		p, err := buildPredicate(field, op, it)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func buildPredicate[T any](field Field[T], op filter.ComparisonType, it filter.Item) (predicate[T], error) {
	values := it.Values()
	if len(values) == 0 && it.Value != nil {
		values = []string{fmt.Sprint(it.Value)}
	}

	switch op {
	case filter.Equal, filter.InList:
		set := toSet(values)
		return func(v T) bool { return set[strings.ToLower(field.text(v))] }, nil
	case filter.NotEqual, filter.NotInList:
		set := toSet(values)
		return func(v T) bool { return !set[strings.ToLower(field.text(v))] }, nil
	case filter.Contains, filter.NotContains:
		want := op == filter.Contains
		needle := strings.ToLower(strings.Join(values, " "))
		return func(v T) bool {
			return strings.Contains(strings.ToLower(field.text(v)), needle) == want
		}, nil
	case filter.GreaterOrEqual, filter.LessOrEqual:
		if len(values) != 1 {
			return nil, apperror.NewValidation("range filter needs exactly one value").
				WithDetail("field", it.Field)
		}
		bound, err := parseBound(field.Kind, values[0])
		if err != nil {
			return nil, apperror.NewValidation("invalid range filter value").
				WithDetail("field", it.Field).
				WithDetail("value", values[0])
		}
		gte := op == filter.GreaterOrEqual
		return func(v T) bool {
			c := compareField(field, v, bound)
			if gte {
				return c >= 0
			}
			return c <= 0
		}, nil
	}
	return nil, apperror.NewValidation("unsupported filter operator")
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func parseBound(kind Kind, s string) (any, error) {
	switch kind {
	case KindNumber:
		return decimal.NewFromString(s)
	case KindTime:
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, s)
	default:
		return s, nil
	}
}

func compareField[T any](field Field[T], v T, bound any) int {
	switch field.Kind {
	case KindNumber:
		return field.Number(v).Cmp(bound.(decimal.Decimal))
	case KindTime:
		return field.Time(v).Compare(bound.(time.Time))
	default:
		return strings.Compare(field.String(v), bound.(string))
	}
}

func sortItems[T any](schema Schema[T], items []T, s Sort) error {
	field, ok := schema.Fields[s.Field]
	if !ok {
		return apperror.NewValidation("unknown sort field").WithDetail("field", s.Field)
	}

	var less func(a, b T) int
	switch field.Kind {
	case KindNumber:
		less = func(a, b T) int { return field.Number(a).Cmp(field.Number(b)) }
	case KindTime:
		less = func(a, b T) int { return field.Time(a).Compare(field.Time(b)) }
	default:
		tag := schema.Locale
		if tag == language.Und {
			tag = language.English
		}
		// Collator keeps internal buffers; one per call.
		col := collate.New(tag, collate.IgnoreCase)
		less = func(a, b T) int { return col.CompareString(field.String(a), field.String(b)) }
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

// record exposes the schema fields of item to expressions.
func record[T any](schema Schema[T], item T) map[string]any {
	rec := make(map[string]any, len(schema.Fields))
	for name, f := range schema.Fields {
		rec[name] = f.value(item)
	}
	return rec
}
