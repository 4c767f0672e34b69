// Package filter describes discrete list filters passed from a presentation layer.
package filter

// ComparisonType defines the kind of comparison.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"
	NotContains    ComparisonType = "ncontains"
)

// All is the "match all" sentinel; an item carrying it is ignored.
const All = "all"

// Item is one filter row.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"` // string, number or list of strings
}

// In builds an InList item, the usual field -> allowed-values filter.
func In(field string, values ...string) Item {
	return Item{Field: field, Operator: InList, Value: values}
}

// Eq builds an Equal item.
func Eq(field string, value string) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}

// Values returns the item value as a list of strings.
func (i Item) Values() []string {
	switch v := i.Value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// MatchesAll reports whether the item carries the match-all sentinel.
func (i Item) MatchesAll() bool {
	for _, v := range i.Values() {
		if v == All {
			return true
		}
	}
	return false
}

// IsValid reports whether the operator is known.
func (c ComparisonType) IsValid() bool {
	switch c {
	case Equal, NotEqual, LessOrEqual, GreaterOrEqual, InList, NotInList, Contains, NotContains:
		return true
	}
	return false
}
