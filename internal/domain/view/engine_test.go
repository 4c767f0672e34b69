package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/domain/filter"
)

type row struct {
	Name   string
	Email  string
	Status string
	Stock  int
	Price  decimal.Decimal
	Date   time.Time
}

func rowSchema(pageSize int) Schema[row] {
	return Schema[row]{
		Searchable: []func(row) string{
			func(r row) string { return r.Name },
			func(r row) string { return r.Email },
		},
		Fields: map[string]Field[row]{
			"name":   Str(func(r row) string { return r.Name }),
			"status": Str(func(r row) string { return r.Status }),
			"stock":  Int(func(r row) int { return r.Stock }),
			"price":  Num(func(r row) decimal.Decimal { return r.Price }),
			"date":   Date(func(r row) time.Time { return r.Date }),
		},
		PageSize: pageSize,
	}
}

func sampleRows() []row {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	return []row{
		{Name: "Bravo GmbH", Email: "info@bravo.de", Status: "active", Stock: 5, Price: decimal.NewFromInt(20), Date: day(3)},
		{Name: "alpha SA", Email: "hi@alpha.fr", Status: "inactive", Stock: 50, Price: decimal.NewFromInt(5), Date: day(1)},
		{Name: "Charlie Ltd", Email: "sales@charlie.co.uk", Status: "active", Stock: 0, Price: decimal.NewFromInt(100), Date: day(2)},
		{Name: "Ärger AG", Email: "x@aerger.de", Status: "active", Stock: 12, Price: decimal.NewFromInt(20), Date: day(4)},
	}
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestApply_SearchIsCaseInsensitiveOverAnySearchableField(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "empty matches all", search: "", want: []string{"Bravo GmbH", "alpha SA", "Charlie Ltd", "Ärger AG"}},
		{name: "name", search: "ALPHA", want: []string{"alpha SA"}},
		{name: "email", search: "co.uk", want: []string{"Charlie Ltd"}},
		{name: "no match", search: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(sampleRows(), rowSchema(10), NewQuery().WithSearch(tt.search))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(res.Items))
		})
	}
}

func TestApply_FiltersAreConjunctiveAndAllBypasses(t *testing.T) {
	q := NewQuery().
		WithFilter(filter.In("status", "active")).
		WithSearch("de")
	res, err := Apply(sampleRows(), rowSchema(10), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo GmbH", "Ärger AG"}, names(res.Items))

	q = q.WithFilter(filter.In("status", filter.All))
	res, err = Apply(sampleRows(), rowSchema(10), q)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestApply_RangeFilters(t *testing.T) {
	q := NewQuery().WithFilter(filter.Item{Field: "stock", Operator: filter.GreaterOrEqual, Value: "12"})
	res, err := Apply(sampleRows(), rowSchema(10), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha SA", "Ärger AG"}, names(res.Items))

	q = NewQuery().WithFilter(filter.Item{Field: "date", Operator: filter.LessOrEqual, Value: "2026-01-02"})
	res, err = Apply(sampleRows(), rowSchema(10), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha SA", "Charlie Ltd"}, names(res.Items))
}

func TestApply_Sorting(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{name: "string collated", sort: Sort{Field: "name"}, want: []string{"alpha SA", "Ärger AG", "Bravo GmbH", "Charlie Ltd"}},
		{name: "number desc", sort: Sort{Field: "stock", Desc: true}, want: []string{"alpha SA", "Ärger AG", "Bravo GmbH", "Charlie Ltd"}},
		{name: "date asc", sort: Sort{Field: "date"}, want: []string{"alpha SA", "Charlie Ltd", "Bravo GmbH", "Ärger AG"}},
		{name: "ties keep collection order", sort: Sort{Field: "price", Desc: true}, want: []string{"Charlie Ltd", "Bravo GmbH", "Ärger AG", "alpha SA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(sampleRows(), rowSchema(10), NewQuery().WithSort(tt.sort.Field, tt.sort.Desc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(res.Items))
		})
	}
}

func TestApply_Pagination(t *testing.T) {
	const pageSize = 3
	rows := make([]row, pageSize+1)
	for i := range rows {
		rows[i] = row{Name: fmt.Sprintf("r%d", i)}
	}

	res, err := Apply(rows, rowSchema(pageSize), NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.PageItems, pageSize)

	res, err = Apply(rows, rowSchema(pageSize), NewQuery().WithPage(2))
	require.NoError(t, err)
	assert.Len(t, res.PageItems, 1)

	for _, page := range []int{0, -1, 3, 99} {
		res, err = Apply(rows, rowSchema(pageSize), NewQuery().WithPage(page))
		require.NoError(t, err)
		assert.Empty(t, res.PageItems, "page %d", page)
		assert.Equal(t, pageSize+1, res.TotalCount)
	}
}

func TestApply_ZeroMatchesHasZeroPages(t *testing.T) {
	res, err := Apply(sampleRows(), rowSchema(2), NewQuery().WithSearch("nothing here"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalPages)
	assert.Equal(t, 0, res.TotalCount)
	assert.NotNil(t, res.PageItems)
	assert.Empty(t, res.PageItems)

	res, err = Apply([]row{}, rowSchema(2), NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalPages)
}

func TestQuery_ChangingSearchOrFilterResetsPage(t *testing.T) {
	q := NewQuery().WithPage(4)
	assert.Equal(t, 1, q.WithSearch("x").Page)
	assert.Equal(t, 1, q.WithFilter(filter.In("status", "active")).Page)
	assert.Equal(t, 4, q.WithSort("name", false).Page)
}

func TestApply_Expression(t *testing.T) {
	q := NewQuery().WithExpr(`record.stock < 10.0 && record.status == "active"`)
	res, err := Apply(sampleRows(), rowSchema(10), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo GmbH", "Charlie Ltd"}, names(res.Items))

	_, err = Apply(sampleRows(), rowSchema(10), NewQuery().WithExpr(`record.stock <`))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = Apply(sampleRows(), rowSchema(10), NewQuery().WithExpr(`record.name`))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestApply_RejectsUnknownFields(t *testing.T) {
	_, err := Apply(sampleRows(), rowSchema(10), NewQuery().WithSort("nope", false))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = Apply(sampleRows(), rowSchema(10), NewQuery().WithFilter(filter.In("nope", "x")))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	rows := sampleRows()
	before := names(rows)
	_, err := Apply(rows, rowSchema(10), NewQuery().WithSort("name", true))
	require.NoError(t, err)
	assert.Equal(t, before, names(rows))
}

func TestProgramCache_Bounded(t *testing.T) {
	c := newProgramCache(3)
	for i := range 5 {
		p, err := compileExpr(fmt.Sprintf("record.stock > %d", i))
		require.NoError(t, err)
		c.put(p)
	}
	assert.Equal(t, 3, c.size())

	_, ok := c.get("record.stock > 0")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.get("record.stock > 4")
	assert.True(t, ok)

	// a hit refreshes the entry so it survives the next eviction
	_, ok = c.get("record.stock > 2")
	require.True(t, ok)
	p, err := compileExpr("record.stock > 5")
	require.NoError(t, err)
	c.put(p)
	_, ok = c.get("record.stock > 2")
	assert.True(t, ok)
	_, ok = c.get("record.stock > 3")
	assert.False(t, ok)

	for i := range maxCachedPrograms + 10 {
		require.NoError(t, ValidateExpr(fmt.Sprintf(`record.name == "n%d"`, i)))
	}
	assert.LessOrEqual(t, programs.size(), maxCachedPrograms)
}
