package query

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []*domain.Product {
	return []*domain.Product{
		{ID: "1", Code: "MOUSE-001", Price: 2500, Category: "gaming-peripherals", Status: true},
		{ID: "2", Code: "GPU-001", Price: 180000, Category: "graphics-cards", Status: true},
		{ID: "3", Code: "AUDIO-001", Price: 8500, Category: "gaming-peripherals", Status: false},
		{ID: "4", Code: "SSD-001", Price: 35000, Category: "storage", Status: true},
		{ID: "5", Code: "CHAIR-001", Price: 75000, Category: "gaming-peripherals", Status: false},
	}
}

func ids(docs []*domain.Product) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestParseParams(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		want  Params
	}{
		{"Defaults", "", Params{Page: 1, Limit: 10}},
		{"Explicit", "page=2&limit=5&query=storage&sort=desc", Params{Query: "storage", Sort: "desc", Page: 2, Limit: 5}},
		{"Invalid numbers", "page=abc&limit=-4", Params{Page: 1, Limit: 10}},
		{"Limit clamped", "limit=1000", Params{Page: 1, Limit: MaxLimit}},
		{"Page clamped", "page=1000000000000000000", Params{Page: MaxPage, Limit: 10}},
		{"Page out of int range", "page=99999999999999999999999", Params{Page: MaxPage, Limit: 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ParseParams(values))
		})
	}
}

func TestFilterTokens(t *testing.T) {
	f := Params{Query: "Available"}.Filter()
	require.NotNil(t, f.Status)
	assert.True(t, *f.Status)

	f = Params{Query: "unavailable"}.Filter()
	require.NotNil(t, f.Status)
	assert.False(t, *f.Status)

	f = Params{Query: "Storage"}.Filter()
	assert.Nil(t, f.Status)
	assert.Equal(t, "Storage", f.Category)
}

func TestApplyFilterAndSort(t *testing.T) {
	testCases := []struct {
		name   string
		params Params
		want   []string
	}{
		{"No filter keeps storage order", Params{}, []string{"1", "2", "3", "4", "5"}},
		{"Category", Params{Query: "gaming-peripherals"}, []string{"1", "3", "5"}},
		{"Unknown token is a category", Params{Query: "nothing-here"}, []string{}},
		{"Available", Params{Query: "available"}, []string{"1", "2", "4"}},
		{"Unavailable sorted desc", Params{Query: "unavailable", Sort: "desc"}, []string{"5", "3"}},
		{"Sort asc", Params{Sort: "asc"}, []string{"1", "3", "4", "5", "2"}},
		{"Unknown sort keeps order", Params{Sort: "sideways"}, []string{"1", "2", "3", "4", "5"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := Apply(sampleProducts(), tc.params)
			assert.Equal(t, tc.want, ids(page.Docs))
		})
	}
}

func TestApplyPagination(t *testing.T) {
	products := sampleProducts()

	first := Apply(products, Params{Page: 1, Limit: 2})
	assert.Equal(t, []string{"1", "2"}, ids(first.Docs))
	assert.Equal(t, 3, first.TotalPages)
	assert.False(t, first.HasPrevPage)
	assert.True(t, first.HasNextPage)
	assert.Nil(t, first.PrevPage)
	require.NotNil(t, first.NextPage)
	assert.Equal(t, 2, *first.NextPage)

	last := Apply(products, Params{Page: 3, Limit: 2})
	assert.Equal(t, []string{"5"}, ids(last.Docs))
	assert.True(t, last.HasPrevPage)
	assert.False(t, last.HasNextPage)
	assert.Nil(t, last.NextPage)
	require.NotNil(t, last.PrevPage)
	assert.Equal(t, 2, *last.PrevPage)
}

func TestApplyPageBeyondLast(t *testing.T) {
	products := sampleProducts()

	for _, query := range []string{"", "gaming-peripherals", "available"} {
		t.Run(fmt.Sprintf("query=%q", query), func(t *testing.T) {
			valid := Apply(products, Params{Query: query, Page: 1, Limit: 2})
			beyond := Apply(products, Params{Query: query, Page: valid.TotalPages + 3, Limit: 2})

			assert.NotNil(t, beyond.Docs)
			assert.Empty(t, beyond.Docs)
			assert.False(t, beyond.HasNextPage)
			assert.Equal(t, valid.TotalPages, beyond.TotalPages)
			assert.Equal(t, valid.TotalDocs, beyond.TotalDocs)
		})
	}

	for _, page := range []string{"1000000000000000000", "99999999999999999999999"} {
		t.Run("page="+page, func(t *testing.T) {
			for _, limit := range []string{"1", "10", "100"} {
				p := ParseParams(url.Values{"page": {page}, "limit": {limit}})
				assert.GreaterOrEqual(t, p.Offset(), 0)

				beyond := Apply(products, p)
				assert.NotNil(t, beyond.Docs)
				assert.Empty(t, beyond.Docs)
				assert.False(t, beyond.HasNextPage)
				assert.Nil(t, beyond.NextPage)
			}
		})
	}
}

func TestNewPageEmptyResult(t *testing.T) {
	page := NewPage(nil, 0, Params{Page: 1, Limit: 10})
	assert.Equal(t, 1, page.TotalPages)
	assert.NotNil(t, page.Docs)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
}
