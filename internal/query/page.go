package query

import (
	"sort"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
)

// Page is one bounded slice of a product listing plus the navigation
// metadata needed to link to its neighbours.
type Page struct {
	Docs        []*domain.Product `json:"docs"`
	TotalDocs   int               `json:"totalDocs"`
	Limit       int               `json:"limit"`
	TotalPages  int               `json:"totalPages"`
	Page        int               `json:"page"`
	PrevPage    *int              `json:"prevPage"`
	NextPage    *int              `json:"nextPage"`
	HasPrevPage bool              `json:"hasPrevPage"`
	HasNextPage bool              `json:"hasNextPage"`
}

// NewPage assembles the metadata for docs, the already-sliced results of
// a query that matched total documents in all.
func NewPage(docs []*domain.Product, total int, p Params) *Page {
	p = p.Normalize()

	totalPages := (total + p.Limit - 1) / p.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	if docs == nil {
		docs = []*domain.Product{}
	}

	page := &Page{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		Page:        p.Page,
		HasPrevPage: p.Page > 1,
		HasNextPage: p.Page < totalPages,
	}

	if page.HasPrevPage {
		prev := p.Page - 1
		page.PrevPage = &prev
	}
	if page.HasNextPage {
		next := p.Page + 1
		page.NextPage = &next
	}

	return page
}

// Matches reports whether product satisfies the filter
func (f Filter) Matches(product *domain.Product) bool {
	if f.Status != nil && product.Status != *f.Status {
		return false
	}
	if f.Category != "" && product.Category != f.Category {
		return false
	}
	return true
}

// Apply runs the filter, sort and page steps over an in-memory product
// list. The input slice is not modified.
func Apply(products []*domain.Product, p Params) *Page {
	p = p.Normalize()
	filter := p.Filter()

	matched := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		if filter.Matches(product) {
			matched = append(matched, product)
		}
	}

	switch p.SortOrder() {
	case SortAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return NewPage(matched[start:end], len(matched), p)
}
