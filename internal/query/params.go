package query

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within an int for every valid limit
	MaxPage = math.MaxInt / MaxLimit
)

// Availability tokens recognised by the query parameter
const (
	TokenAvailable   = "available"
	TokenUnavailable = "unavailable"
)

// SortOrder orders results by price
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

// Params are the list parameters accepted by every product store
type Params struct {
	// Query is either an availability token or a category
	Query string
	// Sort is "asc" or "desc" by price; anything else keeps storage order
	Sort  string
	Page  int
	Limit int
}

// Filter is the structured form of Params.Query
type Filter struct {
	Category string
	Status   *bool
}

// ParseParams reads limit, page, query and sort from a URL query string.
// Missing or invalid page and limit values fall back to the defaults.
func ParseParams(values url.Values) Params {
	p := Params{
		Query: strings.TrimSpace(values.Get("query")),
		Sort:  strings.TrimSpace(values.Get("sort")),
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	// an out of range page is still a page past the last one
	if v, err := strconv.Atoi(values.Get("page")); (err == nil || errors.Is(err, strconv.ErrRange)) && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}

	return p.Normalize()
}

// Normalize clamps page and limit into their valid ranges
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Filter translates the query token. The availability tokens are matched
// case-insensitively; any other value is an exact category match.
func (p Params) Filter() Filter {
	if p.Query == "" {
		return Filter{}
	}

	switch strings.ToLower(p.Query) {
	case TokenAvailable:
		available := true
		return Filter{Status: &available}
	case TokenUnavailable:
		available := false
		return Filter{Status: &available}
	default:
		return Filter{Category: p.Query}
	}
}

// SortOrder translates the sort token
func (p Params) SortOrder() SortOrder {
	switch strings.ToLower(p.Sort) {
	case "asc":
		return SortAsc
	case "desc":
		return SortDesc
	default:
		return SortNone
	}
}

// Offset is the number of matching documents preceding the requested page
func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// Values renders the params back into a query string, used for page links
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("query", p.Query)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	v.Set("limit", strconv.Itoa(p.Limit))
	v.Set("page", strconv.Itoa(p.Page))
	return v
}
