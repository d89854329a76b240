package catalog

import (
	"iter"
	"sort"
	"strings"
	"sync"

	"nightloom_server/structs/tables"
)

// SortKey identifies a product ordering.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating-desc"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps a query-string value to a SortKey, defaulting to name
// ordering for unknown or empty input.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return SortKey(s)
	default:
		return SortName
	}
}

// View describes a derived slice of the catalog: a membership predicate plus
// search, price bounds, and ordering. A zero View passes everything through
// sorted by name.
type View struct {
	// Membership scopes the view to a listing. Nil means all products.
	Membership func(*tables.Product) bool

	// Search is matched case-insensitively against name and description.
	Search string

	// PriceMin is inclusive. PriceMax is inclusive and optional.
	PriceMin uint64
	PriceMax *uint64

	Sort SortKey
}

// Apply derives the view over the given products. The result is computed
// lazily on first iteration and reused across restarts of the returned
// sequence. The input slice is never mutated.
func (v View) Apply(products []tables.Product) iter.Seq[tables.Product] {
	var once sync.Once
	var derived []tables.Product

	return func(yield func(tables.Product) bool) {
		once.Do(func() {
			derived = v.derive(products)
		})
		for _, p := range derived {
			if !yield(p) {
				return
			}
		}
	}
}

func (v View) derive(products []tables.Product) []tables.Product {
	out := make([]tables.Product, 0, len(products))
	search := strings.ToLower(strings.TrimSpace(v.Search))

	for i := range products {
		p := &products[i]

		if v.Membership != nil && !v.Membership(p) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if p.Price < v.PriceMin {
			continue
		}
		if v.PriceMax != nil && p.Price > *v.PriceMax {
			continue
		}

		out = append(out, *p)
	}

	v.sortProducts(out)
	return out
}

func (v View) sortProducts(products []tables.Product) {
	switch v.Sort {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	}
}

// Tokens builds a membership predicate from token groups. A product matches
// when every group contributes at least one token found as a substring of
// the product's lowercased name, category name, or subcategory.
func Tokens(groups ...[]string) func(*tables.Product) bool {
	return func(p *tables.Product) bool {
		haystack := strings.ToLower(p.Name + " " + p.CategoryName() + " " + p.Subcategory)

		for _, group := range groups {
			matched := false
			for _, token := range group {
				if strings.Contains(haystack, strings.ToLower(token)) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	}
}
