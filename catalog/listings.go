package catalog

import "nightloom_server/structs/tables"

// Listing is a curated storefront page backed by token-group matching rather
// than exact category membership, so loosely tagged products still land on
// the right page.
type Listing struct {
	Slug   string
	Title  string
	Groups [][]string
}

// Membership returns the token predicate for this listing.
func (l *Listing) Membership() func(*tables.Product) bool {
	return Tokens(l.Groups...)
}

var listings = []Listing{
	{
		Slug:   "night-t-shirts",
		Title:  "Night T-Shirts",
		Groups: [][]string{{"night"}, {"t-shirt", "tshirt", "tee"}},
	},
	{
		Slug:   "hoodies",
		Title:  "Hoodies & Sweatshirts",
		Groups: [][]string{{"hoodie", "sweatshirt"}},
	},
	{
		Slug:   "outerwear",
		Title:  "Outerwear",
		Groups: [][]string{{"jacket", "coat", "parka"}},
	},
	{
		Slug:   "accessories",
		Title:  "Accessories",
		Groups: [][]string{{"cap", "beanie", "scarf", "bag", "sock"}},
	},
}

// FindListing looks up a listing by slug.
func FindListing(slug string) (*Listing, bool) {
	for i := range listings {
		if listings[i].Slug == slug {
			return &listings[i], true
		}
	}
	return nil, false
}

// Listings returns all curated listings.
func Listings() []Listing {
	out := make([]Listing, len(listings))
	copy(out, listings)
	return out
}
