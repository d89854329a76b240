package services

import (
	"time"

	"nightloom_server/structs/tables"

	"github.com/google/uuid"
)

// FallbackCatalog returns a small fixed product set for when the real
// catalog cannot be loaded, so the storefront still renders something
// browsable. It is served directly to the caller and must never be written
// to the cache or the database.
func FallbackCatalog() []tables.Product {
	launched := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	streetwear := tables.Category{
		ID:   uuid.MustParse("3f1c5b9e-0000-4000-8000-000000000001"),
		Name: "Streetwear",
		Slug: "streetwear",
	}
	original := uint64(5900)

	return []tables.Product{
		{
			ID:          uuid.MustParse("3f1c5b9e-0000-4000-8000-000000000101"),
			Name:        "Midnight Tee",
			Description: "Heavyweight cotton t-shirt in washed black.",
			CategoryID:  streetwear.ID,
			Category:    &streetwear,
			Subcategory: "t-shirts",
			Price:       3500,
			SKU:         "NL-FB-001",
			Slug:        "midnight-tee",
			IsActive:    true,
			Rating:      4.6,
			ReviewCount: 112,
			CreatedAt:   launched,
			UpdatedAt:   launched,
		},
		{
			ID:            uuid.MustParse("3f1c5b9e-0000-4000-8000-000000000102"),
			Name:          "Night Shift Hoodie",
			Description:   "Oversized fleece hoodie with tonal embroidery.",
			CategoryID:    streetwear.ID,
			Category:      &streetwear,
			Subcategory:   "hoodies",
			Price:         4900,
			OriginalPrice: &original,
			SKU:           "NL-FB-002",
			Slug:          "night-shift-hoodie",
			IsActive:      true,
			IsHotSale:     true,
			Rating:        4.8,
			ReviewCount:   87,
			CreatedAt:     launched,
			UpdatedAt:     launched,
		},
		{
			ID:          uuid.MustParse("3f1c5b9e-0000-4000-8000-000000000103"),
			Name:        "Lumen Cap",
			Description: "Low-profile cap with reflective stitching.",
			CategoryID:  streetwear.ID,
			Category:    &streetwear,
			Subcategory: "accessories",
			Price:       1900,
			SKU:         "NL-FB-003",
			Slug:        "lumen-cap",
			IsActive:    true,
			Rating:      4.2,
			ReviewCount: 34,
			CreatedAt:   launched,
			UpdatedAt:   launched,
		},
	}
}
