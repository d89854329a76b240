package tables

import (
	"time"

	"github.com/google/uuid"
)

// PlaceholderImageURL is served when a product carries no images at all.
const PlaceholderImageURL = "/images/placeholder.png"

type Category struct {
	tableName struct{}  `bun:"table:categories,alias:c"`
	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
}

type Product struct {
	tableName     struct{}         `bun:"table:products,alias:p"`
	ID            uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	Name          string           `bun:"name,notnull" json:"name"`
	Description   string           `bun:"description,notnull" json:"description"`
	CategoryID    uuid.UUID        `bun:"category_id,type:uuid,notnull" json:"category_id"`
	Subcategory   string           `bun:"subcategory" json:"subcategory,omitempty"` // free-text label, tagging is inconsistent on purpose
	Price         uint64           `bun:"price,notnull" json:"price"`               // minor currency units
	OriginalPrice *uint64          `bun:"original_price" json:"original_price,omitempty"`
	SKU           string           `bun:"sku,notnull" json:"sku"`
	Slug          string           `bun:"slug,notnull,unique" json:"slug"`
	IsActive      bool             `bun:"is_active,notnull" json:"is_active"`
	IsHotSale     bool             `bun:"is_hot_sale,notnull" json:"is_hot_sale"`
	Rating        float64          `bun:"rating,notnull" json:"rating"` // 0..5
	ReviewCount   int              `bun:"review_count,notnull" json:"review_count"`
	CreatedAt     time.Time        `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time        `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Category      *Category        `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Images        []ProductImage   `bun:"rel:has-many,join:id=product_id" json:"images,omitempty"`
	Variants      []ProductVariant `bun:"rel:has-many,join:id=product_id" json:"variants,omitempty"`
}

// DisplayImage resolves the image to show for a product: the primary-flagged
// image if one exists, otherwise the image with the lowest sort order (ties
// keep insertion order). Returns nil when the product has no images.
func (p *Product) DisplayImage() *ProductImage {
	if len(p.Images) == 0 {
		return nil
	}

	best := &p.Images[0]
	for i := range p.Images {
		img := &p.Images[i]
		if img.IsPrimary {
			return img
		}
		if img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best
}

// DisplayImageURL returns the display image URL, falling back to the
// placeholder when the product has no images.
func (p *Product) DisplayImageURL() string {
	if img := p.DisplayImage(); img != nil {
		return img.URL
	}
	return PlaceholderImageURL
}

// CategoryName returns the joined category name, or "" when the relation was
// not loaded.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// ProductImage represents an image for a product
type ProductImage struct {
	tableName struct{}  `bun:"table:product_images,alias:pi"`
	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	URL       string    `bun:"url,notnull" json:"url"`
	AltText   string    `bun:"alt_text" json:"alt_text,omitempty"` // optional, empty string if none
	IsPrimary bool      `bun:"is_primary,notnull" json:"is_primary"`
	SortOrder int       `bun:"sort_order,notnull" json:"sort_order"`
}

// ProductVariant is a concrete size/color SKU under a parent product. A
// product with no variants is still sellable as a single default SKU.
type ProductVariant struct {
	tableName  struct{}  `bun:"table:product_variants,alias:pv"`
	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID  uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	Size       string    `bun:"size" json:"size,omitempty"`
	ColorName  string    `bun:"color_name" json:"color_name,omitempty"`
	ColorCode  string    `bun:"color_code" json:"color_code,omitempty"` // swatch hex
	Stock      int       `bun:"stock,notnull" json:"stock"`
	PriceDelta int64     `bun:"price_delta,notnull" json:"price_delta"` // signed, applied to base price
	IsActive   bool      `bun:"is_active,notnull" json:"is_active"`
}
