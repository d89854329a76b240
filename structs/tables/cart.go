package tables

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one row of a user's cart. At most one row exists per
// (user, product, variant) triple; a nil VariantID is its own identity,
// distinct from any concrete variant.
type CartItem struct {
	tableName struct{}        `bun:"table:cart_items,alias:ci"`
	ID        uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	UserID    uuid.UUID       `bun:"user_id,type:uuid,notnull" json:"user_id"`
	ProductID uuid.UUID       `bun:"product_id,type:uuid,notnull" json:"product_id"`
	VariantID *uuid.UUID      `bun:"variant_id,type:uuid" json:"variant_id,omitempty"`
	Quantity  int             `bun:"quantity,notnull" json:"quantity"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Product   *Product        `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
	Variant   *ProductVariant `bun:"rel:belongs-to,join:variant_id=id" json:"variant,omitempty"`
}
