package store

import (
	"context"
	"time"

	"nightloom_server/database"
	"nightloom_server/lib"
	"nightloom_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CartStore persists cart rows. One row per (user, product, variant); a nil
// variant is stored as NULL and treated as its own identity.
type CartStore struct {
	db *database.DB
}

func NewCartStore(db *database.DB) *CartStore {
	return &CartStore{db: db}
}

// ListForUser returns the user's cart rows with product, image, and variant
// relations preloaded, newest first.
func (cs *CartStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]tables.CartItem, error) {
	return database.Query[tables.CartItem](cs.db).
		Relation("Product").
		RelationWith("Product.Images", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sort_order ASC")
		}).
		Relation("Variant").
		Where("user_id", userID).
		OrderBy("created_at", database.DESC).
		All(ctx)
}

// Find returns the row for the (user, product, variant) triple, or nil when
// no such row exists.
func (cs *CartStore) Find(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*tables.CartItem, error) {
	q := database.Query[tables.CartItem](cs.db).
		Where("user_id", userID).
		Where("product_id", productID)

	if variantID == nil {
		q = q.WhereNull("variant_id")
	} else {
		q = q.Where("variant_id", *variantID)
	}

	return q.First(ctx)
}

// Insert stores a new cart row. A unique violation on the
// (user, product, variant) index surfaces as lib.ErrConflict.
func (cs *CartStore) Insert(ctx context.Context, item *tables.CartItem) (*tables.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	inserted, err := database.Query[tables.CartItem](cs.db).Insert(ctx, item)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return inserted, nil
}

// SetQuantity updates the quantity of one of the user's rows. A row that
// does not exist or belongs to another user surfaces as lib.ErrNotFound.
func (cs *CartStore) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	affected, err := database.Query[tables.CartItem](cs.db).
		Where("id", itemID).
		Where("user_id", userID).
		Update(ctx, map[string]any{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if err != nil {
		return err
	}
	if affected == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// Delete removes one of the user's rows. A row that does not exist or
// belongs to another user surfaces as lib.ErrNotFound.
func (cs *CartStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	affected, err := database.Query[tables.CartItem](cs.db).
		Where("id", itemID).
		Where("user_id", userID).
		Delete(ctx)
	if err != nil {
		return err
	}
	if affected == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// DeleteAllForUser empties the user's cart.
func (cs *CartStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := database.Query[tables.CartItem](cs.db).
		Where("user_id", userID).
		Delete(ctx)
	return err
}
