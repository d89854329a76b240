package store

import (
	"context"

	"nightloom_server/database"
	"nightloom_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CatalogStore reads products and categories. All product fetches preload
// the category, image, and variant relations so derived views and product
// cards work the same regardless of which listing surfaced the row.
type CatalogStore struct {
	db *database.DB
}

func NewCatalogStore(db *database.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func withImages(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("sort_order ASC")
}

// productQuery is the shared base for every product fetch: active rows with
// all relations preloaded.
func (cs *CatalogStore) productQuery() *database.QueryBuilder[tables.Product] {
	return database.Query[tables.Product](cs.db).
		Relation("Category").
		RelationWith("Images", withImages).
		Relation("Variants").
		Where("is_active", true)
}

// FetchActive returns every active product with relations, newest first.
func (cs *CatalogStore) FetchActive(ctx context.Context) ([]tables.Product, error) {
	return cs.productQuery().
		OrderBy("created_at", database.DESC).
		All(ctx)
}

// FetchBySlug returns one active product by slug, or nil when absent.
func (cs *CatalogStore) FetchBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	return cs.productQuery().
		Where("slug", slug).
		First(ctx)
}

// FetchByID returns one active product by ID, or nil when absent.
func (cs *CatalogStore) FetchByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return cs.productQuery().
		Where("id", id).
		First(ctx)
}

// FetchCategoryBySlug looks up a category by slug, or nil when absent.
func (cs *CatalogStore) FetchCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	return database.Query[tables.Category](cs.db).
		Where("slug", slug).
		First(ctx)
}

// FetchByCategory returns active products in a category, newest first.
func (cs *CatalogStore) FetchByCategory(ctx context.Context, categoryID uuid.UUID) ([]tables.Product, error) {
	return cs.productQuery().
		Where("category_id", categoryID).
		OrderBy("created_at", database.DESC).
		All(ctx)
}

func (cs *CatalogStore) hotSaleQuery(limit int) *database.QueryBuilder[tables.Product] {
	return cs.productQuery().
		Where("is_hot_sale", true).
		OrderBy("created_at", database.DESC).
		Limit(limit)
}

// FetchHotSale returns up to limit active products flagged for the hot
// sale, newest first.
func (cs *CatalogStore) FetchHotSale(ctx context.Context, limit int) ([]tables.Product, error) {
	return cs.hotSaleQuery(limit).All(ctx)
}

func (cs *CatalogStore) relatedQuery(categoryID, excludeID uuid.UUID, limit int) *database.QueryBuilder[tables.Product] {
	return cs.productQuery().
		Where("category_id", categoryID).
		WhereNot("id", excludeID).
		OrderBy("created_at", database.DESC).
		Limit(limit)
}

// FetchRelated returns active products sharing a category, excluding the
// product itself, newest first.
func (cs *CatalogStore) FetchRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]tables.Product, error) {
	return cs.relatedQuery(categoryID, excludeID, limit).All(ctx)
}

func (cs *CatalogStore) recommendedQuery(limit int) *database.QueryBuilder[tables.Product] {
	return cs.productQuery().
		Or().
		Where("is_hot_sale", true).
		WhereOp("rating", ">=", 4.0).
		End().
		OrderBy("rating", database.DESC).
		Limit(limit)
}

// FetchRecommended returns active products that are either on hot sale or
// highly rated, best rated first.
func (cs *CatalogStore) FetchRecommended(ctx context.Context, limit int) ([]tables.Product, error) {
	return cs.recommendedQuery(limit).All(ctx)
}
