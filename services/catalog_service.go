package services

import (
	"context"
	"fmt"

	"nightloom_server/lib"
	"nightloom_server/structs"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CatalogBackend is the persistence surface the catalog service needs. The
// bun-backed implementation lives in the store package.
type CatalogBackend interface {
	FetchActive(ctx context.Context) ([]tables.Product, error)
	FetchBySlug(ctx context.Context, slug string) (*tables.Product, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*tables.Product, error)
	FetchCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error)
	FetchByCategory(ctx context.Context, categoryID uuid.UUID) ([]tables.Product, error)
	FetchHotSale(ctx context.Context, limit int) ([]tables.Product, error)
	FetchRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]tables.Product, error)
	FetchRecommended(ctx context.Context, limit int) ([]tables.Product, error)
}

// CatalogService handles product retrieval. Primary listings fail loudly
// with ErrDataUnavailable so callers can decide to show the fallback
// catalog; auxiliary listings (hot sale, related, recommended) degrade to
// empty results instead.
type CatalogService struct {
	logger  *gecho.Logger
	config  *structs.Config
	backend CatalogBackend
	cache   *CacheService
}

func NewCatalogService(logger *gecho.Logger, cfg *structs.Config, backend CatalogBackend, cache *CacheService) *CatalogService {
	return &CatalogService{
		logger:  logger,
		config:  cfg,
		backend: backend,
		cache:   cache,
	}
}

// ListActive returns every active product. On backend failure the error is
// wrapped in lib.ErrDataUnavailable; callers may then substitute
// FallbackCatalog, which is never cached or persisted.
func (cs *CatalogService) ListActive(ctx context.Context) ([]tables.Product, error) {
	if cs.cache != nil {
		if cached, err := cs.cache.GetActiveCatalog(); err == nil && cached != nil {
			return cached, nil
		}
	}

	products, err := cs.backend.FetchActive(ctx)
	if err != nil {
		cs.logger.Error("Failed to fetch active catalog", gecho.Field("error", err))
		return nil, fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	if cs.cache != nil {
		if err := cs.cache.SetActiveCatalog(products); err != nil {
			cs.logger.Warn("Failed to cache active catalog", gecho.Field("error", err))
		}
	}

	return products, nil
}

// GetBySlug returns one active product. A missing product is
// lib.ErrNotFound; a backend failure is lib.ErrDataUnavailable.
func (cs *CatalogService) GetBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	product, err := cs.backend.FetchBySlug(ctx, slug)
	if err != nil {
		cs.logger.Error("Failed to fetch product", gecho.Field("error", err), gecho.Field("slug", slug))
		return nil, fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// GetByID returns one active product by ID with the same error policy as
// GetBySlug.
func (cs *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	product, err := cs.backend.FetchByID(ctx, id)
	if err != nil {
		cs.logger.Error("Failed to fetch product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// ListByCategory returns active products for a category slug. An unknown
// category is lib.ErrNotFound.
func (cs *CatalogService) ListByCategory(ctx context.Context, categorySlug string) ([]tables.Product, error) {
	category, err := cs.backend.FetchCategoryBySlug(ctx, categorySlug)
	if err != nil {
		cs.logger.Error("Failed to fetch category", gecho.Field("error", err), gecho.Field("slug", categorySlug))
		return nil, fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}

	products, err := cs.backend.FetchByCategory(ctx, category.ID)
	if err != nil {
		cs.logger.Error("Failed to fetch category products", gecho.Field("error", err), gecho.Field("slug", categorySlug))
		return nil, fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	return products, nil
}

// ListHotSale returns the hot-sale listing. Zero flagged products is a
// valid, empty answer; the fallback catalog is never substituted here. On
// backend failure the listing degrades to empty.
func (cs *CatalogService) ListHotSale(ctx context.Context) []tables.Product {
	if cs.cache != nil {
		if cached, err := cs.cache.GetHotSale(); err == nil && cached != nil {
			return cached
		}
	}

	products, err := cs.backend.FetchHotSale(ctx, cs.config.Catalog.HotSaleLimit)
	if err != nil {
		cs.logger.Warn("Failed to fetch hot-sale listing", gecho.Field("error", err))
		return []tables.Product{}
	}
	if products == nil {
		products = []tables.Product{}
	}

	if cs.cache != nil {
		if err := cs.cache.SetHotSale(products); err != nil {
			cs.logger.Warn("Failed to cache hot-sale listing", gecho.Field("error", err))
		}
	}

	return products
}

// ListRelated returns products sharing the given product's category. Errors
// degrade to an empty listing.
func (cs *CatalogService) ListRelated(ctx context.Context, product *tables.Product) []tables.Product {
	products, err := cs.backend.FetchRelated(ctx, product.CategoryID, product.ID, cs.config.Catalog.RelatedLimit)
	if err != nil {
		cs.logger.Warn("Failed to fetch related products", gecho.Field("error", err), gecho.Field("product_id", product.ID))
		return []tables.Product{}
	}
	if products == nil {
		products = []tables.Product{}
	}
	return products
}

// ListRecommended returns the storefront's recommended products. Errors
// degrade to an empty listing.
func (cs *CatalogService) ListRecommended(ctx context.Context) []tables.Product {
	products, err := cs.backend.FetchRecommended(ctx, cs.config.Catalog.RecommendedLimit)
	if err != nil {
		cs.logger.Warn("Failed to fetch recommended products", gecho.Field("error", err))
		return []tables.Product{}
	}
	if products == nil {
		products = []tables.Product{}
	}
	return products
}
