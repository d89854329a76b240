package products

import (
	"errors"
	"net/http"
	"slices"

	"nightloom_server/catalog"
	"nightloom_server/handling"
	"nightloom_server/lib"
	"nightloom_server/services"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchProducts handles GET /products with search, price, and sort filters.
// When the catalog cannot be loaded the fixed fallback set is served and
// flagged, so the storefront still renders.
func (p *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts := handling.ParseViewOptions(r)

	fallback := false
	products, err := p.catalogService.ListActive(ctx)
	if err != nil {
		if !errors.Is(err, lib.ErrDataUnavailable) {
			p.logger.Error("Failed to fetch products", gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.products.failedToFetch"),
				gecho.Send(),
			)
			return
		}
		products = services.FallbackCatalog()
		fallback = true
	}

	p.respondListing(w, opts, products, map[string]any{"fallback": fallback})
}

// FetchListing handles GET /products/listing/{slug} for curated listings
// backed by token matching.
func (p *ProductRoutesManager) FetchListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	listing, ok := catalog.FindListing(slug)
	if !ok {
		gecho.NotFound(w,
			gecho.WithMessage("error.products.listingNotFound"),
			gecho.Send(),
		)
		return
	}

	opts := handling.ParseViewOptions(r)
	opts.View.Membership = listing.Membership()

	fallback := false
	products, err := p.catalogService.ListActive(ctx)
	if err != nil {
		if !errors.Is(err, lib.ErrDataUnavailable) {
			p.logger.Error("Failed to fetch listing", gecho.Field("error", err), gecho.Field("slug", slug))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.products.failedToFetch"),
				gecho.Send(),
			)
			return
		}
		products = services.FallbackCatalog()
		fallback = true
	}

	p.respondListing(w, opts, products, map[string]any{
		"listing":  map[string]any{"slug": listing.Slug, "title": listing.Title},
		"fallback": fallback,
	})
}

// FetchBySlug handles GET /products/{slug} for a single product page.
func (p *ProductRoutesManager) FetchBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	product, err := p.catalogService.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.products.notFound"),
				gecho.Send(),
			)
			return
		}

		p.logger.Error("Failed to fetch product", gecho.Field("error", err), gecho.Field("slug", slug))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.failedToFetchOne"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
		}),
		gecho.Send(),
	)
}

// FetchByCategory handles GET /products/category/{slug}.
func (p *ProductRoutesManager) FetchByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	products, err := p.catalogService.ListByCategory(ctx, slug)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.products.categoryNotFound"),
				gecho.Send(),
			)
			return
		}

		p.logger.Error("Failed to fetch category products", gecho.Field("error", err), gecho.Field("slug", slug))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	opts := handling.ParseViewOptions(r)
	p.respondListing(w, opts, products, nil)
}

// FetchHotSale handles GET /products/hot-sale. An empty listing is a valid
// answer; the fallback catalog never appears here.
func (p *ProductRoutesManager) FetchHotSale(w http.ResponseWriter, r *http.Request) {
	products := p.catalogService.ListHotSale(r.Context())

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"count":    len(products),
		}),
		gecho.Send(),
	)
}

// FetchRecommended handles GET /products/recommended.
func (p *ProductRoutesManager) FetchRecommended(w http.ResponseWriter, r *http.Request) {
	products := p.catalogService.ListRecommended(r.Context())

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"count":    len(products),
		}),
		gecho.Send(),
	)
}

// FetchRelated handles GET /products/{slug}/related.
func (p *ProductRoutesManager) FetchRelated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	product, err := p.catalogService.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.products.notFound"),
				gecho.Send(),
			)
			return
		}

		p.logger.Error("Failed to fetch product for related listing", gecho.Field("error", err), gecho.Field("slug", slug))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.products.failedToFetch"),
			gecho.Send(),
		)
		return
	}

	related := p.catalogService.ListRelated(ctx, product)

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": related,
			"count":    len(related),
		}),
		gecho.Send(),
	)
}

// respondListing applies the view to the products and writes the standard
// listing payload, merging any extra fields into the response.
func (p *ProductRoutesManager) respondListing(w http.ResponseWriter, opts handling.ViewOptions, products []tables.Product, extra map[string]any) {
	derived := slices.Collect(opts.View.Apply(products))
	if derived == nil {
		derived = []tables.Product{}
	}
	if opts.Limit > 0 && len(derived) > opts.Limit {
		derived = derived[:opts.Limit]
	}

	data := map[string]any{
		"products": derived,
		"count":    len(derived),
	}
	for k, v := range extra {
		data[k] = v
	}

	gecho.Success(w,
		gecho.WithData(data),
		gecho.Send(),
	)
}
