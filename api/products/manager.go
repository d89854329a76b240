package products

import (
	"nightloom_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	catalogService *services.CatalogService
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	catalogService *services.CatalogService,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		catalogService: catalogService,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/products", prm.FetchProducts)
	r.Get("/products/hot-sale", prm.FetchHotSale)
	r.Get("/products/recommended", prm.FetchRecommended)
	r.Get("/products/listing/{slug}", prm.FetchListing)
	r.Get("/products/category/{slug}", prm.FetchByCategory)
	r.Get("/products/{slug}", prm.FetchBySlug)
	r.Get("/products/{slug}/related", prm.FetchRelated)
}
