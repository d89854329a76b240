package services

import (
	"nightloom_server/database"
	"nightloom_server/store"
	"nightloom_server/structs"

	"github.com/MonkyMars/gecho"
)

// ServiceManager wires the long-lived services. Cart services are not held
// here: they are request-scoped and built per request with the user's
// identity, sharing the CartBackend below.
type ServiceManager struct {
	CacheService    *CacheService
	HealthService   *HealthService
	CatalogService  *CatalogService
	CheckoutService *CheckoutService
	CartBackend     CartBackend
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	catalogService := NewCatalogService(logger, cfg, store.NewCatalogStore(db), cacheService)
	checkoutService := NewCheckoutService(logger, cfg)

	return &ServiceManager{
		CacheService:    cacheService,
		HealthService:   healthService,
		CatalogService:  catalogService,
		CheckoutService: checkoutService,
		CartBackend:     store.NewCartStore(db),
	}
}
