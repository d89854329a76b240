package api

import (
	"nightloom_server/api/auth"
	"nightloom_server/api/cart"
	"nightloom_server/api/checkout"
	"nightloom_server/api/health"
	"nightloom_server/api/middleware"
	"nightloom_server/api/products"
	"nightloom_server/notify"
	"nightloom_server/services"
	"nightloom_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	authRoutes     *auth.AuthRoutesManager
	productRoutes  *products.ProductRoutesManager
	cartRoutes     *cart.CartRoutesManager
	checkoutRoutes *checkout.CheckoutRoutesManager
	healthRoutes   *health.HealthRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, cfg *structs.Config, mw *middleware.Middleware) *routerManager {
	sink := notify.NewLogSink(logger)

	return &routerManager{
		authRoutes:     auth.NewAuthRoutesManager(logger, cfg),
		productRoutes:  products.NewProductRoutesManager(logger, sm.CatalogService),
		cartRoutes:     cart.NewCartRoutesManager(logger, sm.CartBackend, sink, mw),
		checkoutRoutes: checkout.NewCheckoutRoutesManager(logger, sm.CheckoutService, sm.CartBackend, mw),
		healthRoutes:   health.NewHealthRoutesManager(sm.HealthService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.authRoutes.RegisterRoutes(r)
	rm.productRoutes.RegisterRoutes(r)
	rm.cartRoutes.RegisterRoutes(r)
	rm.checkoutRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
}
