package checkout

import (
	"nightloom_server/api/middleware"
	"nightloom_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CheckoutRoutesManager struct {
	logger          *gecho.Logger
	checkoutService *services.CheckoutService
	backend         services.CartBackend
	middlewares     *middleware.Middleware
}

func NewCheckoutRoutesManager(
	logger *gecho.Logger,
	checkoutService *services.CheckoutService,
	backend services.CartBackend,
	middlewares *middleware.Middleware,
) *CheckoutRoutesManager {
	return &CheckoutRoutesManager{
		logger:          logger,
		checkoutService: checkoutService,
		backend:         backend,
		middlewares:     middlewares,
	}
}

func (crm *CheckoutRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(crm.middlewares.RequireUser)

		r.Get("/checkout/summary", crm.GetSummary)
	})
}
