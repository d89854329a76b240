package cart

import (
	"net/http"

	"nightloom_server/api/middleware"
	"nightloom_server/identity"
	"nightloom_server/notify"
	"nightloom_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CartRoutesManager struct {
	logger      *gecho.Logger
	backend     services.CartBackend
	sink        notify.Sink
	locks       *services.CartLocks
	middlewares *middleware.Middleware
}

func NewCartRoutesManager(
	logger *gecho.Logger,
	backend services.CartBackend,
	sink notify.Sink,
	middlewares *middleware.Middleware,
) *CartRoutesManager {
	return &CartRoutesManager{
		logger:      logger,
		backend:     backend,
		sink:        sink,
		locks:       services.NewCartLocks(),
		middlewares: middlewares,
	}
}

func (crm *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(crm.middlewares.RequireUser)

		r.Get("/cart", crm.GetCart)
		r.Post("/cart/items", crm.AddItem)
		r.Patch("/cart/items/{id}", crm.UpdateItem)
		r.Delete("/cart/items/{id}", crm.RemoveItem)
		r.Delete("/cart", crm.ClearCart)
	})
}

// serviceFor builds a request-scoped cart service bound to the signed-in
// user. The backend and the per-identity locks are shared across requests
// so concurrent adds for the same pair contend and merge; only the
// in-memory snapshot is per request.
func (crm *CartRoutesManager) serviceFor(r *http.Request) (*services.CartService, bool) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return services.NewCartService(crm.logger, crm.backend, identity.Static(user), crm.sink, crm.locks), true
}
