package cart

import (
	"errors"
	"net/http"

	"nightloom_server/lib"
	"nightloom_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type addItemRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart and returns the loaded cart with totals.
func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	svc, ok := crm.serviceFor(r)
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}
	defer svc.Close()

	if err := svc.Load(r.Context()); err != nil {
		crm.respondError(w, err)
		return
	}

	crm.respondCart(w, svc)
}

// AddItem handles POST /cart/items. Adding an already-present
// (product, variant) pair merges quantities.
func (crm *CartRoutesManager) AddItem(w http.ResponseWriter, r *http.Request) {
	svc, ok := crm.serviceFor(r)
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}
	defer svc.Close()

	body, err := lib.ExtractAndValidateBody[addItemRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.invalidBody"),
			gecho.Send(),
		)
		return
	}

	if err := svc.Add(r.Context(), body.ProductID, body.VariantID, body.Quantity); err != nil {
		crm.respondError(w, err)
		return
	}

	crm.respondCart(w, svc)
}

// UpdateItem handles PATCH /cart/items/{id}. A quantity of zero or less
// removes the row.
func (crm *CartRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	svc, ok := crm.serviceFor(r)
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}
	defer svc.Close()

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.invalidItemId"),
			gecho.Send(),
		)
		return
	}

	body, err := lib.ExtractAndValidateBody[updateItemRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.invalidBody"),
			gecho.Send(),
		)
		return
	}

	if err := svc.UpdateQuantity(r.Context(), itemID, body.Quantity); err != nil {
		crm.respondError(w, err)
		return
	}

	crm.respondCart(w, svc)
}

// RemoveItem handles DELETE /cart/items/{id}.
func (crm *CartRoutesManager) RemoveItem(w http.ResponseWriter, r *http.Request) {
	svc, ok := crm.serviceFor(r)
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}
	defer svc.Close()

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.invalidItemId"),
			gecho.Send(),
		)
		return
	}

	if err := svc.Remove(r.Context(), itemID); err != nil {
		crm.respondError(w, err)
		return
	}

	crm.respondCart(w, svc)
}

// ClearCart handles DELETE /cart.
func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	svc, ok := crm.serviceFor(r)
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}
	defer svc.Close()

	if err := svc.Clear(r.Context()); err != nil {
		crm.respondError(w, err)
		return
	}

	crm.respondCart(w, svc)
}

func (crm *CartRoutesManager) respondCart(w http.ResponseWriter, svc *services.CartService) {
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"items":      svc.Snapshot(),
			"total":      svc.Total(),
			"item_count": svc.ItemCount(),
		}),
		gecho.Send(),
	)
}

func (crm *CartRoutesManager) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lib.ErrAuthRequired):
		gecho.Unauthorized(w,
			gecho.WithMessage("error.cart.authRequired"),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrValidationFailed):
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.invalidRequest"),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w,
			gecho.WithMessage("error.cart.itemNotFound"),
			gecho.Send(),
		)
	default:
		crm.logger.Error("Cart operation failed", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cart.unavailable"),
			gecho.Send(),
		)
	}
}
