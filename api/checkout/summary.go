package checkout

import (
	"errors"
	"net/http"

	"nightloom_server/api/middleware"
	"nightloom_server/lib"

	"github.com/MonkyMars/gecho"
)

// GetSummary handles GET /checkout/summary. It reads the user's cart
// straight from the backend and builds the order summary; an empty cart is
// rejected so the storefront never shows a zero-line checkout.
func (crm *CheckoutRoutesManager) GetSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.Send())
		return
	}

	items, err := crm.backend.ListForUser(r.Context(), user.ID)
	if err != nil {
		crm.logger.Error("Failed to load cart for checkout", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.checkout.unavailable"),
			gecho.Send(),
		)
		return
	}

	summary, err := crm.checkoutService.Summarize(items)
	if err != nil {
		if errors.Is(err, lib.ErrCartEmpty) {
			gecho.BadRequest(w,
				gecho.WithMessage("error.checkout.cartEmpty"),
				gecho.Send(),
			)
			return
		}

		crm.logger.Error("Failed to build checkout summary", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.checkout.failed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"summary": summary,
		}),
		gecho.Send(),
	)
}
