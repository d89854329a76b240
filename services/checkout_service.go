package services

import (
	"nightloom_server/lib"
	"nightloom_server/structs"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// CheckoutService turns a cart snapshot into an order summary. Payment and
// fulfillment happen elsewhere; this service stops at the summary.
type CheckoutService struct {
	logger *gecho.Logger
	config *structs.Config
}

func NewCheckoutService(logger *gecho.Logger, cfg *structs.Config) *CheckoutService {
	return &CheckoutService{
		logger: logger,
		config: cfg,
	}
}

// Summarize builds the order summary for the given cart rows. An empty cart
// is rejected with lib.ErrCartEmpty. The tax figure is an estimate shown on
// the summary; it is not added to the total. Shipping is unknown until a
// destination exists, so ShippingCost stays nil.
func (cs *CheckoutService) Summarize(items []tables.CartItem) (*structs.CheckoutSummary, error) {
	if len(items) == 0 {
		return nil, lib.ErrCartEmpty
	}

	lines := make([]structs.CheckoutLine, 0, len(items))
	var subtotal uint64

	for i := range items {
		item := &items[i]
		if item.Product == nil {
			cs.logger.Warn("Cart row without product relation skipped", gecho.Field("item_id", item.ID))
			continue
		}

		sizeLabel := ""
		if item.Variant != nil {
			sizeLabel = item.Variant.Size
		}

		lineTotal := item.Product.Price * uint64(item.Quantity)
		subtotal += lineTotal

		lines = append(lines, structs.CheckoutLine{
			ProductName: item.Product.Name,
			SizeLabel:   sizeLabel,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			ImageURL:    item.Product.DisplayImageURL(),
		})
	}

	if len(lines) == 0 {
		return nil, lib.ErrCartEmpty
	}

	return &structs.CheckoutSummary{
		Lines:        lines,
		Subtotal:     subtotal,
		EstimatedTax: estimateTax(subtotal, cs.config.Checkout.TaxRateBasisPoints),
		Total:        subtotal,
		ShippingCost: nil,
	}, nil
}

// estimateTax applies a basis-point rate with round-half-up in integer math.
func estimateTax(subtotal uint64, basisPoints int) uint64 {
	if basisPoints <= 0 {
		return 0
	}
	return (subtotal*uint64(basisPoints) + 5000) / 10000
}
