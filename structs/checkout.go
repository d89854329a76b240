package structs

// CheckoutLine is one order line on the checkout summary, a denormalized
// snapshot of the cart item at the moment of checkout.
type CheckoutLine struct {
	ProductName string `json:"product_name"`
	SizeLabel   string `json:"size_label,omitempty"`
	UnitPrice   uint64 `json:"unit_price"` // minor currency units, base price
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"image_url"`
}

// CheckoutSummary is derived from a cart snapshot; it is never persisted.
// ShippingCost stays nil until a delivery address is known; nil means
// unknown, not free.
type CheckoutSummary struct {
	Lines        []CheckoutLine `json:"lines"`
	Subtotal     uint64         `json:"subtotal"`
	EstimatedTax uint64         `json:"estimated_tax"` // informational, not added to Total
	Total        uint64         `json:"total"`
	ShippingCost *uint64        `json:"shipping_cost,omitempty"`
}
