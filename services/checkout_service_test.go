package services

import (
	"testing"

	"nightloom_server/lib"
	"nightloom_server/structs"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCheckoutService(basisPoints int) *CheckoutService {
	cfg := &structs.Config{
		Checkout: &structs.CheckoutConfig{TaxRateBasisPoints: basisPoints},
	}
	return NewCheckoutService(gecho.NewDefaultLogger(), cfg)
}

func cartItem(name string, price uint64, quantity int) tables.CartItem {
	return tables.CartItem{
		ID:       uuid.New(),
		Quantity: quantity,
		Product: &tables.Product{
			ID:    uuid.New(),
			Name:  name,
			Price: price,
		},
	}
}

func TestSummarizeRejectsEmptyCart(t *testing.T) {
	svc := newTestCheckoutService(480)

	_, err := svc.Summarize(nil)
	assert.ErrorIs(t, err, lib.ErrCartEmpty)

	_, err = svc.Summarize([]tables.CartItem{})
	assert.ErrorIs(t, err, lib.ErrCartEmpty)
}

func TestSummarizeTotals(t *testing.T) {
	svc := newTestCheckoutService(480)

	items := []tables.CartItem{
		cartItem("Midnight Tee", 2900, 2),
		cartItem("Night Shift Hoodie", 4900, 1),
	}

	summary, err := svc.Summarize(items)
	require.NoError(t, err)

	assert.Equal(t, uint64(10700), summary.Subtotal)
	// Tax is informational only; the total stays the subtotal
	assert.Equal(t, summary.Subtotal, summary.Total)
	// 4.8% of 10700 = 513.6, rounded half-up to 514
	assert.Equal(t, uint64(514), summary.EstimatedTax)
	assert.Nil(t, summary.ShippingCost)
	assert.Len(t, summary.Lines, 2)
}

func TestSummarizeTaxRounding(t *testing.T) {
	svc := newTestCheckoutService(480)

	// 4.8% of 1050 = 50.4, rounds down
	summary, err := svc.Summarize([]tables.CartItem{cartItem("Cap", 1050, 1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), summary.EstimatedTax)

	// Zero rate means zero tax
	svc = newTestCheckoutService(0)
	summary, err = svc.Summarize([]tables.CartItem{cartItem("Cap", 1050, 1)})
	require.NoError(t, err)
	assert.Zero(t, summary.EstimatedTax)
}

func TestSummarizeLineFields(t *testing.T) {
	svc := newTestCheckoutService(480)

	item := cartItem("Night Shift Hoodie", 4900, 2)
	item.Product.Images = []tables.ProductImage{{URL: "/hoodie.png", IsPrimary: true}}
	item.Variant = &tables.ProductVariant{ID: uuid.New(), Size: "L", PriceDelta: 500}

	summary, err := svc.Summarize([]tables.CartItem{item})
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)

	line := summary.Lines[0]
	assert.Equal(t, "Night Shift Hoodie", line.ProductName)
	assert.Equal(t, "L", line.SizeLabel)
	// Base price, not price plus variant delta
	assert.Equal(t, uint64(4900), line.UnitPrice)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "/hoodie.png", line.ImageURL)
}

func TestSummarizePlaceholderImage(t *testing.T) {
	svc := newTestCheckoutService(480)

	summary, err := svc.Summarize([]tables.CartItem{cartItem("Bare Tee", 2900, 1)})
	require.NoError(t, err)
	assert.Equal(t, tables.PlaceholderImageURL, summary.Lines[0].ImageURL)
}

func TestSummarizeSkipsRowsWithoutProduct(t *testing.T) {
	svc := newTestCheckoutService(480)

	orphan := tables.CartItem{ID: uuid.New(), Quantity: 1}
	summary, err := svc.Summarize([]tables.CartItem{orphan, cartItem("Tee", 2900, 1)})
	require.NoError(t, err)

	assert.Len(t, summary.Lines, 1)
	assert.Equal(t, uint64(2900), summary.Subtotal)

	// A cart of only orphan rows counts as empty
	_, err = svc.Summarize([]tables.CartItem{orphan})
	assert.ErrorIs(t, err, lib.ErrCartEmpty)
}
