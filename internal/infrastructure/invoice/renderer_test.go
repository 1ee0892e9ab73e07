package invoice

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/exporter/internal/domain/order"
	"github.com/shopfront/exporter/internal/infrastructure/media"
)

func newTestRenderer(cfg Config) *Renderer {
	resolver := media.NewResolver(media.Config{
		APIBaseURL:      "https://shop.example.com/api",
		PlaceholderPath: "/static/img/placeholder.png",
	})
	return NewRenderer(resolver, cfg)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleOrder() *order.Document {
	return &order.Document{
		ID:            "ord-1",
		OrderNumber:   "SO-2025-0042",
		PlacedAt:      "2025-08-14T09:30:00Z",
		Status:        order.StatusConfirmed,
		PaymentStatus: order.PaymentStatusPaid,
		Subtotal:      money("100.00"),
		Discount:      money("10.00"),
		ShippingFee:   money("0.00"),
		TotalAmount:   money("90.00"),
		CouponCode:    "SAVE10",
		ShippingTo: order.Address{
			Name:         "A. Customer",
			AddressLine1: "1 Main Street",
			District:     "Centreville",
			PostalCode:   "10110",
			Country:      "Thailand",
		},
		Items: []order.LineItem{
			{
				ProductName: "Cashew 250g",
				Quantity:    2,
				UnitPrice:   money("45.00"),
				TotalPrice:  money("90.00"),
			},
		},
	}
}

func TestRenderer_TotalsAndLineItems(t *testing.T) {
	r := newTestRenderer(Config{ShippingFeeAsFree: true})

	html, err := r.Render(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "SO-2025-0042")
	assert.Contains(t, html, "100.00")
	assert.Contains(t, html, "-10.00")
	assert.Contains(t, html, "(SAVE10)")
	assert.Contains(t, html, "90.00")
	assert.Contains(t, html, "Cashew 250g")
	assert.Contains(t, html, "<td class=\"num\">2</td>")
	assert.Contains(t, html, "45.00")
	assert.Contains(t, html, "Free")
	assert.Contains(t, html, "14 Aug 2025 09:30")
}

func TestRenderer_Deterministic(t *testing.T) {
	r := newTestRenderer(Config{ShippingFeeAsFree: true})

	first, err := r.Render(sampleOrder())
	require.NoError(t, err)
	second, err := r.Render(sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderer_SelfContained(t *testing.T) {
	r := newTestRenderer(Config{})

	html, err := r.Render(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "<style>")
	assert.NotContains(t, html, "<link")
}

func TestRenderer_ZeroItems(t *testing.T) {
	r := newTestRenderer(Config{ShippingFeeAsFree: true})

	doc := sampleOrder()
	doc.Items = nil
	doc.Discount = money("0.00")
	doc.CouponCode = ""
	doc.Subtotal = money("0.00")
	doc.TotalAmount = money("0.00")

	html, err := r.Render(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "No items in this order")
	assert.Contains(t, html, "Subtotal")
	assert.Contains(t, html, "0.00")
	assert.NotContains(t, html, "Discount")
}

func TestRenderer_ConditionalSections(t *testing.T) {
	r := newTestRenderer(Config{ShippingFeeAsFree: true})

	t.Run("note rendered when present", func(t *testing.T) {
		doc := sampleOrder()
		doc.Note = "Leave at the door"
		html, err := r.Render(doc)
		require.NoError(t, err)
		assert.Contains(t, html, "Leave at the door")
	})

	t.Run("no note block when absent", func(t *testing.T) {
		html, err := r.Render(sampleOrder())
		require.NoError(t, err)
		assert.NotContains(t, html, "class=\"note\"")
	})

	t.Run("no discount line when zero", func(t *testing.T) {
		doc := sampleOrder()
		doc.Discount = money("0.00")
		html, err := r.Render(doc)
		require.NoError(t, err)
		assert.NotContains(t, html, "Discount")
		assert.NotContains(t, html, "SAVE10")
	})
}

func TestRenderer_ShippingFeeFlag(t *testing.T) {
	doc := sampleOrder()
	doc.ShippingFee = money("25.00")

	t.Run("displayed as Free when flag set", func(t *testing.T) {
		html, err := newTestRenderer(Config{ShippingFeeAsFree: true}).Render(doc)
		require.NoError(t, err)
		assert.Contains(t, html, "Free")
		assert.NotContains(t, html, "25.00")
	})

	t.Run("displayed numerically when flag cleared", func(t *testing.T) {
		html, err := newTestRenderer(Config{ShippingFeeAsFree: false}).Render(doc)
		require.NoError(t, err)
		assert.Contains(t, html, "25.00")
	})
}

func TestRenderer_DateFallbacks(t *testing.T) {
	r := newTestRenderer(Config{})

	t.Run("blank date renders N/A", func(t *testing.T) {
		doc := sampleOrder()
		doc.PlacedAt = ""
		html, err := r.Render(doc)
		require.NoError(t, err)
		assert.Contains(t, html, "N/A")
	})

	t.Run("unparseable date passes through", func(t *testing.T) {
		doc := sampleOrder()
		doc.PlacedAt = "sometime last week"
		html, err := r.Render(doc)
		require.NoError(t, err)
		assert.Contains(t, html, "sometime last week")
	})
}

func TestRenderer_ItemImageTiers(t *testing.T) {
	r := newTestRenderer(Config{})

	active := order.Image{URL: "/uploads/active.png", IsActive: true}
	inactive := order.Image{URL: "/uploads/inactive.png"}
	blank := order.Image{URL: "   ", IsActive: true}

	tests := []struct {
		name string
		item order.LineItem
		want string
	}{
		{
			name: "active variant image preferred",
			item: order.LineItem{Variant: &order.Variant{Images: []order.Image{inactive, active}}},
			want: "https://shop.example.com/uploads/active.png",
		},
		{
			name: "first variant image when none active",
			item: order.LineItem{Variant: &order.Variant{Images: []order.Image{inactive}}},
			want: "https://shop.example.com/uploads/inactive.png",
		},
		{
			name: "empty variant falls to variant product images",
			item: order.LineItem{
				Variant: &order.Variant{Product: &order.ProductMedia{Images: []order.Image{active}}},
			},
			want: "https://shop.example.com/uploads/active.png",
		},
		{
			name: "variant without images falls to item product images",
			item: order.LineItem{
				Variant: &order.Variant{},
				Product: &order.ProductMedia{Images: []order.Image{active}},
			},
			want: "https://shop.example.com/uploads/active.png",
		},
		{
			name: "blank candidate falls through to next tier",
			item: order.LineItem{
				Variant: &order.Variant{Images: []order.Image{blank}},
				Product: &order.ProductMedia{Images: []order.Image{active}},
			},
			want: "https://shop.example.com/uploads/active.png",
		},
		{
			name: "no images anywhere yields placeholder",
			item: order.LineItem{},
			want: "https://shop.example.com/static/img/placeholder.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ItemImageURL(tt.item))
		})
	}
}

func TestRenderer_ImageAlwaysEmbedded(t *testing.T) {
	// Every line item row must carry a loadable image, worst case the
	// placeholder.
	r := newTestRenderer(Config{})

	doc := sampleOrder()
	html, err := r.Render(doc)
	require.NoError(t, err)

	assert.True(t, strings.Contains(html, "placeholder.png"),
		"item without media bundle should render the placeholder image")
}
