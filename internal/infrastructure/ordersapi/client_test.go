package ordersapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/exporter/internal/domain/shared"
)

const orderFixture = `{
	"id": "ord-1",
	"order_number": "SO-2025-0042",
	"placed_at": "2025-08-14T09:30:00Z",
	"status": "CONFIRMED",
	"payment_status": "PAID",
	"subtotal": "100.00",
	"discount": "10.00",
	"shipping_fee": "0.00",
	"total_amount": "90.00",
	"coupon_code": "SAVE10",
	"shipping_address": {
		"name": "A. Customer",
		"address_line1": "1 Main Street",
		"district": "Centreville",
		"postal_code": "10110",
		"country": "Thailand"
	},
	"items": [
		{
			"product_name": "Cashew 250g",
			"quantity": 2,
			"unit_price": "45.00",
			"total_price": "90.00",
			"variant": {
				"images": [{"url": "/uploads/cashew.png", "is_active": true}]
			}
		}
	]
}`

func TestClient_FetchOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/ord-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(orderFixture))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL + "/api", Token: "test-token"}, nil)

	doc, err := client.FetchOrder(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, "SO-2025-0042", doc.OrderNumber)
	assert.Equal(t, "100.00", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "90.00", doc.TotalAmount.StringFixed(2))
	assert.Equal(t, "SAVE10", doc.CouponCode)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Cashew 250g", doc.Items[0].ProductName)
	assert.Equal(t, 2, doc.Items[0].Quantity)
	require.NotNil(t, doc.Items[0].Variant)
	require.Len(t, doc.Items[0].Variant.Images, 1)
	assert.True(t, doc.Items[0].Variant.Images[0].IsActive)
}

func TestClient_FetchOrder_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := client.FetchOrder(context.Background(), "missing")
	require.Error(t, err)
	var domErr *shared.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "NOT_FOUND", domErr.Code)
}

func TestClient_FetchOrder_Upstream5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := client.FetchOrder(context.Background(), "ord-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnavailable))
}

func TestClient_FetchOrder_EmptyID(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:0"}, nil)

	_, err := client.FetchOrder(context.Background(), "  ")
	require.Error(t, err)
	var domErr *shared.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "INVALID_INPUT", domErr.Code)
}
