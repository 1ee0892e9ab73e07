// Package order defines the order snapshot consumed by the export pipeline.
// The storefront backend owns and validates these records; this service only
// reads them, so the types here are plain data with defensive accessors for
// the loosely structured parts (timestamps and image bundles).
package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Document is an immutable snapshot of a placed order.
// Monetary fields arrive on the wire as decimal strings and are kept exact.
// Timestamps are kept as raw strings because the renderer must fall back to
// the original text when a value cannot be parsed as a date.
type Document struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	PlacedAt      string          `json:"placed_at"`
	CreatedAt     string          `json:"created_at"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Note          string          `json:"note,omitempty"`
	ShippingTo    Address         `json:"shipping_address"`
	Items         []LineItem      `json:"items"`
}

// Address is the shipping destination for an order.
type Address struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	District     string `json:"district"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// LineItem is one product/variant entry within an order.
// The image bundle is loosely structured: candidate image collections can come
// from the variant itself, from the variant's parent product, or from the
// order item's product record. Any of the three may be missing.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Variant     *Variant        `json:"variant,omitempty"`
	Product     *ProductMedia   `json:"product,omitempty"`
}

// Variant carries the variant-specific image collection plus the parent
// product's collection inherited through the product hierarchy.
type Variant struct {
	Images  []Image       `json:"images,omitempty"`
	Product *ProductMedia `json:"product,omitempty"`
}

// ProductMedia is a product-level image collection.
type ProductMedia struct {
	Images []Image `json:"images,omitempty"`
}

// Image is a single media entry: a raw reference string plus an activity flag.
// The URL may be in any of the source formats recognised by the media resolver.
type Image struct {
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

// IsBlank reports whether the image carries no usable reference.
func (i Image) IsBlank() bool {
	return strings.TrimSpace(i.URL) == ""
}

// VariantImages returns the variant-level image collection, or nil.
func (li *LineItem) VariantImages() []Image {
	if li.Variant == nil {
		return nil
	}
	return li.Variant.Images
}

// VariantProductImages returns the image collection inherited from the
// variant's parent product, or nil.
func (li *LineItem) VariantProductImages() []Image {
	if li.Variant == nil || li.Variant.Product == nil {
		return nil
	}
	return li.Variant.Product.Images
}

// ProductImages returns the order item's product-level image collection, or nil.
func (li *LineItem) ProductImages() []Image {
	if li.Product == nil {
		return nil
	}
	return li.Product.Images
}

// HasDiscount reports whether the order carries a positive discount.
func (d *Document) HasDiscount() bool {
	return d.Discount.IsPositive()
}

// HasNote reports whether the order carries a free-text note.
func (d *Document) HasNote() bool {
	return strings.TrimSpace(d.Note) != ""
}
