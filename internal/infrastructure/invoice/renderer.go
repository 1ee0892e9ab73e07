// Package invoice renders an order document into a self-contained HTML
// invoice suitable for direct rasterization. Rendering is deterministic:
// the same order always yields byte-identical markup, with no generated
// timestamps beyond values taken from the order itself.
package invoice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/exporter/internal/domain/order"
	"github.com/shopfront/exporter/internal/infrastructure/media"
)

//go:embed templates/*.html
var templateFS embed.FS

// dateLayouts are tried in order when formatting order timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const displayDateLayout = "02 Jan 2006 15:04"

// Config controls rendering policy.
type Config struct {
	// ShippingFeeAsFree displays the shipping line as the literal "Free"
	// regardless of the numeric fee, mirroring the storefront's display
	// policy. Kept behind a flag so the policy can be corrected without
	// touching the rendering contract.
	ShippingFeeAsFree bool
}

// Renderer builds invoice HTML from order documents.
type Renderer struct {
	tpl      *template.Template
	resolver *media.Resolver
	cfg      Config
}

// NewRenderer creates a Renderer backed by the embedded invoice template.
func NewRenderer(resolver *media.Resolver, cfg Config) *Renderer {
	r := &Renderer{resolver: resolver, cfg: cfg}
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
		"itemImage":   r.ItemImageURL,
		"shippingFee": r.shippingFee,
	}
	r.tpl = template.Must(template.New("invoice.html").Funcs(funcs).ParseFS(templateFS, "templates/invoice.html"))
	return r
}

// Render produces the complete styled invoice document for an order.
func (r *Renderer) Render(doc *order.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render invoice for order %s: %w", doc.OrderNumber, err)
	}
	return buf.String(), nil
}

// ItemImageURL selects the display image for a line item. Candidate
// collections are consulted in a fixed tier order with early exit on the
// first usable hit; a tier whose chosen candidate has a blank URL misses and
// the next tier is consulted. When every tier misses, the placeholder wins.
func (r *Renderer) ItemImageURL(item order.LineItem) string {
	tiers := []func() []order.Image{
		item.VariantImages,
		item.VariantProductImages,
		item.ProductImages,
	}
	for _, tier := range tiers {
		if candidate, ok := pickCandidate(tier()); ok {
			return r.resolver.Resolve(candidate.URL)
		}
	}
	return r.resolver.Placeholder()
}

// pickCandidate chooses the first active image in a collection, else the
// first image. Only a non-blank URL counts as a hit.
func pickCandidate(images []order.Image) (order.Image, bool) {
	if len(images) == 0 {
		return order.Image{}, false
	}
	candidate := images[0]
	for _, img := range images {
		if img.IsActive {
			candidate = img
			break
		}
	}
	if candidate.IsBlank() {
		return order.Image{}, false
	}
	return candidate, true
}

func (r *Renderer) shippingFee(fee decimal.Decimal) string {
	if r.cfg.ShippingFeeAsFree {
		return "Free"
	}
	return formatMoney(fee)
}

// formatMoney renders a monetary value with exactly two decimal places,
// rounding half away from zero.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatDate renders an order timestamp as "02 Jan 2006 15:04". Values that
// cannot be parsed as dates pass through unchanged; blank values render as
// the literal "N/A".
func formatDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return trimmed
}
