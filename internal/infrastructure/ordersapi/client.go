// Package ordersapi reads order documents from the storefront backend API.
// The backend owns validation of business fields; this client only maps the
// wire representation onto the domain snapshot.
package ordersapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/exporter/internal/domain/order"
	"github.com/shopfront/exporter/internal/domain/shared"
)

const defaultRequestTimeout = 10 * time.Second

// Config contains configuration for the orders API client
type Config struct {
	// BaseURL is the storefront API origin, e.g. "https://shop.example.com/api"
	BaseURL string
	// Token is the bearer token used for authenticated reads
	Token string
	// Timeout for a single fetch
	Timeout time.Duration
}

// Client fetches orders over HTTP
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new orders API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// FetchOrder retrieves a single order by identifier.
func (c *Client) FetchOrder(ctx context.Context, id string) (*order.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order id cannot be empty")
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/orders/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, shared.NewDomainError("NOT_FOUND", "Order not found: "+id)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, shared.NewDomainError("UNAUTHORIZED", "Not authorized to read order: "+id)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("unexpected orders API response",
			zap.Int("status", resp.StatusCode),
			zap.String("order_id", id),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("orders API returned status %d for order %s: %w",
			resp.StatusCode, id, shared.ErrUnavailable)
	}

	var doc order.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}
	return &doc, nil
}
