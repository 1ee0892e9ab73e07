// Package media resolves heterogeneous media references into fetchable image
// URLs. Product images reach the order snapshot in several source formats
// (absolute URLs, protocol-relative URLs, object-storage URIs, bare storage
// hosts, backend-relative paths) depending on which upload path produced
// them; the resolver normalises all of them behind one total function.
package media

import "strings"

const (
	// DefaultObjectStorageHost is the public host object-storage URIs are
	// rewritten to when no override is configured.
	DefaultObjectStorageHost = "s3.amazonaws.com"

	// DefaultPlaceholderPath is served for blank or missing references so a
	// rendered image slot is never left empty.
	DefaultPlaceholderPath = "/static/img/placeholder.png"

	objectStorageScheme = "s3://"
)

// Config carries the two origins the resolver depends on. The API origin may
// be a relative path when the backend sits behind a reverse proxy; media is
// always served from an absolute host, so the two must stay separate fields
// rather than one being derived from the other at call sites.
type Config struct {
	// APIBaseURL is the storefront API origin, absolute or proxy-relative
	// (e.g. "https://shop.example.com/api" or "/api").
	APIBaseURL string
	// BackendOrigin is the absolute media origin used when APIBaseURL is not
	// an absolute URL.
	BackendOrigin string
	// ObjectStorageHost is the public host for object-storage references.
	ObjectStorageHost string
	// PlaceholderPath is returned (resolved) for blank references.
	PlaceholderPath string
}

// Resolver turns raw media references into absolute image URLs.
// Resolution is total: it never fails and never returns an empty string as
// long as a placeholder path is configured.
type Resolver struct {
	cfg    Config
	origin string // backend media origin, computed once
}

// NewResolver creates a Resolver, deriving the backend media origin from the
// configuration: an absolute HTTP(S) API origin with any trailing "/api"
// segment stripped, otherwise the configured backend origin.
func NewResolver(cfg Config) *Resolver {
	if cfg.ObjectStorageHost == "" {
		cfg.ObjectStorageHost = DefaultObjectStorageHost
	}
	if cfg.PlaceholderPath == "" {
		cfg.PlaceholderPath = DefaultPlaceholderPath
	}
	return &Resolver{
		cfg:    cfg,
		origin: deriveBackendOrigin(cfg.APIBaseURL, cfg.BackendOrigin),
	}
}

// Resolve normalises a raw media reference into a fetchable URL.
// First matching rule wins:
//  1. blank reference: the configured placeholder, itself resolved
//  2. absolute http(s) URL: returned unchanged
//  3. protocol-relative URL: prefixed with "https:"
//  4. object-storage URI (s3://bucket/path): rewritten to the public host
//  5. bare object-storage host: prefixed with "https://"
//  6. anything else: joined to the backend origin with exactly one slash
func (r *Resolver) Resolve(ref string) string {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		trimmed = r.cfg.PlaceholderPath
		if trimmed == "" {
			return ""
		}
	}

	switch {
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return trimmed
	case strings.HasPrefix(trimmed, "//"):
		return "https:" + trimmed
	case strings.HasPrefix(trimmed, objectStorageScheme):
		return "https://" + r.cfg.ObjectStorageHost + "/" + strings.TrimPrefix(trimmed, objectStorageScheme)
	case strings.HasPrefix(trimmed, r.cfg.ObjectStorageHost):
		return "https://" + trimmed
	default:
		return joinOrigin(r.origin, trimmed)
	}
}

// Placeholder returns the resolved placeholder URL.
func (r *Resolver) Placeholder() string {
	return r.Resolve("")
}

func deriveBackendOrigin(apiBaseURL, backendOrigin string) string {
	api := strings.TrimSpace(apiBaseURL)
	if strings.HasPrefix(api, "http://") || strings.HasPrefix(api, "https://") {
		api = strings.TrimSuffix(api, "/")
		api = strings.TrimSuffix(api, "/api")
		return api
	}
	return strings.TrimSuffix(strings.TrimSpace(backendOrigin), "/")
}

// joinOrigin joins origin and path with exactly one separating slash, no
// matter whether the path carries a leading slash of its own.
func joinOrigin(origin, path string) string {
	return strings.TrimSuffix(origin, "/") + "/" + strings.TrimPrefix(path, "/")
}
