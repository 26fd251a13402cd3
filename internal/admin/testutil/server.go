package testutil

import (
	"net/http/httptest"
	"testing"

	"akvapump.com/site-admin/internal/admin/catalog"
	"akvapump.com/site-admin/internal/admin/httpserver"
	"akvapump.com/site-admin/internal/admin/httpserver/middleware"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithAuthenticator overrides the authenticator used by the admin server.
func WithAuthenticator(auth middleware.Authenticator) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Authenticator = auth
	}
}

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithCatalogService wires a custom catalog service implementation.
func WithCatalogService(service catalog.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.CatalogService = service
	}
}

// NewServer constructs an httptest server running the admin HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:        ":0",
		BasePath:       "/admin",
		Authenticator:  middleware.DefaultAuthenticator(),
		CatalogService: catalog.NewStaticService(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	handler, err := httpserver.Handler(cfg)
	if err != nil {
		t.Fatalf("build admin handler: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}
