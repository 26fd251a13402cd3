package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"akvapump.com/site-admin/internal/admin/catalog"
	custommw "akvapump.com/site-admin/internal/admin/httpserver/middleware"
	"akvapump.com/site-admin/internal/admin/rbac"
	"akvapump.com/site-admin/internal/platform/observability"
	"akvapump.com/site-admin/public"
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address        string
	BasePath       string
	Authenticator  custommw.Authenticator
	CatalogService catalog.Service
	Logger         *zap.Logger
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	handler, err := Handler(cfg)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

// Handler builds the routed handler without binding it to a listener. Tests
// mount it directly on httptest servers.
func Handler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, err
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	basePath := normalizeBasePath(cfg.BasePath)

	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = custommw.DefaultAuthenticator()
	}

	svc := cfg.CatalogService
	if svc == nil {
		svc = catalog.NewStaticService()
	}

	store := catalog.NewStore(svc, logger)
	h := &catalogHandlers{
		store:    store,
		workflow: catalog.NewChildWorkflow(store),
		svc:      svc,
	}

	router.Route(basePath, func(r chi.Router) {
		r.Use(custommw.NoStore())
		r.Use(custommw.Auth(authenticator))

		r.With(custommw.RequireCapability(rbac.CapOverviewView)).
			Get("/overview", h.overview)

		r.Route("/catalog", func(r chi.Router) {
			r.With(custommw.RequireCapability(rbac.CapCatalogView)).Group(func(r chi.Router) {
				r.Get("/", h.list)
				r.Get("/{id}", h.detail)
				r.Get("/{id}/preview", h.preview)
				r.Get("/{id}/features", h.featureGroups)
			})

			r.With(custommw.RequireCapability(rbac.CapCatalogManage)).Group(func(r chi.Router) {
				r.Post("/", h.save)
				r.Post("/draft", h.draft)
				r.Post("/{id}/move", h.move)
				r.Post("/children/begin", h.beginChild)
				r.Post("/children", h.saveChild)
				r.Get("/{id}/children/{childID}", h.openChild)
			})

			r.With(custommw.RequireCapability(rbac.CapCatalogPublish)).Group(func(r chi.Router) {
				r.Post("/{id}/toggle", h.toggle)
				r.Delete("/{id}", h.remove)
				r.Post("/{id}/children/{childID}/toggle", h.toggleChild)
				r.Delete("/{id}/children/{childID}", h.removeChild)
			})

			r.With(custommw.RequireCapability(rbac.CapAssetUpload)).
				Post("/upload", h.upload)
		})
	})

	return router, nil
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
