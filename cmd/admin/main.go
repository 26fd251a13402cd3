package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"akvapump.com/site-admin/internal/admin/catalog"
	"akvapump.com/site-admin/internal/admin/httpserver"
	"akvapump.com/site-admin/internal/admin/httpserver/middleware"
	"akvapump.com/site-admin/internal/platform/observability"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		os.Stderr.WriteString("failed to initialise logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	rootCtx := context.Background()
	cfg := httpserver.Config{
		Address:        getEnv("ADMIN_HTTP_ADDR", ":8080"),
		BasePath:       getEnv("ADMIN_BASE_PATH", "/admin"),
		Authenticator:  buildAuthenticator(rootCtx, logger),
		CatalogService: buildCatalogService(logger),
		Logger:         logger,
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		logger.Fatal("build http server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("admin server listening",
		zap.String("address", cfg.Address),
		zap.String("base_path", cfg.BasePath),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildCatalogService talks to the real site backend when SITE_API_URL is set
// and falls back to the deterministic in-memory catalog for local work.
func buildCatalogService(logger *zap.Logger) catalog.Service {
	baseURL := os.Getenv("SITE_API_URL")
	if baseURL == "" {
		logger.Info("SITE_API_URL not set; using static catalog service")
		return catalog.NewStaticService()
	}

	svc, err := catalog.NewHTTPService(baseURL, nil)
	if err != nil {
		logger.Warn("invalid SITE_API_URL; using static catalog service", zap.Error(err))
		return catalog.NewStaticService()
	}

	logger.Info("catalog backend configured", zap.String("base_url", baseURL))
	return svc
}

func buildAuthenticator(ctx context.Context, logger *zap.Logger) middleware.Authenticator {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		logger.Info("FIREBASE_PROJECT_ID not set; using passthrough authenticator")
		return nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: projectID,
	})
	if err != nil {
		logger.Warn("failed to initialise Firebase app", zap.Error(err))
		return nil
	}

	client, err := app.Auth(ctx)
	if err != nil {
		logger.Warn("failed to initialise Firebase auth client", zap.Error(err))
		return nil
	}

	logger.Info("Firebase authenticator enabled", zap.String("project", projectID))
	return middleware.NewFirebaseAuthenticator(client)
}
