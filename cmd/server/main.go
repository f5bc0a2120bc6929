package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"orgdrive/internal/auth"
	"orgdrive/internal/config"
	"orgdrive/internal/handler"
	"orgdrive/internal/middleware"
	"orgdrive/internal/objectstore"
	"orgdrive/internal/repository"
	"orgdrive/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser := config.NewLogger(cfg)
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"metadata_store", cfg.MetadataStore,
		"object_store", cfg.ObjectStore.Type,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pending migrations are applied at startup
	metadata, err := repository.Open(ctx, cfg, true, logger)
	if err != nil {
		log.Fatalf("Failed to open metadata store: %v", err)
	}
	defer metadata.Close()

	objects, err := objectstore.New(ctx, cfg.ObjectStore, logger)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	services := service.New(metadata.Registry, objects, logger)
	logger.Info("services initialized")

	var database handler.Pinger
	if metadata.Pool != nil {
		database = metadata.Pool
	}
	handlers := &handler.Handlers{
		Health:        handler.NewHealthHandler(database, logger),
		Organizations: handler.NewOrganizationHandler(services.Organizations, logger),
		Folders:       handler.NewFolderHandler(services.Folders, logger),
		Files:         handler.NewFileHandler(services.Files, services.Favorites, logger),
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	if cfg.JWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.Auth(jwtVerifier, logger)(h)
	} else if cfg.Environment == "dev" {
		h = middleware.DevAuth(logger)(h)
	} else {
		log.Fatalf("JWKS_URL is required outside dev")
	}
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.DevUserHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
