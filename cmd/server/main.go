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

	"launchit/internal/auth"
	"launchit/internal/config"
	"launchit/internal/handler"
	"launchit/internal/maintenance"
	"launchit/internal/metrics"
	"launchit/internal/middleware"
	"launchit/internal/moderation"
	"launchit/internal/repository"
	serviceAuth "launchit/internal/service/auth"
	"launchit/internal/service/comments"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logWriter, closeLog, err := config.LogWriter(cfg)
	if err != nil {
		log.Fatalf("Failed to set up log file: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg, logWriter)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier: JWKS when the project URL is known, shared secret otherwise
	jwtVerifier, err := newVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Open store and apply migrations
	ctx := context.Background()
	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer stores.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Report reason catalog
	catalog, err := moderation.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load report reasons: %v", err)
	}

	orphanPolicy, err := comments.ParseOrphanPolicy(cfg.OrphanPolicy)
	if err != nil {
		log.Fatalf("Invalid orphan policy: %v", err)
	}

	// Create services
	authorizer := serviceAuth.NewRoleBasedAuthorizer()
	identityService := serviceAuth.NewProfileIdentityService(stores.Profiles, logger)
	commentService := comments.NewCommentService(
		stores.Comments,
		stores.Tx,
		authorizer,
		comments.NewTreeBuilder(orphanPolicy),
		appMetrics,
		logger,
	)
	reportService := comments.NewReportService(
		stores.Comments,
		stores.Reports,
		authorizer,
		catalog,
		appMetrics,
		logger,
	)

	logger.Info("services initialized", "orphan_policy", orphanPolicy)

	// Scheduled tombstone sweeps
	sweeper := maintenance.NewTombstoneSweeper(stores.Comments, appMetrics, logger)
	cronManager := maintenance.NewCronManager(maintenance.JobRegistry{
		maintenance.TombstoneSweeperJob: {
			Func:     sweeper.Job(),
			Schedule: cfg.TombstoneSweepSchedule,
		},
	}, logger)
	if err := cronManager.LoadJobs(); err != nil {
		log.Fatalf("Failed to schedule maintenance jobs: %v", err)
	}
	cronManager.Start()
	defer cronManager.Stop()

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewCommentHandler(commentService, authorizer, logger),
		handler.NewReportHandler(reportService, catalog, logger),
	)
	mux.Handle("GET /metrics", metrics.Handler(registry))

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Auth → Recovery → RequestLogger → Routes
	h = middleware.RequestLogger(appMetrics, logger)(h)
	h = middleware.Recovery(appMetrics, logger)(h)
	h = middleware.AuthMiddleware(jwtVerifier, identityService, logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// newVerifier picks JWKS verification when the Supabase URL is configured
// and falls back to the legacy HS256 secret
func newVerifier(cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.SupabaseJWKSURL != "" {
		return auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	}
	if cfg.SupabaseJWTSecret != "" {
		logger.Warn("SUPABASE_URL not set, verifying tokens with the shared JWT secret")
		return auth.NewSecretJWTVerifier(cfg.SupabaseJWTSecret, logger)
	}
	return nil, errors.New("set SUPABASE_URL or SUPABASE_JWT_SECRET")
}
