package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/obras-hq/obras-backend/internal/ai"
	"github.com/obras-hq/obras-backend/internal/config"
	"github.com/obras-hq/obras-backend/internal/handler"
	"github.com/obras-hq/obras-backend/internal/middleware"
	"github.com/obras-hq/obras-backend/internal/repository/postgres"
	"github.com/obras-hq/obras-backend/internal/repository/storage"
	"github.com/obras-hq/obras-backend/internal/service"
	"github.com/obras-hq/obras-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Run database migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	expenseRepo := postgres.NewExpenseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	preferenceRepo := postgres.NewPreferenceRepository(pool)

	// Gemini client is optional: without an API key the insight and
	// receipt endpoints degrade to fixed messages.
	var aiClient ai.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		defer geminiClient.Close()
		aiClient = geminiClient
		log.Info().Msg("Gemini client initialized")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, AI features disabled")
	}

	// Receipt storage is optional: without a bucket receipts stay inline
	// on the expense record.
	var receiptStore storage.ReceiptRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 receipt repository")
		}
		receiptStore = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 receipt storage initialized")
	} else {
		log.Warn().Msg("S3_BUCKET not set, receipts stored inline")
	}

	// WebSocket hub for change events
	hub := websocket.NewHub()

	// Initialize services
	mirrorService := service.NewMirrorService(expenseRepo, categoryRepo, projectRepo, hub)
	insightService := service.NewInsightService(aiClient)
	receiptService := service.NewReceiptService(aiClient, receiptStore)
	preferenceService := service.NewPreferenceService(preferenceRepo)

	// Prime the in-memory mirror from the store
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	mirrorService.Load(loadCtx)
	cancelLoad()

	// Initialize handlers
	expenseHandler := handler.NewExpenseHandler(mirrorService, receiptService)
	categoryHandler := handler.NewCategoryHandler(mirrorService)
	projectHandler := handler.NewProjectHandler(mirrorService)
	dashboardHandler := handler.NewDashboardHandler(mirrorService)
	insightHandler := handler.NewInsightHandler(mirrorService, insightService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-client rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, expenseHandler, categoryHandler, projectHandler, dashboardHandler, insightHandler, receiptHandler, preferenceHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
