package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	database "github.com/careerbridge/careerbridge-api/app/db"
	appLogger "github.com/careerbridge/careerbridge-api/app/logger"
	"github.com/careerbridge/careerbridge-api/app/mail"
	"github.com/careerbridge/careerbridge-api/app/tracer"
	"github.com/careerbridge/careerbridge-api/config"
	"github.com/careerbridge/careerbridge-api/internal/api/auth"
	"github.com/careerbridge/careerbridge-api/internal/api/job"
	"github.com/careerbridge/careerbridge-api/internal/api/post"
	"github.com/careerbridge/careerbridge-api/internal/api/profile"
	"github.com/careerbridge/careerbridge-api/internal/router"
)

const serviceName = "careerbridge-api"

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics(serviceName, cfg.Server.MetricsPort, logger); err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	codec := auth.NewSessionTokenCodec(cfg.JWT)
	notifier := mail.NewSMTPNotifier(cfg.SMTP, logger)

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, auth.NewBcryptHasher(), auth.HexTokenGenerator{}, codec, notifier, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	jobRepo := job.NewPostgresJobRepo(pool, logger)
	jobService := job.NewJobService(jobRepo, logger)
	jobHandler := job.NewJobHandler(jobService, logger)

	postRepo := post.NewPostgresPostRepo(pool, logger)
	postService := post.NewPostService(postRepo, logger)
	postHandler := post.NewPostHandler(postService, logger)

	profileRepo := profile.NewPostgresProfileRepo(pool, logger)
	profileService := profile.NewProfileService(profileRepo, logger)
	profileHandler := profile.NewProfileHandler(profileService, logger)

	// --- Router Setup ---
	apiRouter := router.SetupRouter(&router.Config{
		AuthHandler:                authHandler,
		JobHandler:                 jobHandler,
		PostHandler:                postHandler,
		ProfileHandler:             profileHandler,
		AuthenticateMiddleware:     auth.Authenticate(logger, codec),
		RequireRecruiterMiddleware: auth.RequireRole(logger, auth.RoleRecruiter, auth.RoleAdmin),
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}
