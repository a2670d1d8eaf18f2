package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"quizhub-backend/internal/config"
	"quizhub-backend/internal/database"
	"quizhub-backend/internal/handlers"
	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/middleware"
	"quizhub-backend/internal/repository"
	"quizhub-backend/internal/router"
	"quizhub-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("🚀 Starting QuizHub Backend...", "env", cfg.Env)

	// ──── Step 2: Open Database ────
	db, closeDB, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("✗ Database connection failed", "driver", cfg.DBDriver, "error", err)
	}
	defer closeDB()
	log.Info("✓ Database connected", "driver", cfg.DBDriver)

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(db, cfg.DBDriver); err != nil {
		log.Fatal("✗ Database migration failed", "error", err)
	}
	log.Info("✓ Database migrations applied")

	// ──── Step 4: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("✗ Redis connection failed", "error", err)
	}
	defer redisClient.Close()
	log.Info("✓ Redis connected")

	// ──── Initialize Repositories & Services ────
	store := repository.NewStore(db)
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)

	quizCache := services.NewRedisQuizCache(redisClient, cfg.QuizCacheTTL)
	quizService := services.NewQuizService(store, quizCache, log)
	attemptService := services.NewAttemptService(store, quizService, log)
	reportService := services.NewReportService(store.Attempts)
	catalogService := services.NewCatalogService(store.Questions)
	authService := services.NewAuthService(store.Users, jwtAuth, cfg.AccessTokenTTL, log)

	// ──── Step 5: Bootstrap Admin Account ────
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(bootCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		cancelBoot()
		log.Fatal("✗ Admin bootstrap failed", "error", err)
	}
	cancelBoot()

	// ──── Initialize Handlers ────
	loginLimiter := middleware.NewRateLimiter(
		middleware.NewRedisCounter(redisClient), "login", cfg.LoginRateLimit, cfg.LoginRateWindow, log,
	)

	r := router.New(
		log,
		jwtAuth,
		loginLimiter,
		handlers.NewAuthHandler(authService, log),
		handlers.NewQuizHandler(quizService, log),
		handlers.NewAttemptHandler(attemptService, log),
		handlers.NewReportHandler(reportService, log),
		handlers.NewQuestionHandler(catalogService, log),
		cfg.FrontendURL,
	)

	// ──── Step 6: Start HTTP Server ────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("✓ QuizHub Backend ready", "addr", "http://localhost:"+cfg.Port, "api", "/api")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server error", "error", err)
		os.Exit(1)
	}
}
