package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voltamax-backend/internal/config"
	"voltamax-backend/internal/database"
	"voltamax-backend/internal/handlers"
	"voltamax-backend/internal/middleware"
	"voltamax-backend/internal/repository"
	"voltamax-backend/internal/router"
	"voltamax-backend/internal/services"
	"voltamax-backend/internal/worker"
)

func main() {
	log.Println("🔋 Starting VoltaMax Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	rateLimitRepo := repository.NewRateLimitRepo(pool)
	newsletterRepo := repository.NewNewsletterRepo(pool)
	quoteRepo := repository.NewQuoteRepo(pool)
	warrantyRepo := repository.NewWarrantyRepo(pool)
	chatLogRepo := repository.NewChatLogRepo(pool)

	// ──── Initialize Services ────
	upstream := services.NewUpstreamClient(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, cfg.UpstreamModel)
	ratesService := services.NewRatesService(redisClient, cfg.RatesAPIURL, time.Duration(cfg.RatesTTLSeconds)*time.Second)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SalesEmail)
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)

	// Chat limiter (persisted fixed window per client IP)
	chatLimiter := middleware.NewRateLimiter(
		rateLimitRepo,
		"chat",
		cfg.ChatRateLimit,
		time.Duration(cfg.ChatRateWindowSeconds)*time.Second,
	)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(upstream, redisClient)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterRepo)
	quoteHandler := handlers.NewQuoteHandler(quoteRepo, redisClient)
	warrantyHandler := handlers.NewWarrantyHandler(warrantyRepo, redisClient)
	ratesHandler := handlers.NewRatesHandler(ratesService)
	adminHandler := handlers.NewAdminHandler(jwtAuth, cfg.AdminPasswordHash, newsletterRepo, quoteRepo)

	// ──── Step 5: Start Notification Worker Pool ────
	workerPool := worker.NewPool(redisClient, emailService, quoteRepo, warrantyRepo, chatLogRepo, 3)
	workerPool.Start()
	log.Println("✓ Worker pool started (3 goroutines)")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		chatLimiter,
		chatHandler,
		newsletterHandler,
		quoteHandler,
		warrantyHandler,
		ratesHandler,
		adminHandler,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No write timeout: /chat holds a long-lived event stream open
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ VoltaMax Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
