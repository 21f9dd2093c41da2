package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"learnhub-backend/internal/cache"
	"learnhub-backend/internal/config"
	"learnhub-backend/internal/database"
	"learnhub-backend/internal/handlers"
	"learnhub-backend/internal/middleware"
	"learnhub-backend/internal/repository"
	"learnhub-backend/internal/router"
	"learnhub-backend/internal/services"
	"learnhub-backend/internal/websocket"
	"learnhub-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting LearnHub Backend...")

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

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)
	instructorRepo := repository.NewInstructorRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	waitlistRepo := repository.NewWaitlistRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Step 5: Initialize YouTube and Gemini Clients ────
	ctx := context.Background()

	youtubeService, err := services.NewYouTubeService(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		log.Fatalf("✗ YouTube client initialization failed: %v", err)
	}
	log.Println("✓ YouTube Data API client initialized")

	groupingService, err := services.NewGroupingService(ctx, cfg.GeminiAPIKey, cfg.GroupingMaxVideos)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer groupingService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, strings.Split(cfg.AdminEmails, ","))
	importService := services.NewImportService(pool, videoRepo, commentRepo, instructorRepo, courseRepo)

	channelCache := cache.NewChannelCache(
		cache.NewRedisStore(redisClients.Queue),
		time.Duration(cfg.ChannelCacheTTLHours)*time.Hour,
	)

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		redisClients.PubSub,
		youtubeService,
		importService,
		emailService,
		channelCache,
		userRepo,
		jobRepo,
		cfg.CommentFetchMax,
		5,
	)
	workerPool.Start()
	log.Println("✓ Worker pool started (5 goroutines)")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseRepo)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistRepo, emailService)
	youtubeHandler := handlers.NewYouTubeHandler(workerPool, channelCache, youtubeService, videoRepo, commentRepo)
	groupingHandler := handlers.NewGroupingHandler(groupingService, channelCache)
	importHandler := handlers.NewImportHandler(importService, channelCache, workerPool)
	userHandler := handlers.NewUserHandler(userRepo)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		courseHandler,
		waitlistHandler,
		youtubeHandler,
		groupingHandler,
		importHandler,
		userHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		wsHub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("✓ LearnHub Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
