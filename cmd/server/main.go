package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	grpcapi "hazel-marketplace/internal/api/grpc"
	httpapi "hazel-marketplace/internal/api/http"
	"hazel-marketplace/internal/cache"
	"hazel-marketplace/internal/cart"
	"hazel-marketplace/internal/config"
	"hazel-marketplace/internal/jobs"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/realtime"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/repository/postgres"
	"hazel-marketplace/internal/scheduler"
	"hazel-marketplace/internal/security"
	"hazel-marketplace/internal/service"
	"hazel-marketplace/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting HAZEL marketplace backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_port", cfg.Server.HealthPort)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema applied")
	}

	store := postgres.NewStore(db)

	// Redis backs the listing cache and, optionally, the cart
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
	}

	var listingRepo repository.ListingRepository = store.ListingRepository
	var categoryRepo repository.CategoryRepository = store.CategoryRepository
	if rdb != nil {
		listingRepo = cache.NewCachedListingRepository(store.ListingRepository, rdb, cfg.ListingCacheTTL())
		categoryRepo = cache.NewCachedCategoryRepository(store.CategoryRepository, rdb, cfg.ListingCacheTTL())
	}

	var cartStore cart.Store
	switch cfg.Cart.Store {
	case "redis":
		cartStore = cart.NewRedisStore(rdb, cfg.CartTTL())
	default:
		cartStore = cart.NewMemoryStore()
	}
	logger.Info("Cart store selected", "store", cfg.Cart.Store)

	// Initialize Storage
	maxUpload := cfg.Storage.MaxFileSize << 20
	images, err := storage.NewLocalStore(cfg.Storage.BaseURL, cfg.Storage.UploadDir, maxUpload)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	logger.Info("Using local image storage", "upload_dir", cfg.Storage.UploadDir)

	// Email goes through a background queue
	var mailer service.Mailer
	if cfg.SendGrid.APIKey != "" {
		mailer = service.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Warn("SendGrid API key not set, emails will only be logged")
		mailer = service.NewLogMailer()
	}
	emailQueue := service.NewEmailQueue(mailer, cfg.SendGrid.QueueWorkers, cfg.SendGrid.QueueSize, cfg.SendGrid.MaxRetries)
	queueCtx, stopQueue := context.WithCancel(context.Background())
	emailQueue.Start(queueCtx)
	emailSvc := service.NewEmailService(emailQueue)

	hub := realtime.NewHub(cfg.Server.WebsocketOrigins)
	push := service.MultiPush(hub)
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := service.NewFirebasePush(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize firebase messaging: %v", err)
		}
		push = service.MultiPush(fcm, hub)
	}

	var model service.ChatModel
	if cfg.AI.GeminiAPIKey != "" {
		m, client, err := service.NewGeminiModel(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("Failed to initialize support assistant: %v", err)
		}
		defer client.Close()
		model = m
	} else {
		logger.Warn("Gemini API key not set, support assistant will answer with a fallback message")
	}

	// Initialize Services
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	noteSvc := service.NewNotificationService(store.NotificationRepository, push)
	rentalSvc := service.NewRentalService(store.TransactionRepository, store.UserRepository, noteSvc, emailSvc)
	svcs := httpapi.Services{
		Auth:         service.NewAuthService(store.UserRepository, tokens, emailSvc),
		Profile:      service.NewProfileService(store.UserRepository),
		Listing:      service.NewListingService(listingRepo, categoryRepo, images),
		Favorite:     service.NewFavoriteService(store.FavoriteRepository, listingRepo),
		Cart:         service.NewCartService(cartStore, listingRepo, pricing.NewTable(cfg.Pricing.DeliveryFeeCents)),
		Checkout:     service.NewCheckoutService(cartStore, store.UserRepository, store.TransactionRepository, store.ContentRepository, noteSvc, emailSvc),
		Rental:       rentalSvc,
		Chat:         service.NewChatService(store.ChatRepository, store.UserRepository, listingRepo, noteSvc),
		Assistant:    service.NewAssistantService(model),
		Review:       service.NewReviewService(store.ReviewRepository, listingRepo),
		Content:      service.NewContentService(store.ContentRepository),
		Admin:        service.NewAdminService(store.UserRepository, listingRepo, store.TransactionRepository),
		Notification: noteSvc,
		Events:       hub,
	}

	router := httpapi.NewRouter(svcs, tokens, images, maxUpload)
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC health service
	var health *grpcapi.HealthServer
	if cfg.Server.HealthPort > 0 {
		checks := map[string]grpcapi.CheckFunc{"postgres": db.PingContext}
		if rdb != nil {
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
		health = grpcapi.NewHealthServer(checks)
		lis, err := net.Listen("tcp", cfg.GetHealthAddress())
		if err != nil {
			log.Fatalf("Failed to listen on health port: %v", err)
		}
		go health.Run(ctx, 15*time.Second)
		go func() {
			if err := health.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	var cron *scheduler.Scheduler
	if cfg.Server.RunScheduler {
		cron, err = scheduler.NewScheduler(jobs.NewJobRunner(rentalSvc, 5*time.Minute), cfg.Scheduler)
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cron.Start()
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if cron != nil {
		cron.Stop()
	}
	if health != nil {
		health.Stop()
	}

	// stop email workers
	stopQueue()
	emailQueue.Wait()
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	emailQueue.Drain(drainCtx)
	cancelDrain()
	logger.Info("Server stopped. Goodbye!")
}
