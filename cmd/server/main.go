package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"carshare/internal/app"
	"carshare/internal/auth"
	"carshare/internal/config"
	"carshare/internal/handler"
	"carshare/internal/jobs"
	internalRedis "carshare/internal/redis"
	"carshare/internal/repository/postgres"
	"carshare/internal/service"
	"carshare/internal/stripe"
)

func main() {
	// Load .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, sweepJob := wireServer(db, redisClient, nrApp, cfg)

	// Schedule the daily overdue sweep.
	var scheduler *cron.Cron
	if cfg.Sweep.Enabled {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Sweep.Schedule, func() {
			sweepCtx, sweepCancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer sweepCancel()
			if _, _, err := sweepJob.Run(sweepCtx); err != nil {
				log.Printf("overdue sweep failed: %v", err)
			}
		}); err != nil {
			log.Fatalf("failed to schedule overdue sweep: %v", err)
		}
		scheduler.Start()
		log.Printf("Overdue sweep scheduled: %s", cfg.Sweep.Schedule)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// overdue-sweep job.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *jobs.SweepJob) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	carRepo := postgres.NewCarRepository(db)
	rentalRepo := postgres.NewRentalRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	txManager := postgres.NewTxManager(db)

	// Initialize notification senders from whatever is configured.
	var senders []service.Sender
	if cfg.Notify.SendGridAPIKey != "" && cfg.Notify.FromEmail != "" {
		senders = append(senders, service.NewSendGridSender(
			cfg.Notify.SendGridAPIKey, cfg.Notify.FromName, cfg.Notify.FromEmail))
	}
	if cfg.Notify.TwilioAccountSID != "" && cfg.Notify.TwilioAuthToken != "" {
		senders = append(senders, service.NewTwilioSender(
			cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken, cfg.Notify.TwilioFromNumber))
	}

	// Initialize services.
	notificationService := service.NewNotificationService(senders...)
	carService := service.NewCarService(carRepo, cacheStore)
	rentalService := service.NewRentalService(txManager, rentalRepo, carRepo, userRepo, notificationService)
	gateway := stripe.NewGateway(stripe.Config{
		APIKey:     cfg.Stripe.APIKey,
		Currency:   cfg.Stripe.Currency,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	})
	paymentService := service.NewPaymentService(paymentRepo, rentalRepo, carRepo, userRepo, cacheStore, gateway, notificationService)
	userService := service.NewUserService(userRepo)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	sweepJob := jobs.NewSweepJob(rentalRepo, lockStore, notificationService, service.Recipient{
		Name:  cfg.Notify.OpsName,
		Email: cfg.Notify.OpsEmail,
		Phone: cfg.Notify.OpsPhone,
	})

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService, tokenManager)
	carHandler := handler.NewCarHandler(carService)
	rentalHandler := handler.NewRentalHandler(rentalService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CarHandler:     carHandler,
		RentalHandler:  rentalHandler,
		PaymentHandler: paymentHandler,
		UserHandler:    userHandler,
		TokenManager:   tokenManager,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, sweepJob
}
