package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"inride/internal/app"
	"inride/internal/config"
	"inride/internal/events"
	"inride/internal/handler"
	"inride/internal/logging"
	"inride/internal/observability"
	"inride/internal/oracle"
	"inride/internal/payments"
	internalRedis "inride/internal/redis"
	"inride/internal/repository/postgres"
	"inride/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New("inride-booking-service")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic comes first so the database driver can be instrumented.
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
			logger.Warn("new relic init failed", zap.Error(err))
		} else {
			logger.Info("new relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := app.Migrate(db, cfg.Database.DBName); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}
	logger.Info("connected to postgres, schema up to date")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to redis")

	var producer *events.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer producer.Close()
		logger.Info("kafka producer enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	server := wireServer(db, redisClient, producer, nrApp, cfg, logger)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	producer *events.Producer,
	nrApp *newrelic.Application,
	cfg *config.Config,
	logger *zap.Logger,
) *http.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.New(registry)

	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	locationStore := internalRedis.NewLocationStore(redisClient)
	otpStore := internalRedis.NewOTPStore(redisClient)

	// Oracle: OpenAI when configured, deterministic fallback otherwise.
	// Either way the resilient wrapper guarantees an answer.
	var primary oracle.Oracle = oracle.NewFallback()
	if cfg.OpenAI.Enabled && cfg.OpenAI.APIKey != "" {
		primary = oracle.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		logger.Info("openai oracle enabled", zap.String("model", cfg.OpenAI.Model))
	}
	verifier := oracle.NewResilient(primary, logger, metrics.OracleFallbacks)

	var psp payments.PSP
	if cfg.Stripe.Enabled && cfg.Stripe.APIKey != "" {
		psp = payments.NewStripeClient(cfg.Stripe.APIKey, "usd")
		logger.Info("stripe card top-ups enabled")
	}

	// Repositories.
	customerRepo := postgres.NewCustomerRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	platformRepo := postgres.NewPlatformRepository(db)
	transactor := postgres.NewTransactor(db)

	// Services.
	notifier := service.NewLogNotifier(logger)
	bookingService := service.NewBookingService(
		transactor, bookingRepo, customerRepo, driverRepo,
		lockStore, notifier, producer, logger, metrics,
	)
	profileService := service.NewProfileService(
		customerRepo, driverRepo, adminRepo, bookingRepo,
		locationStore, verifier, notifier, cfg.SuperAdmin, logger,
	)
	authService := service.NewAuthService(customerRepo, driverRepo, adminRepo, cfg.SuperAdmin, logger)
	walletService := service.NewWalletService(customerRepo, driverRepo, platformRepo, psp, notifier, logger)
	otpService := service.NewOTPService(otpStore, verifier, notifier, logger)

	// Handlers.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:     handler.NewAuthHandler(authService, otpService),
		CustomerHandler: handler.NewCustomerHandler(profileService, bookingService, walletService),
		DriverHandler:   handler.NewDriverHandler(profileService, bookingService, walletService),
		BookingHandler:  handler.NewBookingHandler(bookingService),
		AdminHandler:    handler.NewAdminHandler(profileService, bookingService, walletService),
		LocationHandler: handler.NewLocationHandler(verifier),
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
		Registry:        registry,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
