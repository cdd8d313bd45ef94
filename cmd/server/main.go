package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/payvault/internal/adapter/cache"
	"github.com/seu-repo/payvault/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/payvault/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/payvault/internal/adapter/queue"
	"github.com/seu-repo/payvault/internal/adapter/storage/postgres"
	"github.com/seu-repo/payvault/internal/adapter/vault"
	"github.com/seu-repo/payvault/internal/observability/telemetry"
	"github.com/seu-repo/payvault/internal/ports"
	"github.com/seu-repo/payvault/internal/service/email"
	"github.com/seu-repo/payvault/internal/service/payment"
	"github.com/seu-repo/payvault/internal/service/user"
	"github.com/seu-repo/payvault/pkg/config"
)

const (
	serviceName    = "payvault-api"
	serviceVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting PayVault API",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.App.Environment),
	)

	// Secrets from Vault override the environment when enabled
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		secretKey, publishableKey, webhookSecret, err := secrets.GetStripeKeys()
		if err != nil {
			logger.Fatal("Failed to read Stripe keys from Vault", zap.Error(err))
		}
		cfg.Payment.Stripe.SecretKey = secretKey
		cfg.Payment.Stripe.PublishableKey = publishableKey
		cfg.Payment.Stripe.WebhookSecret = webhookSecret

		if dbURL, err := secrets.GetDatabaseURL(); err == nil {
			cfg.Database.URL = dbURL
		} else {
			logger.Warn("Database URL not in Vault, using configured value", zap.Error(err))
		}
	}

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Redis for session state; in-process cache when Redis is not configured
	var sessionCache ports.Cache
	if cfg.Redis.URL != "" {
		sessionCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	} else {
		logger.Warn("Redis not configured, using in-process cache")
		sessionCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer sessionCache.Close()

	messageQueue, err := newMessageQueue(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue",
			zap.String("driver", cfg.Queue.Driver),
			zap.Error(err),
		)
	}
	defer messageQueue.Close()

	emailService, err := email.NewService(emailConfig(cfg.Notification.Email), logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	paymentRepo := postgres.NewPaymentRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)

	stripeProvider := payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)
	paymentService := payment.NewService(
		&payment.Config{
			SecretKey:       cfg.Payment.Stripe.SecretKey,
			PublishableKey:  cfg.Payment.Stripe.PublishableKey,
			WebhookSecret:   cfg.Payment.Stripe.WebhookSecret,
			DefaultCurrency: cfg.Payment.Stripe.Currency,
		},
		stripeProvider,
		paymentRepo,
		userRepo,
		messageQueue,
		emailService,
		logger,
	)
	userService := user.NewService(user.Config{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: cfg.JWT.TokenDuration,
	}, userRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := sqlDB.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Database not ready")
		}
		if err := sessionCache.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	userHandler := handlers.NewUserHandler(userService, logger)
	app.Post("/api/users/register", userHandler.Register)
	app.Post("/api/users/login", userHandler.Login)
	app.Get("/api/users/me", middleware.AuthRequired(userService), userHandler.Me)

	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	payments := app.Group("/api/payments")
	payments.Get("/config", paymentHandler.Config)
	payments.Post("/customers", paymentHandler.CreateCustomer)
	payments.Post("/customers/:id/setup-intent", paymentHandler.CreateSetupIntent)
	payments.Get("/customers/:id/payment-methods", paymentHandler.ListPaymentMethods)
	payments.Delete("/payment-methods/:id", paymentHandler.DeletePaymentMethod)
	payments.Post("/charge-customer", paymentHandler.ChargeCustomer)
	payments.Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	payments.Post("/confirm-payment", paymentHandler.ConfirmPayment)
	payments.Post("/webhook", paymentHandler.Webhook)

	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

func newMessageQueue(cfg config.QueueConfig, logger *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Driver {
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.RabbitMQ.URL, logger)
	default:
		return queue.NewNATSQueue(cfg.NATS.URL, logger)
	}
}

func emailConfig(cfg config.EmailConfig) *email.Config {
	if cfg.Provider == "" {
		return email.DefaultConfig()
	}
	return &email.Config{
		Provider:       cfg.Provider,
		FromEmail:      cfg.From,
		FromName:       cfg.FromName,
		SendGridAPIKey: cfg.APIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUsername:   cfg.SMTPUsername,
		SMTPPassword:   cfg.SMTPPassword,
		BaseURL:        cfg.BaseURL,
	}
}
