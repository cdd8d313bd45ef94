package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("backend.base_url", "BACKEND_BASE_URL", "APP_BACKEND_BASE_URL")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.driver", "QUEUE_DRIVER", "APP_QUEUE_DRIVER")
	viper.BindEnv("queue.nats.url", "NATS_URL", "APP_NATS_URL")
	viper.BindEnv("queue.rabbitmq.url", "RABBITMQ_URL", "APP_RABBITMQ_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("payment.stripe.publishable_key", "STRIPE_PUBLISHABLE_KEY")
	viper.BindEnv("payment.stripe.webhook_secret", "STRIPE_WEBHOOK_SECRET")
	viper.BindEnv("notification.email.api_key", "SENDGRID_API_KEY")
	viper.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	viper.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// env vars only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "payvault"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8080"
	}
	if cfg.Queue.Driver == "" {
		cfg.Queue.Driver = "nats"
	}
	if cfg.Payment.Stripe.Currency == "" {
		cfg.Payment.Stripe.Currency = "usd"
	}
	if cfg.Prometheus.Path == "" {
		cfg.Prometheus.Path = "/metrics"
	}
}
