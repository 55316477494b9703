package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the service reads from the environment. Loaded once
// at startup and treated as immutable afterwards.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   []byte
	TokenTTL    time.Duration

	GatewayBaseURL       string
	GatewayClientID      string
	GatewayClientSecret  string
	GatewayWebhookSecret string
	CallbackBaseURL      string

	SendGridAPIKey  string
	CouponFromEmail string

	PendingTTL    time.Duration
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            []byte(os.Getenv("JWT_SECRET")),
		GatewayBaseURL:       getEnv("GATEWAY_BASE_URL", "https://sandbox.cashfree.com/pg"),
		GatewayClientID:      os.Getenv("GATEWAY_CLIENT_ID"),
		GatewayClientSecret:  os.Getenv("GATEWAY_CLIENT_SECRET"),
		GatewayWebhookSecret: os.Getenv("GATEWAY_WEBHOOK_SECRET"),
		CallbackBaseURL:      getEnv("CALLBACK_BASE_URL", "http://localhost:8080"),
		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		CouponFromEmail:      os.Getenv("COUPON_FROM_EMAIL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.PendingTTL, err = getDuration("PENDING_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
