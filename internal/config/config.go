package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	CoreDatabaseURL string
	TemporalAddress string
	HTTPListenAddr  string
	MetricsAddr     string
	LogLevel        string
	ServiceName     string
	// PlansFile points at the pricing catalog YAML.
	PlansFile string
	// ReconcileInterval is the tick interval of the in-process onboarding
	// reconciler in core-api.
	ReconcileInterval time.Duration
	// SessionTTL bounds how long a login session stays valid.
	SessionTTL time.Duration
	// SMSCodeTTL bounds how long an SMS validation code can be redeemed.
	SMSCodeTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		CoreDatabaseURL:   getEnv("CORE_DATABASE_URL", ""),
		TemporalAddress:   getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", ""),
		PlansFile:         getEnv("PLANS_FILE", "plans.yaml"),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", 5*time.Second),
		SessionTTL:        getDuration("SESSION_TTL", 24*time.Hour),
		SMSCodeTTL:        getDuration("SMS_CODE_TTL", 10*time.Minute),
	}

	return cfg, nil
}

// Validate checks that the config carries everything the named service
// needs to start.
func (c *Config) Validate(service string) error {
	switch service {
	case "core-api", "worker":
		if c.CoreDatabaseURL == "" {
			return fmt.Errorf("%s: CORE_DATABASE_URL is required", service)
		}
	}
	if service == "worker" && c.TemporalAddress == "" {
		return fmt.Errorf("worker: TEMPORAL_ADDRESS is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
