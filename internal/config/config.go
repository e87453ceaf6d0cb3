package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	MonitorID   string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// External Services
	// DirectoryURL is the camera directory service (camera CRUD).
	// AlertFeedURL is the raw detection message feed.
	DirectoryURL string
	AlertFeedURL string

	// Polling
	HealthPollInterval time.Duration
	AlertPollInterval  time.Duration
	ProbeTimeout       time.Duration

	// Alert deduplication: suppress repeated incidents of the same type
	// within this window. Zero disables suppression.
	AlertsCooldown time.Duration

	// NATS (for alert fan-out). Empty URL disables publishing.
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	AlertsSubject      string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		MonitorID:   getEnv("MONITOR_ID", "monitor-1"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// External Services
		DirectoryURL: getEnv("DIRECTORY_URL", "http://localhost:5000"),
		AlertFeedURL: getEnv("ALERT_FEED_URL", "http://localhost:5000/api/alert"),

		// Polling
		HealthPollInterval: getEnvDuration("HEALTH_POLL_INTERVAL", 10*time.Second),
		AlertPollInterval:  getEnvDuration("ALERT_POLL_INTERVAL", 1*time.Second),
		ProbeTimeout:       getEnvDuration("PROBE_TIMEOUT", 3*time.Second),

		// Alerting
		AlertsCooldown: getEnvDuration("ALERTS_COOLDOWN", 10*time.Second),

		// NATS
		NatsURL:            getEnv("NATS_URL", ""),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		AlertsSubject:      getEnv("ALERTS_SUBJECT", "incidents"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
