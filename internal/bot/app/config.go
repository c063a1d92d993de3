package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/commands"
)

type Config struct {
	Token          string // Required: bot token for the platform gateway
	DataDir        string // Optional: directory holding the JSON documents (default: ./data)
	AuditChannelID string // Optional: channel notified per successful claim; empty disables

	Env          string        // Environment (dev, staging, prod) (default: dev)
	LogLevel     string        // Log level (debug, info, warn, error) (default: info)
	LogFormat    string        // Log format (json, text) (default: json)
	Port         int           // Keep-alive HTTP port (default: 5000)
	RestartDelay time.Duration // Supervisor pause before restarting a crashed session (default: 5s)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	ClaimLimit commands.RateLimit // Per-member /claim rate limit
}

func LoadConfig() Config {
	return Config{
		Token:          os.Getenv("DISCORD_TOKEN"),
		DataDir:        getEnvOrDefault("DATA_DIR", "data"),
		AuditChannelID: os.Getenv("AUDIT_CHANNEL_ID"),

		Env:          getEnvOrDefault("ENV", "dev"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "json"),
		Port:         getEnvIntOrDefault("PORT", 5000),
		RestartDelay: getEnvDurationOrDefault("RESTART_DELAY", 5*time.Second),

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		ClaimLimit: commands.RateLimit{
			Requests: getEnvIntOrDefault("CLAIM_LIMIT_REQUESTS", 3),
			Window:   getEnvDurationOrDefault("CLAIM_LIMIT_WINDOW", time.Minute),
			Burst:    getEnvIntOrDefault("CLAIM_LIMIT_BURST", 3),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
