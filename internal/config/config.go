// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// DatabaseURL is the PostgreSQL DSN. Empty runs the service on the
	// in-memory store.
	DatabaseURL string

	SessionTTL time.Duration

	// Weather provider configuration. CheckWX is optional; the free
	// aviationweather.gov feed is always available as fallback.
	CheckWXAPIKey    string
	WeatherTimeout   time.Duration
	WeatherCacheSize int
	WeatherCacheTTL  time.Duration

	// OpenAI briefing configuration. Briefings are disabled without a key.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Kafka event publishing. Disabled when no brokers are configured.
	KafkaBrokers   []string
	KafkaPlanTopic string
}

// BriefingEnabled reports whether AI briefings can be generated.
func (c *Config) BriefingEnabled() bool { return c.OpenAIAPIKey != "" }

// EventsEnabled reports whether plan events are published.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parseDuration("SESSION_TTL", "24h")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherCacheTTL, err := parseDuration("WEATHER_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	openAITimeout, err := parseDuration("OPENAI_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	weatherCacheSize, err := parsePositiveInt("WEATHER_CACHE_SIZE", 500)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":"+envOrDefault("PORT", "8080")),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SessionTTL:  sessionTTL,

		CheckWXAPIKey:    os.Getenv("CHECKWX_API_KEY"),
		WeatherTimeout:   weatherTimeout,
		WeatherCacheSize: weatherCacheSize,
		WeatherCacheTTL:  weatherCacheTTL,

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: openAITimeout,

		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaPlanTopic: envOrDefault("KAFKA_PLAN_TOPIC", "flight-plan-events"),
	}

	if strings.TrimPrefix(cfg.HTTPAddr, ":") == "" {
		return nil, errors.New("PORT must not be empty")
	}
	if cfg.EventsEnabled() && cfg.KafkaPlanTopic == "" {
		return nil, errors.New("KAFKA_PLAN_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, trimming whitespace
// and dropping empty entries.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
