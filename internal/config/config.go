package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the companion service, loaded
// from environment variables (optionally via a .env file for local runs).
type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisAddr   string

	OpenAIKey    string
	OpenAIModel  string
	WhisperModel string

	GoogleMapsKey string
	RegionSuffix  string

	GeocodeWorkers  int
	GeocodeInterval time.Duration

	SuggestionCacheTTL time.Duration
}

// Load reads configuration from the environment. Only DATABASE_URL is
// required; AI, geocoding, and cache integrations are optional and the
// service degrades gracefully without them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "local"),
		Port: getEnv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
		WhisperModel: getEnv("WHISPER_MODEL", "whisper-1"),

		GoogleMapsKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		RegionSuffix:  os.Getenv("GEOCODE_REGION_SUFFIX"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("load config: DATABASE_URL is required")
	}

	var err error
	if cfg.GeocodeWorkers, err = getEnvInt("GEOCODE_WORKERS", 5); err != nil {
		return nil, err
	}
	if cfg.GeocodeInterval, err = getEnvDuration("GEOCODE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SuggestionCacheTTL, err = getEnvDuration("SUGGESTION_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s must be a duration: %w", key, err)
	}
	return d, nil
}
