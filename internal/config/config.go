package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Stores
	PostgresURL string
	RedisURL    string

	// Model artifacts
	ModelsDir string

	// Estimator refresh
	RefreshConcurrency int

	// Prediction
	MinSeries []string

	// Scheduler (cron expressions, local time)
	RefreshSchedule  string
	PredictSchedule  string
	AnalyzeSchedule  string
	TrainingSchedule string

	// Caching
	ReportCacheTTL time.Duration
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ModelsDir:          getEnv("MODELS_DIR", "data/models"),
		RefreshConcurrency: getEnvInt("REFRESH_CONCURRENCY", 8),

		RefreshSchedule:  getEnv("REFRESH_SCHEDULE", "0 6 * * *"),
		PredictSchedule:  getEnv("PREDICT_SCHEDULE", "0 8 * * *"),
		AnalyzeSchedule:  getEnv("ANALYZE_SCHEDULE", "0 22 * * *"),
		TrainingSchedule: getEnv("TRAINING_SCHEDULE", "0 2 * * 0"),

		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", 60*time.Second),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Tournament tiers eligible for batch prediction
	series := getEnv("MIN_SERIES", "ATP500,Masters 1000,Grand Slam")
	for _, s := range strings.Split(series, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			cfg.MinSeries = append(cfg.MinSeries, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
