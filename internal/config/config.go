package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	RedisAddr string

	// QuestionsDir is where domain question-set JSON files live.
	QuestionsDir string

	// QuestionsSource selects where the session loader reads question pools
	// from: "file" (QuestionsDir) or "mongo" (the seeded questions collection).
	QuestionsSource string

	// WebhookURL is the external collection endpoint review records are posted
	// to. Empty disables outbound submission.
	WebhookURL string

	// StatusURL is the remote review-status endpoint the session engine
	// queries. Empty means the engine uses the local status service directly.
	StatusURL string

	// SelectorStrategy is "sequential" or "min-count".
	SelectorStrategy string

	// SelectorCountSource is "local" or "global".
	SelectorCountSource string

	ReviewCap  int
	SessionTTL time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	redisAddr := getEnvOrDefault("REDIS_URI", "redis:6379")
	redisAddr = strings.TrimPrefix(redisAddr, "redis://")

	return &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		MongoURI:            getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnvOrDefault("MONGO_DB", "sciannotate"),
		RedisAddr:           redisAddr,
		QuestionsDir:        getEnvOrDefault("QUESTIONS_DIR", "data"),
		QuestionsSource:     getEnvOrDefault("QUESTIONS_SOURCE", "file"),
		WebhookURL:          os.Getenv("WEBHOOK_URL"),
		StatusURL:           os.Getenv("STATUS_URL"),
		SelectorStrategy:    getEnvOrDefault("SELECTOR_STRATEGY", "min-count"),
		SelectorCountSource: getEnvOrDefault("SELECTOR_COUNT_SOURCE", "global"),
		ReviewCap:           getEnvIntOrDefault("REVIEW_CAP", 3),
		SessionTTL:          time.Duration(getEnvIntOrDefault("SESSION_TTL_HOURS", 24)) * time.Hour,
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
