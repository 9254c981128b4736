package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	LogLevel       string
	MigrationsPath string

	// Supabase/hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Redis RedisConfig

	Backend BackendConfig

	Session SessionConfig

	// WebhookSecret signs status-changed callbacks coming from the system of record.
	WebhookSecret string

	// DashboardAllowedOrigins is a comma-separated allowlist of browser origins allowed to call
	// the API. Example:
	//   https://admin.yourapp.com,http://localhost:5173
	DashboardAllowedOrigins []string

	Kafka KafkaConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type RedisConfig struct {
	Addr string
	DB   int
	// ReadModelTTL bounds how long a cached detail/list/history read-model is served
	// before the backend is asked again.
	ReadModelTTL time.Duration
}

type BackendConfig struct {
	BaseURL  string
	APIToken string
}

type SessionConfig struct {
	Secret   string
	Audience string
}

type KafkaConfig struct {
	// Brokers empty disables status-changed event publishing.
	Brokers     []string
	StatusTopic string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		LogLevel:       env("LOG_LEVEL", "info"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "dashboard"),
			User:     env("DB_USER", "dashboard"),
			Password: env("DB_PASSWORD", "dashboard"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:         env("REDIS_ADDR", "localhost:6379"),
			DB:           envInt("REDIS_DB", 0),
			ReadModelTTL: time.Duration(envInt("READ_MODEL_TTL_SEC", 300)) * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:  env("BACKEND_BASE_URL", "http://localhost:8080/api"),
			APIToken: os.Getenv("BACKEND_API_TOKEN"),
		},
		Session: SessionConfig{
			Secret:   os.Getenv("SESSION_SECRET"),
			Audience: env("SESSION_AUDIENCE", "dashboard"),
		},
		WebhookSecret:           os.Getenv("WEBHOOK_SECRET"),
		DashboardAllowedOrigins: envList("DASHBOARD_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
		Kafka: KafkaConfig{
			Brokers:     envList("KAFKA_BROKERS", ""),
			StatusTopic: env("KAFKA_STATUS_TOPIC", "dashboard.status-changed"),
		},
	}
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// envInt falls back on missing or malformed values; Load never fails.
func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
