package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Rakuten RakutenConfig
	Catalog CatalogConfig
	Site    SiteConfig
	Admin   AdminConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RakutenConfig contains credentials and pacing for the Ichiba API.
// An empty ApplicationID disables the sync pipeline.
type RakutenConfig struct {
	ApplicationID string
	AffiliateID   string
	GenreName     string
	TopN          int
	MinInterval   time.Duration
	MaxRetries    int
}

// CatalogConfig controls how the in-memory catalog is seeded.
type CatalogConfig struct {
	DataFile string
}

// SiteConfig describes the published page the structured data refers to.
type SiteConfig struct {
	Title       string
	Description string
	BaseURL     string
}

// AdminConfig contains the admin credential used for the management surface.
// The password is stored as a bcrypt hash.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SyncInterval          time.Duration
	DetailRefreshInterval time.Duration
	DetailStaleAfter      time.Duration
	DetailRefreshCap      int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Rakuten Ichiba API
	cfg.Rakuten = RakutenConfig{
		ApplicationID: getEnv("RAKUTEN_APP_ID", ""),
		AffiliateID:   getEnv("RAKUTEN_AFFILIATE_ID", ""),
		GenreName:     getEnv("RAKUTEN_GENRE_NAME", "レディースファッション"),
		TopN:          getEnvInt("RAKUTEN_TOP_N", 10),
		MaxRetries:    getEnvInt("RAKUTEN_MAX_RETRIES", 3),
	}

	// Catalog seed
	cfg.Catalog = CatalogConfig{
		DataFile: getEnv("CATALOG_DATA_FILE", "data/catalog.json"),
	}

	// Site metadata for structured data
	cfg.Site = SiteConfig{
		Title:       getEnv("SITE_TITLE", "おすすめまとめ"),
		Description: getEnv("SITE_DESCRIPTION", ""),
		BaseURL:     getEnv("SITE_BASE_URL", "http://localhost:8080"),
	}

	// Admin credential
	cfg.Admin = AdminConfig{
		Email:        getEnv("ADMIN_EMAIL", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// Durations
	var err error
	if cfg.Rakuten.MinInterval, err = parseDurationEnv("RAKUTEN_MIN_INTERVAL", "3100ms"); err != nil {
		return nil, fmt.Errorf("invalid RAKUTEN_MIN_INTERVAL: %w", err)
	}
	if cfg.Worker.SyncInterval, err = parseDurationEnv("SYNC_INTERVAL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.DetailRefreshInterval, err = parseDurationEnv("DETAIL_REFRESH_INTERVAL", "168h"); err != nil {
		return nil, fmt.Errorf("invalid DETAIL_REFRESH_INTERVAL: %w", err)
	}
	if cfg.Worker.DetailStaleAfter, err = parseDurationEnv("DETAIL_STALE_AFTER", "336h"); err != nil {
		return nil, fmt.Errorf("invalid DETAIL_STALE_AFTER: %w", err)
	}
	cfg.Worker.DetailRefreshCap = getEnvInt("DETAIL_REFRESH_CAP", 300)

	// Basic validation for DB parameters.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
