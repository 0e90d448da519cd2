package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

const defaultMaxUploadBytes = 10 << 20

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Statement     StatementConfig
	Archive       ArchiveConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret string
}

type StatementConfig struct {
	MaxUploadBytes int64
	// YearPolicy is "rollback" or "current"; it applies to dates printed without a year when the
	// statement has no period banner.
	YearPolicy string
	Categorize bool
}

type ArchiveConfig struct {
	Enabled            bool
	StorageType        string // "local" or "gcs"
	LocalPath          string
	GCSBucket          string
	GCSCredentialsFile string
	RetentionDays      int
	SweepSchedule      string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	LogLevel       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithoutAuth is Load for tools that never serve HTTP and so need no JWT secret.
func LoadWithoutAuth() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validate(false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 20),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "statements"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Statement: StatementConfig{
			MaxUploadBytes: int64(getEnvAsInt("STATEMENT_MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
			YearPolicy:     strings.ToLower(getEnv("STATEMENT_YEAR_POLICY", "rollback")),
			Categorize:     getEnvAsBool("STATEMENT_CATEGORIZE", false),
		},
		Archive: ArchiveConfig{
			Enabled:            getEnvAsBool("ARCHIVE_ENABLED", false),
			StorageType:        getEnv("STORAGE_TYPE", "local"),
			LocalPath:          getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			GCSBucket:          getEnv("STORAGE_GCS_BUCKET", ""),
			GCSCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			RetentionDays:      getEnvAsInt("ARCHIVE_RETENTION_DAYS", 90),
			SweepSchedule:      getEnv("ARCHIVE_SWEEP_SCHEDULE", "0 3 * * *"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}
}

func (c *Config) validate(requireAuth bool) error {
	if requireAuth && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Statement.MaxUploadBytes <= 0 {
		return errors.New("STATEMENT_MAX_UPLOAD_BYTES must be positive")
	}
	switch c.Statement.YearPolicy {
	case "rollback", "current":
	default:
		return fmt.Errorf("STATEMENT_YEAR_POLICY must be rollback or current, got %q", c.Statement.YearPolicy)
	}
	if c.Archive.Enabled {
		switch c.Archive.StorageType {
		case "local":
		case "gcs":
			if c.Archive.GCSBucket == "" {
				return errors.New("STORAGE_GCS_BUCKET is required when STORAGE_TYPE=gcs")
			}
		default:
			return fmt.Errorf("STORAGE_TYPE must be local or gcs, got %q", c.Archive.StorageType)
		}
		if c.Archive.RetentionDays <= 0 {
			return errors.New("ARCHIVE_RETENTION_DAYS must be positive")
		}
	}
	return nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
