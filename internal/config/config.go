package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Service-role credentials used for writes that bypass row-level security.
	DBServiceUser     string
	DBServicePassword string

	// Sessions
	JWTSecret    string
	JWTExpiresIn time.Duration

	// Google sign-in
	GoogleClientID string
	GoogleJWKSURL  string

	// Admin
	AdminEmails string

	// Server
	AppEnv                 string
	Port                   string
	AllowedOrigins         string
	RateLimitPerMinute     int
	AuthRateLimitPerMinute int

	// Observability
	SentryDSN        string
	LogLevel         string
	LogRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "aeroguide"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		DBServiceUser:     getEnv("DB_SERVICE_USER", ""),
		DBServicePassword: getEnv("DB_SERVICE_PASSWORD", ""),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: parseDuration(getEnv("JWT_EXPIRES_IN", "7d"), 7*24*time.Hour),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleJWKSURL:  getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		AllowedOrigins:         getEnv("ALLOWED_ORIGINS", "*"),
		RateLimitPerMinute:     parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "120"), 120),
		AuthRateLimitPerMinute: parseInt(getEnv("AUTH_RATE_LIMIT_PER_MINUTE", "20"), 20),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN returns the public-role connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.dsn(c.DBUser, c.DBPassword)
}

// ServiceDSN returns the service-role connection string, or "" when no
// separate service credentials are configured.
func (c *Config) ServiceDSN() string {
	if c.DBServiceUser == "" {
		return ""
	}
	return c.dsn(c.DBServiceUser, c.DBServicePassword)
}

func (c *Config) dsn(user, password string) string {
	return "host=" + c.DBHost +
		" user=" + user +
		" password=" + password +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AdminEmailList returns the normalized ADMIN_EMAILS entries.
func (c *Config) AdminEmailList() []string {
	if c.AdminEmails == "" {
		return nil
	}
	parts := strings.Split(c.AdminEmails, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// parseDuration accepts Go durations plus a whole-day form such as "7d".
func parseDuration(s string, fallback time.Duration) time.Duration {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
