package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port          string
	BaseURL       string // Public base URL of short links; derived from the request when empty
	AppURL        string // Frontend base URL (for confirmation links)
	CORSOrigin    string // Allowed browser origin outside development
	Environment   string
	LogLevel      string
	StorageDriver string

	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	RedisURL        string // Optional visit counter store
	JWTSecret       string // Secret key for JWT token signing
	JWTTTL          time.Duration
	ShutdownTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	FirebaseProjectID       string
	FirebaseCredentialsFile string

	RateLimitAuthMax    int           // Requests per window on /auth/register and /auth/login
	RateLimitShortenMax int           // Requests per window on link creation
	RateLimitWindow     time.Duration // Window shared by both limits
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		BaseURL:       getEnv("BASE_URL", ""),
		AppURL:        getEnv("APP_URL", "http://localhost:5173"),
		CORSOrigin:    getEnv("CORS_ORIGIN", ""),
		Environment:   getEnv("ENVIRONMENT", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverPostgres)),

		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "slice-url"),
		RedisURL:        getEnv("REDIS_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTTTL:          time.Duration(getEnvInt("JWT_TTL_HOURS", 168)) * time.Hour, // 7 days
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		RateLimitAuthMax:    getEnvInt("RATE_LIMIT_AUTH_MAX", 10),    // 10 attempts per minute
		RateLimitShortenMax: getEnvInt("RATE_LIMIT_SHORTEN_MAX", 25), // 25 links per minute
		RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if !c.IsDev() && c.CORSOrigin == "" {
		errs = append(errs, errors.New("CORS_ORIGIN is required outside development"))
	}
	if c.RateLimitAuthMax <= 0 || c.RateLimitShortenMax <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	return multierr.Combine(errs...)
}

// IsDev reports whether the server runs in a development environment
func (c *Config) IsDev() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

// SMTPEnabled reports whether mails can be delivered through SMTP
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// NewLogger builds the process logger: text output in development, JSON otherwise
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
