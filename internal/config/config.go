// Package config loads runtime settings into one explicit struct.
//
// Values come from the process environment. A .env file in the working
// directory is read first if present; real environment variables win over
// it. The resulting Config is passed by value into the server, token and
// media constructors, so nothing reads os.Getenv after startup.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the API server.
type Config struct {
	Port     int
	LogLevel string

	MongoURI      string
	MongoDatabase string

	Tokens TokenConfig
	Media  MediaConfig

	// CookieSecure sets the Secure flag on auth cookies. Turn it off only for
	// plain-HTTP local development.
	CookieSecure   bool
	MaxUploadBytes int64

	AuthRateLimit  int
	AuthRateWindow time.Duration
	AuthRateBurst  int
}

// TokenConfig holds the signing secrets and lifetimes for both token kinds.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// MediaConfig points at the S3-compatible bucket holding avatars, covers,
// videos and thumbnails.
type MediaConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	// ObjectACL is a canned ACL such as "public-read" applied to uploads.
	// Empty sends none; buckets with ACLs disabled rely on a bucket policy.
	ObjectACL string
}

// Load reads .env (optional) and the environment, applies defaults and
// validates the settings that have no safe default.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}

	cfg := Config{
		Port:          getInt("PORT", 8000),
		LogLevel:      getString("LOG_LEVEL", "info"),
		MongoURI:      getString("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getString("MONGODB_DATABASE", "videotube"),
		Tokens: TokenConfig{
			AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			AccessTTL:     getDuration("ACCESS_TOKEN_EXPIRY", time.Hour),
			RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			RefreshTTL:    getDuration("REFRESH_TOKEN_EXPIRY", 240*time.Hour),
		},
		Media: MediaConfig{
			Bucket:        getString("MEDIA_BUCKET", "videotube"),
			Region:        getString("MEDIA_REGION", "us-east-1"),
			Endpoint:      os.Getenv("MEDIA_ENDPOINT"),
			PublicBaseURL: os.Getenv("MEDIA_PUBLIC_BASE_URL"),
			ObjectACL:     os.Getenv("MEDIA_OBJECT_ACL"),
		},
		CookieSecure:   getBool("COOKIE_SECURE", true),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 512<<20)),
		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getDuration("AUTH_RATE_WINDOW", time.Minute),
		AuthRateBurst:  getInt("AUTH_RATE_BURST", 5),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that would make the server unusable.
func (c Config) Validate() error {
	var errs []error
	if len(c.Tokens.AccessSecret) < 16 {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET must be at least 16 characters"))
	}
	if len(c.Tokens.RefreshSecret) < 16 {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET must be at least 16 characters"))
	}
	if c.Tokens.AccessSecret != "" && c.Tokens.AccessSecret == c.Tokens.RefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.Tokens.AccessTTL <= 0 || c.Tokens.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token expiries must be positive"))
	}
	if strings.TrimSpace(c.MongoURI) == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
