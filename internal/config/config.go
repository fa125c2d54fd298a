package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Note     NoteConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables the event relay
	RedisURL           string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string // OTLP/HTTP host:port
	SampleRatio float64
}

type NoteConfig struct {
	MaxDocumentLength     int
	RevisionRetentionDays int // 0 keeps every revision
	ForbiddenAliases      []string
	DefaultPermissions    DefaultPermissions
}

type DefaultPermissions struct {
	Everyone PermissionLevel
	LoggedIn PermissionLevel
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "default_secret"),
			SessionTTL: time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24*14)) * time.Hour,
		},
		Note: NoteConfig{
			MaxDocumentLength:     getEnvAsInt("NOTE_MAX_DOCUMENT_LENGTH", 100000),
			RevisionRetentionDays: getEnvAsInt("NOTE_REVISION_RETENTION_DAYS", 0),
			ForbiddenAliases:      getEnvAsList("NOTE_FORBIDDEN_ALIASES", []string{"new", "explore", "api", "login", "logout"}),
			DefaultPermissions: DefaultPermissions{
				Everyone: getEnvAsLevel("NOTE_PERMISSION_DEFAULT_EVERYONE", PermissionRead),
				LoggedIn: getEnvAsLevel("NOTE_PERMISSION_DEFAULT_LOGGED_IN", PermissionWrite),
			},
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// Validate rejects configurations the note workflow cannot honour.
func (c *Config) Validate() error {
	if c.Note.MaxDocumentLength <= 0 {
		return fmt.Errorf("NOTE_MAX_DOCUMENT_LENGTH must be positive, got %d", c.Note.MaxDocumentLength)
	}
	if c.Note.RevisionRetentionDays < 0 {
		return fmt.Errorf("NOTE_REVISION_RETENTION_DAYS must not be negative, got %d", c.Note.RevisionRetentionDays)
	}
	perms := c.Note.DefaultPermissions
	if !perms.Everyone.IsValid() || !perms.LoggedIn.IsValid() {
		return fmt.Errorf("default permissions must be one of deny, read, write")
	}
	if perms.Everyone > perms.LoggedIn {
		return fmt.Errorf("default permission for everyone (%s) must not exceed the one for logged-in users (%s)", perms.Everyone, perms.LoggedIn)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0, 1], got %g", c.Tracing.SampleRatio)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(strValue, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvAsLevel keeps invalid values so Validate can report them.
func getEnvAsLevel(key string, fallback PermissionLevel) PermissionLevel {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	level, err := ParsePermissionLevel(strValue)
	if err != nil {
		log.Printf("Warn: %s: %v", key, err)
		return PermissionInvalid
	}
	return level
}
