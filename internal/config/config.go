package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	LogBackendFile     = "file"
	LogBackendMemory   = "memory"
	LogBackendPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	EventLog EventLogConfig
	Session  SessionConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type EventLogConfig struct {
	Backend      string // "file" | "memory" | "postgres"
	Dir          string // absolute once Load returns
	WatchEnabled bool
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

type DatabaseConfig struct {
	Connection string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		EventLog: EventLogConfig{
			Backend:      getEnv("LOG_BACKEND", LogBackendFile),
			Dir:          ResolveDir(getEnv("LOG_DIR", filepath.Join("data", "logs"))),
			WatchEnabled: getEnvAsBool("LOG_WATCH_ENABLED", false),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "starter-coach-dev-secret"),
			TTL:        time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
			CookieName: getEnv("SESSION_COOKIE_NAME", "coach_session"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
	}
}

// ResolveDir anchors a relative directory to the running executable's
// location so the log lands in the same place no matter where the process
// was started from. Absolute paths are returned cleaned.
func ResolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	exe, err := os.Executable()
	if err != nil {
		log.Printf("[WARN] Cannot resolve executable path, using working directory: %v", err)
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			return dir
		}
		return abs
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), dir)
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
