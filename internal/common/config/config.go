package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
	DocsPath    string

	AuthURL   string
	StudioURL string

	AuthDBPath   string
	StudioDBPath string
	ExportDir    string
	FontPath     string

	ViewportWidth  int
	ViewportHeight int
	ImportScale    float64

	AdminPassword   string
	SessionTTLHours int
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		DocsPath:    getEnv("DOCS_PATH", "docs/studio.openapi.yaml"),

		AuthURL:   getEnv("AUTH_URL", "http://localhost:3002"),
		StudioURL: getEnv("STUDIO_URL", "http://localhost:3001"),

		AuthDBPath:   getEnv("AUTH_DB_PATH", "data/db/auth.db"),
		StudioDBPath: getEnv("STUDIO_DB_PATH", "data/db/studio.db"),
		ExportDir:    getEnv("EXPORT_DIR", "data/exports"),
		FontPath:     getEnv("FONT_PATH", ""),

		ViewportWidth:  getEnvAsInt("VIEWPORT_WIDTH", 1280),
		ViewportHeight: getEnvAsInt("VIEWPORT_HEIGHT", 800),
		ImportScale:    getEnvAsFloat("IMPORT_SCALE", 10),

		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin"),
		SessionTTLHours: getEnvAsInt("SESSION_TTL_HOURS", 24),
	}
}

// WithDefaultPort подставляет порт сервиса, если PORT не задан явно.
func (c *Config) WithDefaultPort(port string) *Config {
	if os.Getenv("PORT") == "" {
		c.Port = port
	}
	return c
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
