package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	XAI      XAIConfig
	Search   SearchConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type XAIConfig struct {
	// APIKey may be empty: the server still starts and reports the missing
	// key on /health, and searches fail with an upstream error.
	APIKey           string
	BaseURL          string
	Model            string
	SearchMode       string
	MaxSearchResults int
	ReturnCitations  bool
	Timeout          time.Duration
}

type SearchConfig struct {
	MaxResults       int
	RequireDeepLinks bool
	// RegistryPath overrides the embedded company registry when set.
	RegistryPath string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// Enabled reports whether a database is configured at all; the audit log is
// optional and skipped without one.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.DBHost) != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		v := opt(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return def
		}
		return n
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.XAI = XAIConfig{
		APIKey:           opt("XAI_API_KEY"),
		BaseURL:          optDefault("XAI_BASE_URL", "https://api.x.ai/v1"),
		Model:            optDefault("XAI_MODEL", "grok-4-1-fast-reasoning"),
		SearchMode:       optDefault("XAI_SEARCH_MODE", "auto"),
		MaxSearchResults: optInt("XAI_MAX_SEARCH_RESULTS", 10),
		ReturnCitations:  !strings.EqualFold(opt("XAI_RETURN_CITATIONS"), "false"),
		Timeout:          time.Duration(optInt("XAI_TIMEOUT_SECONDS", 55)) * time.Second,
	}

	cfg.Search = SearchConfig{
		MaxResults:       optInt("SEARCH_MAX_RESULTS", 10),
		RequireDeepLinks: strings.EqualFold(opt("SEARCH_REQUIRE_DEEP_LINKS"), "true"),
		RegistryPath:     opt("COMPANY_REGISTRY_PATH"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     optDefault("DB_PORT", "5432"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      time.Duration(optInt("REDIS_TTL", 600)) * time.Second,
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitOrigins(optDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
