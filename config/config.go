package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Port        string `json:"port" yaml:"port"`
	DBDriver    string `json:"db_driver" yaml:"db_driver"` // postgres or sqlite
	DatabaseURL string `json:"database_url" yaml:"database_url"`

	YouTubeAPIKey   string `json:"youtube_api_key" yaml:"youtube_api_key"`
	YouTubeEndpoint string `json:"youtube_api_endpoint" yaml:"youtube_api_endpoint"`

	OIDC   OIDCConfig   `json:"oidc" yaml:"oidc"`
	Google GoogleConfig `json:"google" yaml:"google"`

	SessionSecret string        `json:"session_secret" yaml:"session_secret"`
	SessionTTL    time.Duration `json:"session_ttl" yaml:"session_ttl"`

	AllowedOrigins      []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	ImportRatePerMinute int      `json:"import_rate_per_minute" yaml:"import_rate_per_minute"`
}

// OIDCConfig configures bearer identity-token validation.
type OIDCConfig struct {
	IssuerURL string `json:"issuer_url" yaml:"issuer_url"`
	ClientID  string `json:"client_id" yaml:"client_id"`
}

// GoogleConfig configures the Google OAuth login flow.
type GoogleConfig struct {
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
	RedirectURL  string `json:"redirect_url" yaml:"redirect_url"`
}

func Default() *Config {
	return &Config{
		Port:                "8080",
		DBDriver:            "postgres",
		SessionTTL:          7 * 24 * time.Hour,
		AllowedOrigins:      []string{"*"},
		ImportRatePerMinute: 10,
	}
}

// Load builds the configuration from defaults, an optional YAML or JSON file
// and then environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required (DATABASE_URL)")
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config file %s: %w", path, err)
		}
		return nil
	}
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode JSON config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	if cfg.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			getEnv("DB_SSLMODE", "disable"))
	}
	cfg.YouTubeAPIKey = getEnv("YOUTUBE_API_KEY", cfg.YouTubeAPIKey)
	cfg.YouTubeEndpoint = getEnv("YOUTUBE_API_ENDPOINT", cfg.YouTubeEndpoint)
	cfg.OIDC.IssuerURL = getEnv("OIDC_ISSUER_URL", cfg.OIDC.IssuerURL)
	cfg.OIDC.ClientID = getEnv("OIDC_CLIENT_ID", cfg.OIDC.ClientID)
	cfg.Google.ClientID = getEnv("GOOGLE_CLIENT_ID", cfg.Google.ClientID)
	cfg.Google.ClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.Google.ClientSecret)
	cfg.Google.RedirectURL = getEnv("GOOGLE_REDIRECT_URL", cfg.Google.RedirectURL)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = ttl
	}
	if v := os.Getenv("IMPORT_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid IMPORT_RATE_PER_MINUTE %q: %w", v, err)
		}
		cfg.ImportRatePerMinute = n
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
