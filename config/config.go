package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	DBPath            string
	PublicDir         string
	LogLevel          string
	LogFormat         string
	CSRFKey           []byte
	SecureCookies     bool
	FormRatePerMinute int
}

// Load reads the configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from lookup, applying defaults for unset variables.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ServerPort:        ":3000",
		DBPath:            "./vapeur.db",
		PublicDir:         "./public",
		LogLevel:          "info",
		LogFormat:         "text",
		FormRatePerMinute: 60,
	}

	if port := getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", port)
		}
		cfg.ServerPort = ":" + port
	}
	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("PUBLIC_DIR"); v != "" {
		cfg.PublicDir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
			return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", v)
		}
	}
	if v := getenv("CSRF_KEY"); v != "" {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("invalid CSRF_KEY: want 32 base64-encoded bytes")
		}
		cfg.CSRFKey = key
	}
	if v := getenv("SECURE_COOKIES"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SECURE_COOKIES %q", v)
		}
		cfg.SecureCookies = secure
	}
	if v := getenv("FORM_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid FORM_RATE_PER_MINUTE %q", v)
		}
		cfg.FormRatePerMinute = n
	}

	return cfg, nil
}
