package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const minSecretLen = 16

// Config keeps runtime settings for the tracker.
type Config struct {
	HTTPAddr            string        `yaml:"http_addr"`
	DatabaseDriver      string        `yaml:"database_driver"`
	DatabaseURL         string        `yaml:"database_url"`
	SessionSecret       string        `yaml:"session_secret"`
	SessionTTL          time.Duration `yaml:"session_ttl"`
	SessionSecureCookie bool          `yaml:"session_secure_cookie"`
	AdminEmail          string        `yaml:"admin_email"`
	AdminPassword       string        `yaml:"admin_password"`
	TelegramToken       string        `yaml:"telegram_token"`
	TelegramChatID      int64         `yaml:"telegram_chat_id"`
	DigestTime          string        `yaml:"digest_time"`
}

// NotificationsEnabled reports whether a Telegram chat is configured.
func (c Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load reads configuration from an optional YAML file named by
// TASKTRACKER_CONFIG and then from environment variables, which win.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("TASKTRACKER_CONFIG")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	if len(cfg.SessionSecret) < minSecretLen {
		return cfg, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.DatabaseDriver, "DATABASE_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	setString(&cfg.DigestTime, "DIGEST_TIME")

	if raw := env("SESSION_TTL_HOURS"); raw != "" {
		ttl := parseHours(raw)
		if ttl == 0 {
			return fmt.Errorf("SESSION_TTL_HOURS must be a positive number, got %q", raw)
		}
		cfg.SessionTTL = ttl
	}

	if raw := env("SESSION_SECURE_COOKIE"); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("SESSION_SECURE_COOKIE: %w", err)
		}
		cfg.SessionSecureCookie = secure
	}

	if raw := env("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":5000"
	}
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "sqlite"
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == "sqlite" {
		cfg.DatabaseURL = "database.db"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@example.com"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}
	if cfg.DigestTime == "" {
		cfg.DigestTime = "09:00"
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}

func parseHours(raw string) time.Duration {
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
