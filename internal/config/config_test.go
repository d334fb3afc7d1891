package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"TASKTRACKER_CONFIG", "HTTP_ADDR", "DATABASE_DRIVER", "DATABASE_URL",
	"SESSION_SECRET", "SESSION_TTL_HOURS", "SESSION_SECURE_COOKIE", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	"TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "DIGEST_TIME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":5000" || cfg.DatabaseDriver != "sqlite" || cfg.DatabaseURL != "database.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.AdminEmail != "admin@example.com" || cfg.DigestTime != "09:00" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.NotificationsEnabled() {
		t.Fatalf("notifications should be off without telegram settings")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "short")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected SESSION_SECRET error, got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	body := "http_addr: \":8080\"\nsession_secret: file-secret-0123456789\ntelegram_token: tok\ntelegram_chat_id: 42\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("TASKTRACKER_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_TTL_HOURS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("env should override file, got %q", cfg.HTTPAddr)
	}
	if cfg.SessionSecret != "file-secret-0123456789" {
		t.Fatalf("SessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
	if !cfg.NotificationsEnabled() || cfg.TelegramChatID != 42 {
		t.Fatalf("expected telegram settings from file: %+v", cfg)
	}
}

func TestLoad_BadChatID(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
	t.Setenv("TELEGRAM_CHAT_ID", "abc")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric chat id")
	}
}

func TestLoad_SecureCookie(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionSecureCookie {
		t.Fatalf("secure cookie should default to off")
	}

	t.Setenv("SESSION_SECURE_COOKIE", "true")
	if cfg, err = Load(); err != nil || !cfg.SessionSecureCookie {
		t.Fatalf("SessionSecureCookie = %v, err = %v", cfg.SessionSecureCookie, err)
	}

	t.Setenv("SESSION_SECURE_COOKIE", "maybe")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_SECURE_COOKIE") {
		t.Fatalf("expected SESSION_SECURE_COOKIE error, got %v", err)
	}
}
