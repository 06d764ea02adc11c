package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizownik/internal/i18n"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUIZOWNIK_API_URL", "")
	t.Setenv("QUIZOWNIK_SESSION_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if cfg.APIURL != "http://localhost:8080/api" {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("session ttl = %s", cfg.SessionTTL)
	}
	if !cfg.AdminGuard {
		t.Fatalf("admin guard should default to on")
	}
	if cfg.DefaultLocale != i18n.Polish {
		t.Fatalf("default locale = %q", cfg.DefaultLocale)
	}
	if cfg.SessionSecret == "" || !cfg.devSecretInUse {
		t.Fatalf("expected development secret fallback")
	}
}

func TestLoadReadsEnvFileAndTrimsAPIURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "QUIZOWNIK_API_URL=https://api.example.test/v1/\nQUIZOWNIK_DEFAULT_LOCALE=en\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("QUIZOWNIK_API_URL", "")
	t.Setenv("QUIZOWNIK_DEFAULT_LOCALE", "")
	os.Unsetenv("QUIZOWNIK_API_URL")
	os.Unsetenv("QUIZOWNIK_DEFAULT_LOCALE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "https://api.example.test/v1" {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.DefaultLocale != i18n.English {
		t.Fatalf("default locale = %q", cfg.DefaultLocale)
	}
}

func TestLoadMissingEnvFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("QUIZOWNIK_SESSION_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid duration error")
	}

	t.Setenv("QUIZOWNIK_SESSION_TTL", "")
	t.Setenv("QUIZOWNIK_ADMIN_GUARD", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid boolean error")
	}

	t.Setenv("QUIZOWNIK_ADMIN_GUARD", "")
	t.Setenv("QUIZOWNIK_DEFAULT_LOCALE", "fr")
	if _, err := Load(); err == nil {
		t.Fatalf("expected unsupported locale error")
	}
}
