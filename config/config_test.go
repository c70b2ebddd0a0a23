package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORTAL_PUBLIC_ORIGIN", "PORTAL_VERIFY_SECRET", "PORTAL_ASSET_TIMEOUT",
		"PORTAL_EXPORT_CONCURRENCY", "LOG_LEVEL", "LOG_FORMAT", "COMPANY_NAME", "COMPANY_CURRENCY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PublicOrigin != "http://localhost:8090" {
		t.Errorf("PublicOrigin = %q", cfg.PublicOrigin)
	}
	if cfg.VerifySecret != "" {
		t.Errorf("VerifySecret = %q", cfg.VerifySecret)
	}
	if cfg.AssetTimeout != 5*time.Second || cfg.ExportConcurrency != 4 {
		t.Errorf("timeout %v concurrency %d", cfg.AssetTimeout, cfg.ExportConcurrency)
	}
	if cfg.Company.Currency != "SAR" {
		t.Errorf("Currency = %q", cfg.Company.Currency)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTAL_PUBLIC_ORIGIN", "https://docs.example.com")
	t.Setenv("PORTAL_VERIFY_SECRET", "s3cret")
	t.Setenv("PORTAL_ASSET_TIMEOUT", "1500ms")
	t.Setenv("PORTAL_EXPORT_CONCURRENCY", "8")
	t.Setenv("COMPANY_NAME", "Gulf Glass Works")
	t.Setenv("COMPANY_LOGO", "/srv/logo.png")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PublicOrigin != "https://docs.example.com" || cfg.VerifySecret != "s3cret" {
		t.Errorf("verification config = %q %q", cfg.PublicOrigin, cfg.VerifySecret)
	}
	if cfg.AssetTimeout != 1500*time.Millisecond || cfg.ExportConcurrency != 8 {
		t.Errorf("timeout %v concurrency %d", cfg.AssetTimeout, cfg.ExportConcurrency)
	}
	if cfg.Company.Name != "Gulf Glass Works" || cfg.Company.LogoURL != "/srv/logo.png" {
		t.Errorf("company = %+v", cfg.Company)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"timeout", "PORTAL_ASSET_TIMEOUT", "soon"},
		{"negative timeout", "PORTAL_ASSET_TIMEOUT", "-1s"},
		{"concurrency", "PORTAL_EXPORT_CONCURRENCY", "many"},
		{"zero concurrency", "PORTAL_EXPORT_CONCURRENCY", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv never overrides a variable that is set, even to "".
	t.Setenv("COMPANY_TAGLINE", "")
	os.Unsetenv("COMPANY_TAGLINE")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COMPANY_TAGLINE=Glass and aluminium\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Company.Tagline != "Glass and aluminium" {
		t.Errorf("Tagline = %q", cfg.Company.Tagline)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		level     logrus.Level
		jsonLines bool
	}{
		{"json debug", Config{LogLevel: "debug", LogFormat: "json"}, logrus.DebugLevel, true},
		{"text warn", Config{LogLevel: "warn", LogFormat: "text"}, logrus.WarnLevel, false},
		{"bad level", Config{LogLevel: "loud"}, logrus.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(&tt.cfg)
			if l.GetLevel() != tt.level {
				t.Errorf("level = %v, want %v", l.GetLevel(), tt.level)
			}
			_, isJSON := l.Formatter.(*logrus.JSONFormatter)
			if isJSON != tt.jsonLines {
				t.Errorf("JSON formatter = %v, want %v", isJSON, tt.jsonLines)
			}
		})
	}
}
