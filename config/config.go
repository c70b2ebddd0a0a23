// Package config reads portal settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"docportal/document"
)

type Config struct {
	// Verification
	PublicOrigin string
	VerifySecret string

	// Rendering
	AssetTimeout      time.Duration
	ExportConcurrency int

	// Logging
	LogLevel  string
	LogFormat string

	Company document.Company
}

// Load reads the environment. Malformed numbers and durations are reported
// rather than silently replaced.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := cast.ToDurationE(getEnv("PORTAL_ASSET_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("PORTAL_ASSET_TIMEOUT: invalid duration %q", os.Getenv("PORTAL_ASSET_TIMEOUT"))
	}
	concurrency, err := cast.ToIntE(getEnv("PORTAL_EXPORT_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 {
		return nil, fmt.Errorf("PORTAL_EXPORT_CONCURRENCY: must be a positive integer, got %q", os.Getenv("PORTAL_EXPORT_CONCURRENCY"))
	}

	return &Config{
		PublicOrigin: getEnv("PORTAL_PUBLIC_ORIGIN", "http://localhost:8090"),
		VerifySecret: os.Getenv("PORTAL_VERIFY_SECRET"),

		AssetTimeout:      timeout,
		ExportConcurrency: concurrency,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Company: document.Company{
			Name:     getEnv("COMPANY_NAME", "Document Portal"),
			Tagline:  os.Getenv("COMPANY_TAGLINE"),
			Address:  os.Getenv("COMPANY_ADDRESS"),
			Phone:    os.Getenv("COMPANY_PHONE"),
			Email:    os.Getenv("COMPANY_EMAIL"),
			Website:  os.Getenv("COMPANY_WEBSITE"),
			TaxID:    os.Getenv("COMPANY_TAX_ID"),
			LogoURL:  os.Getenv("COMPANY_LOGO"),
			Currency: getEnv("COMPANY_CURRENCY", "SAR"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
