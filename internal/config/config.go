// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port           string
	DBPath         string
	LogLevel       string
	LogJSON        bool
	SecureCookie   bool
	AdminUser      string
	AdminPassword  string
	CurrencySymbol string
	TemplateDir    string
	StaticDir      string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is merged in when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		DBPath:         getenv("DB_PATH", "expenses.db"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		AdminUser:      os.Getenv("ADMIN_USER"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		CurrencySymbol: getenv("CURRENCY", "₹"),
		TemplateDir:    getenv("TEMPLATE_DIR", "web/templates"),
		StaticDir:      getenv("STATIC_DIR", "web/static"),
	}
	cfg.LogJSON = os.Getenv("LOG_JSON") == "true"
	cfg.SecureCookie = os.Getenv("SECURE_COOKIE") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that the configuration is internally consistent.
func (c *Config) validate() error {
	var errs []string

	if c.AdminUser != "" && c.AdminPassword == "" {
		errs = append(errs, "ADMIN_PASSWORD is required when ADMIN_USER is set")
	}
	if strings.ContainsAny(c.Port, " /") {
		errs = append(errs, fmt.Sprintf("PORT %q is not a valid port", c.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
