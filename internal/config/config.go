package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Receipt  ReceiptConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// BackendConfig points at the inventory/order API this service fronts
type BackendConfig struct {
	URL     string
	APIKey  string
	Timeout int
}

type ReceiptConfig struct {
	// FontURL is optional; relative values resolve against the backend URL
	FontURL      string
	Timezone     string
	MaxNameRunes int
	MaxHeld      int
}

type CheckoutConfig struct {
	DefaultCustomerName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Backend: BackendConfig{
			URL:     getEnv("BACKEND_URL", ""),
			APIKey:  getEnv("BACKEND_API_KEY", ""),
			Timeout: getEnvAsInt("BACKEND_TIMEOUT", 10),
		},
		Receipt: ReceiptConfig{
			FontURL:      getEnv("RECEIPT_FONT_URL", ""),
			Timezone:     getEnv("RECEIPT_TIMEZONE", "UTC"),
			MaxNameRunes: getEnvAsInt("RECEIPT_MAX_NAME_RUNES", 24),
			MaxHeld:      getEnvAsInt("RECEIPT_MAX_HELD", 100),
		},
		Checkout: CheckoutConfig{
			DefaultCustomerName: getEnv("DEFAULT_CUSTOMER_NAME", "Walk-in Customer"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL: %q", c.Backend.URL)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}

	if _, err := time.LoadLocation(c.Receipt.Timezone); err != nil {
		return fmt.Errorf("invalid RECEIPT_TIMEZONE %q: %w", c.Receipt.Timezone, err)
	}

	if c.Receipt.MaxHeld <= 0 {
		return fmt.Errorf("RECEIPT_MAX_HELD must be positive")
	}

	if strings.TrimSpace(c.Checkout.DefaultCustomerName) == "" {
		return fmt.Errorf("DEFAULT_CUSTOMER_NAME must not be blank")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Location returns the zone receipts are printed in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Receipt.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
