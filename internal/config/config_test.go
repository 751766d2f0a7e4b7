package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://inventory.local:5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://inventory.local:5000", cfg.Backend.URL)
	assert.Equal(t, 10, cfg.Backend.Timeout)
	assert.Equal(t, "UTC", cfg.Receipt.Timezone)
	assert.Equal(t, 24, cfg.Receipt.MaxNameRunes)
	assert.Equal(t, 100, cfg.Receipt.MaxHeld)
	assert.Equal(t, "Walk-in Customer", cfg.Checkout.DefaultCustomerName)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("BACKEND_API_KEY", "secret")
	t.Setenv("RECEIPT_TIMEZONE", "Asia/Singapore")
	t.Setenv("RECEIPT_MAX_HELD", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Backend.APIKey)
	assert.Equal(t, 5, cfg.Receipt.MaxHeld)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "Asia/Singapore", cfg.Location().String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Backend:  BackendConfig{URL: "http://localhost:5000", Timeout: 10},
			Receipt:  ReceiptConfig{Timezone: "UTC", MaxHeld: 10},
			Checkout: CheckoutConfig{DefaultCustomerName: "Walk-in Customer"},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"missing backend", func(c *Config) { c.Backend.URL = "" }, true},
		{"relative backend", func(c *Config) { c.Backend.URL = "/api" }, true},
		{"non http backend", func(c *Config) { c.Backend.URL = "ftp://host" }, true},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = 0 }, true},
		{"unknown timezone", func(c *Config) { c.Receipt.Timezone = "Mars/Olympus" }, true},
		{"no held receipts", func(c *Config) { c.Receipt.MaxHeld = 0 }, true},
		{"blank default customer", func(c *Config) { c.Checkout.DefaultCustomerName = " " }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
