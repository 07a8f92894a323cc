package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:           "production",
			Port:          "8080",
			JWTSecret:     "secure-secret-at-least-32-chars-long",
			DBPassword:    "secure-password",
			DBSSLMode:     "require",
			BillingSecret: "billing-secret",
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Valid production config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Default JWT secret in production", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }, true},
		{"Short JWT secret in production", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Default DB password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"Missing billing secret in production", func(c *Config) { c.BillingSecret = "" }, true},
		{"Short JWT secret in development", func(c *Config) { c.Env = "development"; c.JWTSecret = "short" }, false},
		{"Missing billing secret in development", func(c *Config) { c.Env = "development"; c.BillingSecret = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8375", c.Port)
	assert.Equal(t, "teampot", c.DBName)
	assert.Equal(t, "development", c.Env)
}
