// Package config holds the client configuration: explicit options override
// HAVN_* environment variables, which override the built-in defaults.
// You must have called FromEnv() or LoadFile() to obtain a Config before
// building a client.
package config

import (
	"time"
)

// Defaults applied when neither an option nor an environment variable is set.
const (
	DefaultBaseURL                        = "https://api.havn.com"
	DefaultTimeoutSeconds                 = 30
	DefaultMaxRetries                     = 3
	DefaultBackoffFactor                  = 0.5
	DefaultExchangeRateAPIURL             = "https://api.exchangerate-api.com/v4/latest/USD"
	DefaultExchangeRateCacheDurationHours = 24
	DefaultCurrencyAPITimeoutSeconds      = 5
)

// Config is the resolved client configuration.
type Config struct {
	APIKey                         string  `yaml:"api_key"`
	WebhookSecret                  string  `yaml:"webhook_secret"`
	BaseURL                        string  `yaml:"base_url"`
	TimeoutSeconds                 int     `yaml:"timeout_seconds"`
	MaxRetries                     int     `yaml:"max_retries"`
	BackoffFactor                  float64 `yaml:"backoff_factor"`
	TestMode                       bool    `yaml:"test_mode"`
	LogFullRequests                bool    `yaml:"log_full_requests"`
	ExchangeRateAPIURL             string  `yaml:"exchange_rate_api_url"`
	ExchangeRateCacheDurationHours int     `yaml:"exchange_rate_cache_duration_hours"`
	CurrencyAPITimeoutSeconds      int     `yaml:"currency_api_timeout_seconds"`
}

func (c Config) Timeout() time.Duration {
	return time.Second * time.Duration(c.TimeoutSeconds)
}

func (c Config) ExchangeRateCacheDuration() time.Duration {
	return time.Hour * time.Duration(c.ExchangeRateCacheDurationHours)
}

func (c Config) CurrencyAPITimeout() time.Duration {
	return time.Second * time.Duration(c.CurrencyAPITimeoutSeconds)
}
