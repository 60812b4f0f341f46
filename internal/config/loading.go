package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	aulogging "github.com/StephanHCB/go-autumn-logging"
	"gopkg.in/yaml.v2"
)

// Environment variable names recognized by the SDK.
const (
	EnvAPIKey                         = "HAVN_API_KEY"
	EnvWebhookSecret                  = "HAVN_WEBHOOK_SECRET"
	EnvBaseURL                        = "HAVN_BASE_URL"
	EnvTimeout                        = "HAVN_TIMEOUT"
	EnvMaxRetries                     = "HAVN_MAX_RETRIES"
	EnvBackoffFactor                  = "HAVN_BACKOFF_FACTOR"
	EnvExchangeRateAPIURL             = "HAVN_EXCHANGE_RATE_API_URL"
	EnvExchangeRateCacheDurationHours = "HAVN_EXCHANGE_RATE_CACHE_DURATION_HOURS"
	EnvCurrencyAPITimeout             = "HAVN_CURRENCY_API_TIMEOUT"
)

// FromEnv builds a Config from environment variables, falling back to the
// defaults. Unparseable numeric values fall back to the default rather than
// failing, so a stray env var cannot break client construction.
func FromEnv() Config {
	return Config{
		APIKey:                         os.Getenv(EnvAPIKey),
		WebhookSecret:                  os.Getenv(EnvWebhookSecret),
		BaseURL:                        envOrDefault(EnvBaseURL, DefaultBaseURL),
		TimeoutSeconds:                 envIntOrDefault(EnvTimeout, DefaultTimeoutSeconds),
		MaxRetries:                     envIntOrDefault(EnvMaxRetries, DefaultMaxRetries),
		BackoffFactor:                  envFloatOrDefault(EnvBackoffFactor, DefaultBackoffFactor),
		ExchangeRateAPIURL:             envOrDefault(EnvExchangeRateAPIURL, DefaultExchangeRateAPIURL),
		ExchangeRateCacheDurationHours: envIntOrDefault(EnvExchangeRateCacheDurationHours, DefaultExchangeRateCacheDurationHours),
		CurrencyAPITimeoutSeconds:      envIntOrDefault(EnvCurrencyAPITimeout, DefaultCurrencyAPITimeoutSeconds),
	}
}

// LoadFile reads a yaml configuration file over a FromEnv baseline. Keys not
// present in the file keep their env/default values. Unexpected keys are a
// parse error.
func LoadFile(path string) (Config, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read configuration file %s: %v", path, err)
	}
	return parseAndOverwriteConfig(yamlBytes, FromEnv())
}

func parseAndOverwriteConfig(yamlBytes []byte, baseline Config) (Config, error) {
	newConfig := baseline
	if err := yaml.UnmarshalStrict(yamlBytes, &newConfig); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration file: %v", err)
	}
	return newConfig, nil
}

// Validate checks the configuration, logging each problem and returning a
// single validation error if any were found.
func (c Config) Validate() error {
	errs := make([]string, 0)

	checkLength(&errs, 1, 256, "api_key", c.APIKey)
	checkLength(&errs, 1, 256, "webhook_secret", c.WebhookSecret)
	checkURL(&errs, "base_url", c.BaseURL)
	checkURL(&errs, "exchange_rate_api_url", c.ExchangeRateAPIURL)
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 600 {
		errs = append(errs, "timeout_seconds: must be an integer at least 1 and at most 600")
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		errs = append(errs, "max_retries: must be an integer at least 0 and at most 10")
	}
	if c.BackoffFactor < 0 {
		errs = append(errs, "backoff_factor: must not be negative")
	}
	if c.ExchangeRateCacheDurationHours < 1 {
		errs = append(errs, "exchange_rate_cache_duration_hours: must be at least 1")
	}
	if c.CurrencyAPITimeoutSeconds < 1 || c.CurrencyAPITimeoutSeconds > 600 {
		errs = append(errs, "currency_api_timeout_seconds: must be an integer at least 1 and at most 600")
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		for _, msg := range errs {
			aulogging.Logger.NoCtx().Error().Printf("configuration error: %s", msg)
		}
		return errors.New("configuration validation error: " + strings.Join(errs, "; "))
	}
	return nil
}

func checkLength(errs *[]string, min int, max int, key string, value string) {
	if len(value) < min || len(value) > max {
		*errs = append(*errs, fmt.Sprintf("%s: field must be at least %d and at most %d characters long", key, min, max))
	}
}

func checkURL(errs *[]string, key string, value string) {
	if (!strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://")) || strings.HasSuffix(value, "/") {
		*errs = append(*errs, fmt.Sprintf("%s: must start with http:// or https:// and may not end in a /", key))
	}
}

func envOrDefault(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func envFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
