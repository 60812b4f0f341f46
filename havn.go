// Package havn is a client SDK for the HAVN commission and voucher
// platform. It signs every request payload with HMAC-SHA256 over a
// canonical JSON form, retries transient failures with exponential
// backoff, and exposes typed handlers for the webhook endpoints.
//
// Construction resolves explicit options over HAVN_* environment
// variables over built-in defaults:
//
//	client, err := havn.New(havn.Options{
//		APIKey:        "your_api_key",
//		WebhookSecret: "your_webhook_secret",
//	})
//	if err != nil {
//		...
//	}
//	defer client.Close()
//
//	result, err := client.Transactions.Send(ctx, havnapi.TransactionRequest{
//		Amount:                      10000,
//		PaymentGatewayTransactionID: "tx_1",
//		CustomerEmail:               "customer@example.com",
//		ReferralCode:                "HAVN-MJ-001",
//	})
package havn

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	aulogging "github.com/StephanHCB/go-autumn-logging"
	auzerolog "github.com/StephanHCB/go-autumn-logging-zerolog"

	"github.com/havnhq/havn-sdk-go/currency"
	"github.com/havnhq/havn-sdk-go/internal/config"
	"github.com/havnhq/havn-sdk-go/internal/protocol"
	"github.com/havnhq/havn-sdk-go/internal/transport"
)

const protocolTrailLimit = 256

// Options configures a Client. The zero value of each field means "not set",
// falling through to the environment variable and then the default. Numeric
// fields are pointers so that an explicit zero stays distinguishable.
type Options struct {
	APIKey        string
	WebhookSecret string
	BaseURL       string

	TimeoutSeconds *int
	MaxRetries     *int
	BackoffFactor  *float64

	// TestMode makes every request carry the dry-run header: the server
	// validates and answers but does not persist anything.
	TestMode bool

	// LogFullRequests records raw request and response bodies in an
	// in-memory protocol trail for debugging.
	LogFullRequests bool

	ExchangeRateAPIURL             string
	ExchangeRateCacheDurationHours *int
	CurrencyAPITimeoutSeconds      *int
}

// Client is the facade over all webhook handlers.
type Client struct {
	Transactions *TransactionsAPI
	Users        *UsersAPI
	Vouchers     *VouchersAPI
	Auth         *AuthAPI

	// Currency converts amounts for display purposes. The platform backend
	// remains the authority for any conversion that affects money movement.
	Currency currency.Converter

	cfg       config.Config
	transport transport.Client
	protocol  protocol.Repository
}

// New creates a Client. Options take precedence over HAVN_* environment
// variables, which take precedence over the defaults. APIKey and
// WebhookSecret must be resolvable from one of the two sources.
func New(opts Options) (*Client, error) {
	cfg := applyOptions(config.FromEnv(), opts)
	return newClient(cfg)
}

// NewFromConfigFile creates a Client from a yaml configuration file layered
// over the environment. Options cannot be combined with file loading; set
// overrides in the file or the environment instead.
func NewFromConfigFile(path string) (*Client, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return newClient(cfg)
}

func newClient(cfg config.Config) (*Client, error) {
	// a library must not crash its host over logging; install the json
	// logger if the application brought no go-autumn-logging implementation
	if aulogging.Logger == nil {
		auzerolog.SetupJsonLogging("havn-sdk")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	protocolRepo := protocol.NewInMemoryRepository(protocolTrailLimit)
	transportClient, err := transport.New(cfg, protocolRepo)
	if err != nil {
		return nil, err
	}
	converter, err := currency.New(cfg.ExchangeRateAPIURL, cfg.ExchangeRateCacheDuration(), cfg.CurrencyAPITimeout())
	if err != nil {
		return nil, err
	}

	return assembleClient(cfg, transportClient, protocolRepo, converter), nil
}

// newTestingClient wires the handlers around a caller-supplied transport.
func newTestingClient(cfg config.Config, transportClient transport.Client, protocolRepo protocol.Repository, converter currency.Converter) *Client {
	return assembleClient(cfg, transportClient, protocolRepo, converter)
}

func assembleClient(cfg config.Config, transportClient transport.Client, protocolRepo protocol.Repository, converter currency.Converter) *Client {
	c := &Client{
		Currency:  converter,
		cfg:       cfg,
		transport: transportClient,
		protocol:  protocolRepo,
	}
	c.Transactions = &TransactionsAPI{client: c}
	c.Users = &UsersAPI{client: c}
	c.Vouchers = &VouchersAPI{client: c}
	c.Auth = &AuthAPI{client: c}
	return c
}

func applyOptions(cfg config.Config, opts Options) config.Config {
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}
	if opts.WebhookSecret != "" {
		cfg.WebhookSecret = opts.WebhookSecret
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *opts.TimeoutSeconds
	}
	if opts.MaxRetries != nil {
		cfg.MaxRetries = *opts.MaxRetries
	}
	if opts.BackoffFactor != nil {
		cfg.BackoffFactor = *opts.BackoffFactor
	}
	cfg.TestMode = opts.TestMode
	cfg.LogFullRequests = opts.LogFullRequests
	if opts.ExchangeRateAPIURL != "" {
		cfg.ExchangeRateAPIURL = opts.ExchangeRateAPIURL
	}
	if opts.ExchangeRateCacheDurationHours != nil {
		cfg.ExchangeRateCacheDurationHours = *opts.ExchangeRateCacheDurationHours
	}
	if opts.CurrencyAPITimeoutSeconds != nil {
		cfg.CurrencyAPITimeoutSeconds = *opts.CurrencyAPITimeoutSeconds
	}
	return cfg
}

// Close releases idle connections held by the underlying http transport.
// The client may still be used afterwards; new connections get established
// on demand.
func (c *Client) Close() {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}

func parseBody(body []byte, target interface{}) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to parse response body: %v", err)
	}
	return nil
}
