package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	auzerolog "github.com/StephanHCB/go-autumn-logging-zerolog"
	aurestclientapi "github.com/StephanHCB/go-autumn-restclient/api"
	"github.com/stretchr/testify/require"

	"github.com/havnhq/havn-sdk-go/apierrors"
	"github.com/havnhq/havn-sdk-go/docs"
	"github.com/havnhq/havn-sdk-go/internal/config"
	"github.com/havnhq/havn-sdk-go/internal/ctxvalues"
	"github.com/havnhq/havn-sdk-go/internal/protocol"
)

func TestMain(m *testing.M) {
	auzerolog.SetupPlaintextLogging()
	os.Exit(m.Run())
}

type tstScriptEntry struct {
	status int
	body   string
	header http.Header
	err    error
}

// tstInnerClient stands in for the http layer below the retry wrapper. It
// replays scripted responses in order, repeating the last one when the
// script runs out.
type tstInnerClient struct {
	script []tstScriptEntry
	calls  int
	bodies []interface{}
}

func (c *tstInnerClient) Perform(ctx context.Context, method string, requestUrl string, requestBody interface{}, response *aurestclientapi.ParsedResponse) error {
	entry := c.script[len(c.script)-1]
	if c.calls < len(c.script) {
		entry = c.script[c.calls]
	}
	c.calls++
	c.bodies = append(c.bodies, requestBody)

	if entry.err != nil {
		return entry.err
	}
	response.Status = entry.status
	response.Header = entry.header
	if target, ok := response.Body.(**[]byte); ok {
		raw := []byte(entry.body)
		*target = &raw
	}
	return nil
}

func tstConfig() config.Config {
	return config.Config{
		APIKey:         "api-key",
		WebhookSecret:  "secret123",
		BaseURL:        "https://api.havn.com",
		TimeoutSeconds: 30,
		MaxRetries:     3,
		BackoffFactor:  0.5,
	}
}

func tstClient(cfg config.Config, inner *tstInnerClient, protocolRepo protocol.Repository) (Client, *[]time.Duration) {
	sleeps := make([]time.Duration, 0)
	client := NewTestingClient(cfg, inner, func(d time.Duration) {
		sleeps = append(sleeps, d)
	}, protocolRepo)
	return client, &sleeps
}

func TestPerformSuccessAfterRetries(t *testing.T) {
	docs.Given("given a server that fails twice with 500 before succeeding")
	inner := &tstInnerClient{script: []tstScriptEntry{
		{status: 500, body: `{"error":"ServerError","message":"boom"}`},
		{status: 500, body: `{"error":"ServerError","message":"boom"}`},
		{status: 200, body: `{"success":true}`},
	}}
	client, sleeps := tstClient(tstConfig(), inner, nil)

	docs.When("when a request is performed")
	response, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", map[string]interface{}{"amount": 10000})

	docs.Then("then it succeeds after exponential backoff delays of 0.5s and 1s")
	require.Nil(t, err)
	require.Equal(t, 200, response.Status)
	require.Equal(t, `{"success":true}`, string(response.Body))
	require.Equal(t, 3, inner.calls)
	require.Equal(t, []time.Duration{500 * time.Millisecond, 1 * time.Second}, *sleeps)
}

func TestPerformTerminalStatusNotRetried(t *testing.T) {
	docs.Given("given a server that answers 400")
	inner := &tstInnerClient{script: []tstScriptEntry{
		{status: 400, body: `{"error":"ValidationError","message":"amount is required"}`},
	}}
	client, sleeps := tstClient(tstConfig(), inner, nil)

	docs.When("when a request is performed")
	_, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", map[string]interface{}{})

	docs.Then("then it fails immediately with a typed api error and no retries")
	require.Equal(t, 1, inner.calls)
	require.Equal(t, 0, len(*sleeps))

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 400, apiErr.StatusCode)
	require.Equal(t, "[ValidationError] amount is required", apiErr.Message)
	require.Contains(t, string(apiErr.Response), "amount is required")
}

func TestPerformUnauthorized(t *testing.T) {
	docs.Description("a 401 maps to an auth error carrying the server message")
	inner := &tstInnerClient{script: []tstScriptEntry{
		{status: 401, body: `{"message":"invalid api key"}`},
	}}
	client, _ := tstClient(tstConfig(), inner, nil)

	_, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", map[string]interface{}{"amount": 1})

	var authErr *apierrors.AuthError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, "invalid api key", authErr.Message)
	require.Equal(t, 1, inner.calls)
}

func TestPerformRateLimitExhaustsRetries(t *testing.T) {
	docs.Given("given a server that keeps answering 429 with rate limit headers")
	header := http.Header{}
	header.Set("Retry-After", "5")
	header.Set("X-RateLimit-Limit", "100")
	header.Set("X-RateLimit-Remaining", "0")
	header.Set("X-RateLimit-Reset", "1700000060")
	inner := &tstInnerClient{script: []tstScriptEntry{
		{status: 429, body: `{"message":"rate limit exceeded"}`, header: header},
	}}
	cfg := tstConfig()
	cfg.MaxRetries = 2
	client, sleeps := tstClient(cfg, inner, nil)

	docs.When("when a request is performed")
	_, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", map[string]interface{}{"amount": 1})

	docs.Then("then retries are exhausted and the typed rate limit error carries the header values")
	require.Equal(t, 3, inner.calls)
	require.GreaterOrEqual(t, len(*sleeps), 2)

	var rateErr *apierrors.RateLimitError
	require.True(t, errors.As(err, &rateErr))
	require.Equal(t, 5, rateErr.RetryAfter)
	require.Equal(t, 100, rateErr.Limit)
	require.Equal(t, 0, rateErr.Remaining)
	require.Equal(t, int64(1700000060), rateErr.Reset)
	require.Contains(t, rateErr.Error(), "retry after 5 seconds")
}

func TestPerformNetworkErrorRetriedThenWrapped(t *testing.T) {
	docs.Description("transport level failures are retried and wrapped as a network error")
	cause := errors.New("connection refused")
	inner := &tstInnerClient{script: []tstScriptEntry{{err: cause}}}
	client, _ := tstClient(tstConfig(), inner, nil)

	_, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", map[string]interface{}{"amount": 1})

	require.Equal(t, 4, inner.calls, "initial attempt plus 3 retries")
	var netErr *apierrors.NetworkError
	require.True(t, errors.As(err, &netErr))
	require.True(t, errors.Is(err, cause))
}

func TestPerformSendsCanonicalSignedBody(t *testing.T) {
	docs.Description("the request body is the canonical json form with sorted keys")
	inner := &tstInnerClient{script: []tstScriptEntry{{status: 200, body: `{}`}}}
	client, _ := tstClient(tstConfig(), inner, nil)

	payload := map[string]interface{}{
		"currency": "USD",
		"amount":   10000,
	}
	_, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", payload)
	require.Nil(t, err)

	require.Equal(t, 1, len(inner.bodies))
	require.Equal(t, `{"amount":10000,"currency":"USD"}`, inner.bodies[0])
}

func TestPerformNilPayloadSendsNoBody(t *testing.T) {
	docs.Description("requests without payload carry no body and no signature")
	inner := &tstInnerClient{script: []tstScriptEntry{{status: 200, body: `{}`}}}
	client, _ := tstClient(tstConfig(), inner, nil)

	_, err := client.Perform(context.TODO(), http.MethodGet, "/api/v1/webhook/voucher/list", nil)
	require.Nil(t, err)
	require.Nil(t, inner.bodies[0])
}

func TestPerformWritesProtocolTrail(t *testing.T) {
	docs.Description("with full request logging enabled, request and response land in the protocol trail")
	inner := &tstInnerClient{script: []tstScriptEntry{{status: 200, body: `{"success":true}`}}}
	cfg := tstConfig()
	cfg.LogFullRequests = true
	repo := protocol.NewInMemoryRepository(10)
	client, _ := tstClient(cfg, inner, repo)

	_, err := client.Perform(context.TODO(), http.MethodPost, "/api/v1/webhook/transaction", map[string]interface{}{"amount": 10000})
	require.Nil(t, err)

	entries := repo.Entries()
	require.Equal(t, 2, len(entries))
	require.Equal(t, "raw", entries[0].Kind)
	require.Equal(t, `{"amount":10000}`, entries[0].Details)
	require.Equal(t, "success", entries[1].Kind)
	require.Equal(t, `{"success":true}`, entries[1].Details)
	require.Equal(t, entries[0].RequestId, entries[1].RequestId)
	require.NotEqual(t, "", entries[0].RequestId)
}

func TestRequestManipulatorSetsAuthHeaders(t *testing.T) {
	docs.Description("the request manipulator injects api key, signature, timestamp and request id headers")
	cfg := tstConfig()
	cfg.TestMode = true
	impl := &Impl{cfg: cfg}

	ctx := ctxvalues.CreateContextWithValueMap(context.TODO())
	ctxvalues.SetRequestId(ctx, "req-42")
	ctxvalues.SetSignature(ctx, "deadbeef")
	ctxvalues.SetTimestamp(ctx, "1700000000")

	request := httptest.NewRequest(http.MethodPost, "https://api.havn.com/api/v1/webhook/transaction", nil)
	impl.requestManipulator(ctx, request)

	require.Equal(t, "application/json", request.Header.Get("Content-Type"))
	require.Equal(t, "api-key", request.Header.Get("X-API-Key"))
	require.Equal(t, "deadbeef", request.Header.Get("X-Signature"))
	require.Equal(t, "1700000000", request.Header.Get("X-Timestamp"))
	require.Equal(t, "req-42", request.Header.Get("X-Request-Id"))
	require.Equal(t, "true", request.Header.Get("X-Test-Mode"))
}

func TestRequestManipulatorOmitsSignatureWithoutPayload(t *testing.T) {
	docs.Description("unsigned requests carry no signature or timestamp header")
	impl := &Impl{cfg: tstConfig()}
	ctx := ctxvalues.CreateContextWithValueMap(context.TODO())

	request := httptest.NewRequest(http.MethodGet, "https://api.havn.com/api/v1/webhook/voucher/list", nil)
	impl.requestManipulator(ctx, request)

	require.Equal(t, "", request.Header.Get("X-Signature"))
	require.Equal(t, "", request.Header.Get("X-Timestamp"))
	require.Equal(t, "", request.Header.Get("X-Test-Mode"))
	require.Equal(t, "api-key", request.Header.Get("X-API-Key"))
}
