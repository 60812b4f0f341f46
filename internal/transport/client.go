package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	aulogging "github.com/StephanHCB/go-autumn-logging"
	aurestclientapi "github.com/StephanHCB/go-autumn-restclient/api"
	auresthttpclient "github.com/StephanHCB/go-autumn-restclient/implementation/httpclient"
	aurestlogging "github.com/StephanHCB/go-autumn-restclient/implementation/requestlogging"
	aurestretry "github.com/StephanHCB/go-autumn-restclient/implementation/retry"
	"github.com/go-http-utils/headers"
	"github.com/google/uuid"

	"github.com/havnhq/havn-sdk-go/api/v1/havnapi"
	"github.com/havnhq/havn-sdk-go/apierrors"
	"github.com/havnhq/havn-sdk-go/internal/config"
	"github.com/havnhq/havn-sdk-go/internal/ctxvalues"
	"github.com/havnhq/havn-sdk-go/internal/protocol"
	"github.com/havnhq/havn-sdk-go/signing"
)

var NowFunc = time.Now

// statuses that get retried; every other non-2xx status terminates
// immediately.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type Impl struct {
	client   aurestclientapi.Client
	cfg      config.Config
	protocol protocol.Repository
	sleep    func(d time.Duration)
}

// New builds the transport chain in use for production: http client with
// request timeout -> request logging -> bounded retry.
func New(cfg config.Config, protocolRepo protocol.Repository) (Client, error) {
	t := &Impl{
		cfg:      cfg,
		protocol: protocolRepo,
		sleep:    time.Sleep,
	}

	httpClient, err := auresthttpclient.New(cfg.Timeout(), nil, t.requestManipulator)
	if err != nil {
		return nil, err
	}

	requestLoggingClient := aurestlogging.New(httpClient)

	t.client = aurestretry.New(requestLoggingClient,
		uint8(cfg.MaxRetries),
		t.retryCondition,
		t.beforeRetry,
	)
	return t, nil
}

// NewTestingClient builds the transport around a caller-supplied inner
// client, keeping the retry policy. sleepFunc replaces the backoff sleep so
// tests can record delays instead of waiting them out.
func NewTestingClient(cfg config.Config, innerClient aurestclientapi.Client, sleepFunc func(d time.Duration), protocolRepo protocol.Repository) Client {
	t := &Impl{
		cfg:      cfg,
		protocol: protocolRepo,
		sleep:    sleepFunc,
	}
	t.client = aurestretry.New(innerClient,
		uint8(cfg.MaxRetries),
		t.retryCondition,
		t.beforeRetry,
	)
	return t
}

func (t *Impl) requestManipulator(ctx context.Context, r *http.Request) {
	r.Header.Set(headers.ContentType, aurestclientapi.ContentTypeApplicationJson)
	r.Header.Set(havnapi.HeaderAPIKey, t.cfg.APIKey)
	r.Header.Set(havnapi.HeaderRequestID, ctxvalues.RequestId(ctx))
	if signature := ctxvalues.Signature(ctx); signature != "" {
		r.Header.Set(havnapi.HeaderSignature, signature)
	}
	if timestamp := ctxvalues.Timestamp(ctx); timestamp != "" {
		r.Header.Set(havnapi.HeaderTimestamp, timestamp)
	}
	if t.cfg.TestMode {
		r.Header.Set(havnapi.HeaderTestMode, havnapi.TestModeValue)
	}
}

func (t *Impl) retryCondition(ctx context.Context, response *aurestclientapi.ParsedResponse, err error) bool {
	if err != nil {
		return true
	}
	return retryableStatus[response.Status]
}

func (t *Impl) beforeRetry(ctx context.Context, originalResponse *aurestclientapi.ParsedResponse, originalError error) error {
	attempt := ctxvalues.RetryAttempt(ctx)
	delay := time.Duration(t.cfg.BackoffFactor * math.Pow(2, float64(attempt)) * float64(time.Second))
	ctxvalues.SetRetryAttempt(ctx, attempt+1)

	status := 0
	if originalResponse != nil {
		status = originalResponse.Status
	}
	aulogging.Logger.Ctx(ctx).Warn().Printf("retrying request after %v (attempt %d, status %d)", delay, attempt+1, status)
	t.sleep(delay)
	return nil
}

func (t *Impl) Perform(ctx context.Context, method string, path string, payload interface{}) (Response, error) {
	ctx = ctxvalues.CreateContextWithValueMap(ctx)
	ctxvalues.SetRequestId(ctx, uuid.NewString())

	var requestBody interface{}
	requestLogged := ""
	if payload != nil {
		canonical, err := signing.CanonicalJSON(payload)
		if err != nil {
			return Response{}, fmt.Errorf("failed to serialize request payload: %v", err)
		}
		ctxvalues.SetSignature(ctx, signing.Sign(canonical, t.cfg.WebhookSecret))
		ctxvalues.SetTimestamp(ctx, strconv.FormatInt(NowFunc().Unix(), 10))
		requestBody = string(canonical)
		requestLogged = string(canonical)
	}

	t.writeProtocolEntry(ctx, path, "raw", "request", requestLogged)

	requestUrl := t.cfg.BaseURL + path
	var responseRaw *[]byte
	response := aurestclientapi.ParsedResponse{
		Body: &responseRaw,
	}
	if err := t.client.Perform(ctx, method, requestUrl, requestBody, &response); err != nil {
		t.writeProtocolEntry(ctx, path, "error", "transport failure", err.Error())
		return Response{}, t.networkError(err)
	}

	raw := []byte{}
	if responseRaw != nil {
		raw = *responseRaw
	}
	result := Response{
		Status: response.Status,
		Body:   raw,
		Header: response.Header,
	}

	if err := ErrorFromResponse(result); err != nil {
		t.writeProtocolEntry(ctx, path, "error", fmt.Sprintf("response status %d", result.Status), string(raw))
		return result, err
	}

	t.writeProtocolEntry(ctx, path, "success", fmt.Sprintf("response status %d", result.Status), string(raw))
	return result, nil
}

func (t *Impl) networkError(err error) error {
	message := "request failed"
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		message = fmt.Sprintf("request timeout after %d seconds", t.cfg.TimeoutSeconds)
	} else if errors.Is(err, context.DeadlineExceeded) {
		message = fmt.Sprintf("request timeout after %d seconds", t.cfg.TimeoutSeconds)
	}
	return &apierrors.NetworkError{Message: message, Err: err}
}

// serverErrorBody is the error envelope the api uses for non-2xx responses.
type serverErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorFromResponse maps a non-2xx response to the matching typed error,
// nil for success.
func ErrorFromResponse(response Response) error {
	if response.Status >= 200 && response.Status <= 299 {
		return nil
	}

	parsed := serverErrorBody{}
	_ = json.Unmarshal(response.Body, &parsed)

	switch response.Status {
	case http.StatusUnauthorized:
		message := parsed.Message
		if message == "" {
			message = "authentication failed"
		}
		return &apierrors.AuthError{Message: message}
	case http.StatusTooManyRequests:
		message := parsed.Message
		if message == "" {
			message = "rate limit exceeded, please try again later"
		}
		return &apierrors.RateLimitError{
			Message:    message,
			RetryAfter: headerInt(response.Header, havnapi.HeaderRetryAfter),
			Limit:      headerInt(response.Header, havnapi.HeaderRateLimitLimit),
			Remaining:  headerInt(response.Header, havnapi.HeaderRateLimitRemaining),
			Reset:      int64(headerInt(response.Header, havnapi.HeaderRateLimitReset)),
		}
	default:
		errorType := parsed.Error
		if errorType == "" {
			errorType = "APIError"
		}
		message := parsed.Message
		if message == "" {
			message = fmt.Sprintf("api error: %d", response.Status)
		}
		return &apierrors.APIError{
			Message:    fmt.Sprintf("[%s] %s", errorType, message),
			StatusCode: response.Status,
			Response:   response.Body,
		}
	}
}

func (t *Impl) writeProtocolEntry(ctx context.Context, path string, kind string, message string, details string) {
	if !t.cfg.LogFullRequests || t.protocol == nil {
		return
	}
	_ = t.protocol.WriteEntry(ctx, &protocol.Entry{
		ReferenceId: path,
		Kind:        kind,
		Message:     message,
		Details:     details,
	})
}

func headerInt(header http.Header, key string) int {
	value, err := strconv.Atoi(header.Get(key))
	if err != nil {
		return 0
	}
	return value
}
