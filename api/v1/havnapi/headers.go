package havnapi

// Header names of the HAVN webhook wire protocol.
const (
	HeaderAPIKey             = "X-API-Key"
	HeaderSignature          = "X-Signature"
	HeaderTimestamp          = "X-Timestamp"
	HeaderTestMode           = "X-Test-Mode"
	HeaderRequestID          = "X-Request-Id"
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// TestModeValue is sent in HeaderTestMode when dry-run mode is enabled.
const TestModeValue = "true"

// Webhook endpoint paths relative to the configured base url.
const (
	EndpointTransaction     = "/api/v1/webhook/transaction"
	EndpointUserSync        = "/api/v1/webhook/user-sync"
	EndpointVoucherValidate = "/api/v1/webhook/voucher/validate"
	EndpointVoucherList     = "/api/v1/webhook/voucher/list"
	EndpointLogin           = "/api/v1/webhook/login"
)
