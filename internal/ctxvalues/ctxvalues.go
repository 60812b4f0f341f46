// Package ctxvalues carries per-request values between the transport and
// the restclient callbacks (request manipulator, retry hooks) via the
// context.
package ctxvalues

import (
	"context"
	"strconv"
)

const (
	KeyRequestId    = "requestid"
	KeySignature    = "signature"
	KeyTimestamp    = "timestamp"
	KeyRetryAttempt = "retryattempt"
)

type contextMapKeyType struct{}

var contextMapKey contextMapKeyType

// CreateContextWithValueMap adds a mutable value map to the context. All
// setters below require it; on a context without the map they are no-ops.
func CreateContextWithValueMap(ctx context.Context) context.Context {
	contextMap := make(map[string]string)
	return context.WithValue(ctx, contextMapKey, contextMap)
}

func valueOrDefault(ctx context.Context, key string, defaultValue string) string {
	contextMapUntyped := ctx.Value(contextMapKey)
	if contextMapUntyped == nil {
		return defaultValue
	}
	contextMap, ok := contextMapUntyped.(map[string]string)
	if !ok {
		return defaultValue
	}
	if value, ok := contextMap[key]; ok {
		return value
	}
	return defaultValue
}

func setValue(ctx context.Context, key string, value string) {
	contextMapUntyped := ctx.Value(contextMapKey)
	if contextMapUntyped == nil {
		return
	}
	if contextMap, ok := contextMapUntyped.(map[string]string); ok {
		contextMap[key] = value
	}
}

func RequestId(ctx context.Context) string {
	return valueOrDefault(ctx, KeyRequestId, "00000000")
}

func SetRequestId(ctx context.Context, requestId string) {
	setValue(ctx, KeyRequestId, requestId)
}

func Signature(ctx context.Context) string {
	return valueOrDefault(ctx, KeySignature, "")
}

func SetSignature(ctx context.Context, signature string) {
	setValue(ctx, KeySignature, signature)
}

func Timestamp(ctx context.Context) string {
	return valueOrDefault(ctx, KeyTimestamp, "")
}

func SetTimestamp(ctx context.Context, timestamp string) {
	setValue(ctx, KeyTimestamp, timestamp)
}

// RetryAttempt returns how many retries of the current request have
// happened so far, 0 for the first attempt.
func RetryAttempt(ctx context.Context) int {
	attempt, err := strconv.Atoi(valueOrDefault(ctx, KeyRetryAttempt, "0"))
	if err != nil {
		return 0
	}
	return attempt
}

func SetRetryAttempt(ctx context.Context, attempt int) {
	setValue(ctx, KeyRetryAttempt, strconv.Itoa(attempt))
}
