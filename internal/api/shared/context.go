package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/blokmap/blokmap-api/internal/domain"
)

// ContextKey is the type of request context keys set by the HTTP layer.
type ContextKey string

const (
	// UserContextKey holds the *domain.User resolved from the session cookie.
	UserContextKey ContextKey = "user"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters

	// TraceIDHeader echoes the trace ID back to clients.
	TraceIDHeader = "X-Trace-ID"
)

// randRead is swapped in tests to simulate entropy failures.
var randRead = rand.Read

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the authenticated user placed in the context by
// the auth middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// generateTraceID returns 32 hex characters. If crypto/rand fails it falls
// back to a time-derived ID, never a static value.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := randRead(b); err != nil || n != TraceIDLength {
		now := time.Now()
		binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint64(b[8:], uint64(now.Nanosecond())^uint64(now.Unix()))
	}
	return hex.EncodeToString(b)
}
