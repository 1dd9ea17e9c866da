package middleware

import (
	"net/http"
)

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// A ctxKey is a key middlewares store request scoped values under.
type ctxKey string

func (k ctxKey) String() string { return "enum/http/middleware " + string(k) }

const (
	// IPAddrCtxKey holds the originating IP address injected by InjectIPAddress.
	IPAddrCtxKey ctxKey = "ip_addr"

	// RequestIDCtxKey holds the request ID injected by RequestID.
	RequestIDCtxKey ctxKey = "request_id"
)

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	// NOTE: loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		handler = adapters[i](handler)
	}

	return handler
}

// NoopAdapter passes the request to the next handler untouched.
func NoopAdapter(h http.Handler) http.Handler { return h }
