package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/enum/logger"
)

// LogMaskVal replaces the values of scrubbed query parameters.
const LogMaskVal = "xxxxxxx"

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values of the query parameters named in scrub.
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger, scrub ...string) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, key := range scrub {
				if q.Has(key) {
					q.Set(key, LogMaskVal)
				}
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(IPAddrCtxKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			var ctx *logger.LogContext
			if id := GetRequestID(r.Context()); id != "" {
				ctx = &logger.LogContext{Data: map[string]any{"request_id": id}}
			}

			ls.Info(strings.Join(strs, " "), ctx)
			h.ServeHTTP(w, r)
		})
	}
}
