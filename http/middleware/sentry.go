package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/enum/config"
)

// ReportPanic recovers from panics in the handlers it wraps and reports them to Sentry,
// responding 500.
//
// In config.Development, NoopAdapter returns so that panics surface in the terminal.
func ReportPanic(env config.Environment) Adapter {
	if env == config.Development {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler {
		return sh.Handle(h)
	}
}
