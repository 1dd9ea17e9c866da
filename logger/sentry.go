package logger

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// Sentry tags set on every event a SentryLogger reports.
const (
	SentryTypeTag  = "enum.type"
	SentryTokenTag = "enum.token"
)

// A SentryLogger decorates a SkipLogger, reporting warnings and worse to Sentry.
//
// Events carry the enumeration Type and token of their LogContext as tags
// and are grouped per Type, so rejected tokens of one Type do not bury another's.
type SentryLogger struct {
	l   SkipLogger
	hub *sentry.Hub
}

// NewSentryLogger initializes Sentry with dsn and reports through its global hub.
// If Sentry cannot be initialized, the StdLogger is returned as is.
func NewSentryLogger(sl *StdLogger, dsn string) Logger {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:          dsn,
		Environment:  sl.env,
		IgnoreErrors: []string{"write: broken pipe"},
	})
	if err != nil {
		sl.Error(fmt.Sprintf("unable to init Sentry: %s", err), nil)
		return sl
	}

	return NewSentryHubLogger(sl, sentry.CurrentHub())
}

// NewSentryHubLogger reports through hub rather than the global one.
func NewSentryHubLogger(sl *StdLogger, hub *sentry.Hub) *SentryLogger {
	return &SentryLogger{l: sl.AddSkip(1 + sl.Skip()), hub: hub}
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message, still reporting to Sentry.
func (sl *SentryLogger) AddSkip(i int) SkipLogger {
	return &SentryLogger{l: sl.l.AddSkip(i), hub: sl.hub}
}

func (sl *SentryLogger) Debug(msg string, ctx *LogContext) { sl.l.Debug(msg, ctx) }

func (sl *SentryLogger) Info(msg string, ctx *LogContext) { sl.l.Info(msg, ctx) }

// Warn writes a warning log, reporting its LogContext.Error.
func (sl *SentryLogger) Warn(msg string, ctx *LogContext) {
	if sl.l.LogLevel() > LogLevelWarn {
		return
	}

	sl.l.Warn(msg, ctx)
	sl.report(sentry.LevelWarning, msg, ctx)
}

// Error writes an error log, reporting its LogContext.Error or, lacking one, msg.
func (sl *SentryLogger) Error(msg string, ctx *LogContext) {
	if sl.l.LogLevel() > LogLevelError {
		return
	}

	sl.l.Error(msg, ctx)
	sl.report(sentry.LevelError, msg, ctx)
}

// Fatal writes a fatal log, reporting its LogContext.Error or, lacking one, msg.
func (sl *SentryLogger) Fatal(msg string, ctx *LogContext) {
	if sl.l.LogLevel() > LogLevelFatal {
		return
	}

	sl.l.Fatal(msg, ctx)
	sl.report(sentry.LevelFatal, msg, ctx)
}

func (sl *SentryLogger) LogLevel() LogLevel { return sl.l.LogLevel() }

func (sl *SentryLogger) Skip() int { return sl.l.Skip() }

// report ships one event to Sentry.
// Warnings are only reported when they carry an error.
func (sl *SentryLogger) report(level sentry.Level, msg string, ctx *LogContext) {
	if ctx == nil {
		ctx = new(LogContext)
	}

	if ctx.Error == nil && level == sentry.LevelWarning {
		return
	}

	sl.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)

		if ctx.Type != "" {
			scope.SetTag(SentryTypeTag, ctx.Type)
			scope.SetFingerprint([]string{"{{ default }}", ctx.Type})
		}

		if ctx.Token != "" {
			scope.SetTag(SentryTokenTag, ctx.Token)
		}

		if ctx.Request != nil {
			scope.SetRequest(ctx.Request)
		}

		if ctx.Data != nil {
			scope.SetExtra("data", ctx.Data)
		}

		if ctx.Error != nil {
			sl.hub.CaptureException(ctx.Error)
			return
		}

		sl.hub.CaptureMessage(msg)
	})
}
