package logger_test

import (
	"bytes"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum/logger"
)

var (
	logLevelRegexp = regexp.MustCompile(`^\[[A-Z]+\]`)
	fpRegexp       = regexp.MustCompile(`logger/logger_test\.go:\d+`)
	msgRegexp      = regexp.MustCompile(`'(.*)'`)
)

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

func init() {
	color.NoColor = true
}

func TestNewLogLevel(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"debug", logger.LogLevelUnk},
		{"", logger.LogLevelUnk},
	} {
		t.Run(tc.in, func(t *testing.T) {
			// Act
			actual := logger.NewLogLevel(tc.in)

			// Assert
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestStdLoggerLevels(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	// Arrange
	buf := new(bytes.Buffer)
	l := logger.NewLogger(logger.WithLogger(newTestLogger(buf)), logger.WithLevel(logger.LogLevelWarn))

	// Act
	l.Debug("debug", nil)
	l.Info("info", nil)

	// Assert
	require.Empty(t, buf.String())
	require.Equal(t, logger.LogLevelWarn, l.LogLevel())

	// Act
	l.Warn("discovered members", nil)

	// Assert
	line := buf.String()
	require.Equal(t, "[WARN]", logLevelRegexp.FindString(line))
	require.Regexp(t, fpRegexp, line)
	require.Equal(t, "discovered members", msgRegexp.FindStringSubmatch(line)[1])

	// Arrange
	buf.Reset()

	// Act
	l.Error("rejected token", &logger.LogContext{Error: errors.New("invalid value")})

	// Assert
	line = buf.String()
	require.Equal(t, "[ERROR]", logLevelRegexp.FindString(line))
	require.Contains(t, line, `log_context: {"error":"invalid value"}`)
}

func TestStdLoggerCaller(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	// Arrange
	buf := new(bytes.Buffer)
	l := logger.NewLogger(logger.WithLogger(newTestLogger(buf)))

	// Act
	l.Info("from elsewhere", &logger.LogContext{Caller: "catalog/handlers.go:12"})

	// Assert
	require.Contains(t, buf.String(), "[INFO] catalog/handlers.go:12 'from elsewhere'")
}

func TestStdLoggerWithLevelUnk(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	// Act
	l := logger.NewLogger(logger.WithLevel(logger.NewLogLevel("nope")))

	// Assert
	require.Equal(t, logger.LogLevelInfo, l.LogLevel())
}

func TestCurrentCaller(t *testing.T) {
	// Arrange
	var caller string

	// Act
	func() {
		caller = logger.CurrentCaller()
	}()

	// Assert
	require.Regexp(t, fpRegexp, caller)
}
