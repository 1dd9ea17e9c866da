package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum/http/middleware"
	"github.com/xy-planning-network/enum/logger"
)

func TestLogRequest(t *testing.T) {
	// Arrange + Act
	actual := middleware.LogRequest(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	tcs := []struct {
		name     string
		ip       string
		id       string
		target   string
		expected string
		ctx      *logger.LogContext
	}{
		{"Zero-Value", "", "", "/types", "GET /types", nil},
		{"With-IP", "1.1.1.1", "", "/types", "1.1.1.1 GET /types", nil},
		{"With-Query-Params", "", "", "/parse?name=Monday", "GET /parse?name=Monday", nil},
		{"With-Query-Params-Hid", "", "", "/decode?secret=hunter2&token=x", "GET /decode?secret=" + middleware.LogMaskVal + "&token=x", nil},
		{
			"With-Request-ID",
			"",
			"test-id",
			"/types",
			"GET /types",
			&logger.LogContext{Data: map[string]any{"request_id": "test-id"}},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctrl := gomock.NewController(t)
			l := logger.NewMockLogger(ctrl)
			l.EXPECT().Info(tc.expected, tc.ctx)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.ip != "" {
				r = r.Clone(context.WithValue(r.Context(), middleware.IPAddrCtxKey, tc.ip))
			}

			if tc.id != "" {
				r = r.Clone(context.WithValue(r.Context(), middleware.RequestIDCtxKey, tc.id))
			}

			called := false

			// Act
			middleware.LogRequest(l, "secret")(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
				called = true
			})).ServeHTTP(w, r)

			// Assert
			require.True(t, called)
		})
	}
}
