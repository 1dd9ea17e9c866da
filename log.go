package enum

import (
	"sync/atomic"

	"github.com/xy-planning-network/enum/logger"
)

// LogKindKey is the LogContext.Data key naming which part of the package logged.
const LogKindKey = "kind"

const (
	DiscoveryLogKind = "discovery"
	InternLogKind    = "intern"
	CodecLogKind     = "codec"
)

// pkgLogger is the logger.Logger registries fall back on.
var pkgLogger atomic.Value

func init() {
	pkgLogger.Store(holder{logger.NewLogger(logger.WithLevel(logger.LogLevelWarn))})
}

// holder keeps the stored dynamic type constant, as atomic.Value requires.
type holder struct{ l logger.Logger }

// SetLogger sets the logger.Logger used by every Registry not built WithLogger.
// A nil l is ignored.
func SetLogger(l logger.Logger) {
	if l == nil {
		return
	}

	pkgLogger.Store(holder{l})
}

// Logger returns the logger.Logger set by SetLogger.
func Logger() logger.Logger { return pkgLogger.Load().(holder).l }

func logContext(kind string, t *Type, data map[string]any) *logger.LogContext {
	d := map[string]any{LogKindKey: kind}
	for k, v := range data {
		d[k] = v
	}

	return &logger.LogContext{Type: t.Name(), Data: d}
}
