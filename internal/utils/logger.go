package utils

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.RWMutex
	global = zap.NewNop()
)

type loggerKey struct{}

// InitLogger builds the process logger. env "prod" logs JSON, anything else
// logs colored console output.
func InitLogger(env, level string) *zap.Logger {
	var cfg zap.Config
	if strings.EqualFold(strings.TrimSpace(env), "prod") {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := cfg.Build()
	if err != nil {
		l, _ = zap.NewProduction()
	}
	SetLogger(l)
	return l
}

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logMu.Lock()
	global = l
	logMu.Unlock()
}

// L returns the process logger.
func L() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return global
}

// WithLogger stores a request-scoped logger on ctx.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the request-scoped logger or the process logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return L()
}

// LogEvent prints a standardized event line with module/action.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(ctx context.Context, module, action, message string, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("module", strings.ToLower(module)),
		zap.String("action", action),
	}, fields...)
	Logger(ctx).Info(message, fields...)
}

func RequestIDField(v string) zap.Field { return zap.String("request_id", v) }

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
