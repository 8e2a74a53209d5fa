package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

type Logger struct {
	*zap.SugaredLogger
}

// profile is the per-environment part of the zap config.
type profile struct {
	production bool
	level      zapcore.Level
	stacktrace bool
	caller     bool
}

var profiles = map[string]profile{
	"development": {level: zap.DebugLevel},
	"debug":       {level: zap.DebugLevel, stacktrace: true, caller: true},
	"production":  {production: true, level: zap.InfoLevel},
}

var fallbackProfile = profile{level: zap.InfoLevel}

// New builds a named zap logger configured for env: "development",
// "debug", "production" or anything else (info level, console encoding).
// Output goes to stderr; stdout belongs to command output.
func New(serviceName, env string) (*Logger, error) {
	cfg, withCaller := buildConfig(env)

	z, err := cfg.Build(
		zap.WithCaller(withCaller),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}
	return &Logger{SugaredLogger: z.Named(serviceName).Sugar()}, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger, e.g. one built on zaptest/observer.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{SugaredLogger: z.Sugar()}
}

func buildConfig(env string) (zap.Config, bool) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(env))]
	if !ok {
		p = fallbackProfile
	}

	cfg := zap.NewDevelopmentConfig()
	if p.production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(p.level)
	cfg.DisableStacktrace = !p.stacktrace

	enc := &cfg.EncoderConfig
	enc.TimeKey, enc.LevelKey, enc.MessageKey, enc.NameKey = "timestamp", "level", "msg", "logger"
	enc.CallerKey = zapcore.OmitKey
	if p.caller {
		enc.CallerKey = "caller"
	}
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	return cfg, p.caller
}

func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// SafeSync flushes buffered entries, ignoring the errors terminals and
// pipes return for fsync.
func (l *Logger) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Desugar().Sync(); err != nil && !isIgnorableSyncError(err) {
		l.Errorf("log sync error: %v", err)
	}
}

func isIgnorableSyncError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, msg := range []string{"invalid argument", "inappropriate ioctl for device", "bad file descriptor"} {
		if strings.Contains(s, msg) {
			return true
		}
	}
	return false
}

func (l *Logger) Debugw(m string, kv ...any) { l.SugaredLogger.Debugw(m, kv...) }
func (l *Logger) Infow(m string, kv ...any)  { l.SugaredLogger.Infow(m, kv...) }
func (l *Logger) Warnw(m string, kv ...any)  { l.SugaredLogger.Warnw(m, kv...) }
func (l *Logger) Errorw(m string, kv ...any) { l.SugaredLogger.Errorw(m, kv...) }

func (l *Logger) InfowCtx(ctx context.Context, msg string, kv ...any) {
	l.SugaredLogger.Infow(msg, withRequestID(ctx, kv)...)
}

func (l *Logger) WarnwCtx(ctx context.Context, msg string, kv ...any) {
	l.SugaredLogger.Warnw(msg, withRequestID(ctx, kv)...)
}

func withRequestID(ctx context.Context, kv []any) []any {
	if id := RequestID(ctx); id != "" {
		return append(kv, "request_id", id)
	}
	return kv
}

// ContextWithRequestID stores a request id picked up by the *Ctx methods.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the id stored by ContextWithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}
