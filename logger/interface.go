package logger

import "context"

// LoggerInterface is the structured subset of Logger that library code
// depends on.
type LoggerInterface interface {
	Debugw(string, ...any)
	Infow(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)

	InfowCtx(context.Context, string, ...any)
	WarnwCtx(context.Context, string, ...any)

	With(...any) LoggerInterface
	SafeSync()
}
