package utils

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is what replicas and stores log through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	DebugCtx(ctx context.Context, msg string, args ...any)
	InfoCtx(ctx context.Context, msg string, args ...any)
	WarnCtx(ctx context.Context, msg string, args ...any)
	ErrorCtx(ctx context.Context, msg string, args ...any)
}

type DefaultLogger struct {
	logger *slog.Logger
}

func NewDefaultLogger(level slog.Level) *DefaultLogger {
	return NewLogger(os.Stderr, level)
}

// NewLogger writes text records at or above level to w.
func NewLogger(w io.Writer, level slog.Level) *DefaultLogger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return &DefaultLogger{logger: logger}
}

// Discard drops everything; tests use it.
func Discard() *DefaultLogger {
	return NewLogger(io.Discard, slog.LevelError+1)
}

const prefix = "[propsync] "

func (d *DefaultLogger) Debug(msg string, args ...any) {
	d.logger.Debug(prefix+msg, args...)
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	d.logger.Info(prefix+msg, args...)
}

func (d *DefaultLogger) Warn(msg string, args ...any) {
	d.logger.Warn(prefix+msg, args...)
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	d.logger.Error(prefix+msg, args...)
}

type ctxArgsKey struct{}

func ctxArgs(ctx context.Context) []any {
	args, _ := ctx.Value(ctxArgsKey{}).([]any)
	return args
}

// WithDefaultArgs attaches key/value pairs that every *Ctx call made with
// the returned context appends, e.g. the observer id of a connection.
func WithDefaultArgs(ctx context.Context, args ...any) context.Context {
	prev := ctxArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(append(merged, prev...), args...)
	return context.WithValue(ctx, ctxArgsKey{}, merged)
}

func (d *DefaultLogger) DebugCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Debug(prefix+msg, append(args, ctxArgs(ctx)...)...)
}

func (d *DefaultLogger) InfoCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Info(prefix+msg, append(args, ctxArgs(ctx)...)...)
}

func (d *DefaultLogger) WarnCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Warn(prefix+msg, append(args, ctxArgs(ctx)...)...)
}

func (d *DefaultLogger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Error(prefix+msg, append(args, ctxArgs(ctx)...)...)
}
