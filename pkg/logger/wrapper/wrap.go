package wrap

import (
	"context"
	"errors"
)

// ctxError carries the LogCtx that was active where the error was raised,
// so the log line written higher up still has action, request and trip ids.
type ctxError struct {
	err    error
	logCtx LogCtx
}

func (e *ctxError) Error() string { return e.err.Error() }
func (e *ctxError) Unwrap() error { return e.err }

// Error wraps an error with the current LogCtx from the context.
// An error that already carries a LogCtx gets the newer context.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc, ok := ctx.Value(LogCtxKey).(LogCtx)
	if !ok && hasLogCtx(err) {
		return err
	}
	return &ctxError{err: err, logCtx: lc}
}

// ErrorCtx returns ctx with the LogCtx carried by err, if any.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *ctxError
	if errors.As(err, &e) {
		return context.WithValue(ctx, LogCtxKey, e.logCtx)
	}
	return ctx
}

func hasLogCtx(err error) bool {
	var e *ctxError
	return errors.As(err, &e)
}
