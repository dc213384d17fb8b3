package appctx

import (
	"context"
)

// Trace carries request correlation identifiers.
type Trace struct {
	RequestID string
}

type traceKey struct{}

// WithTrace adds trace info to context.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace info from context, or nil.
func GetTrace(ctx context.Context) *Trace {
	if v, ok := ctx.Value(traceKey{}).(*Trace); ok {
		return v
	}
	return nil
}
