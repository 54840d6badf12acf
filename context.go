package bufferedlogger

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *BufferedLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the BufferedLogger stored in ctx, if any.
func FromContext(ctx context.Context) (*BufferedLogger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(contextKey{}).(*BufferedLogger)
	return l, ok && l != nil
}
