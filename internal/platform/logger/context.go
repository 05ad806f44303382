package logger

import "context"

type ctxKey struct{}

// WithContext deja lg en ctx. RequestLog lo hace por request.
func WithContext(ctx context.Context, lg Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lg)
}

// FromContext devuelve el logger de ctx, o Nop si no hay.
func FromContext(ctx context.Context) Logger {
	if lg, ok := ctx.Value(ctxKey{}).(Logger); ok && lg != nil {
		return lg
	}
	return Nop()
}
