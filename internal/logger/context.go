package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	orderRefKey  ctxKey = "order_ref"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// WithOrderRef tags the context with the merchant order reference so every
// gateway call logged downstream can be correlated back to the order.
func WithOrderRef(ctx context.Context, orderRef string) context.Context {
	return context.WithValue(ctx, orderRefKey, orderRef)
}

func OrderRefFrom(ctx context.Context) string {
	if v := ctx.Value(orderRefKey); v != nil {
		return v.(string)
	}
	return ""
}

// FromCtx returns logger with request_id and order_ref automatically added
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if ref := OrderRefFrom(ctx); ref != "" {
		l = l.With(zap.String("order_ref", ref))
	}
	return l
}
