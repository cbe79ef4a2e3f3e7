// Пакет ctxmeta — метаданные запроса, которые прокидываются через context.Context
// (request_id, caller_id, trace_id). HTTP-слой кладёт, логгер читает.
package ctxmeta

import "context"

type ctxKey string

const (
	KeyRequestID ctxKey = "request_id"
	KeyCallerID  ctxKey = "caller_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, KeyRequestID)
}

// WithCallerID — идентичность вызывающего (из заголовков шлюза или очереди).
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return withValue(ctx, KeyCallerID, callerID)
}

func CallerIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, KeyCallerID)
}

// Fields — пары ключ/значение для структурного лога; отсутствующие значения пропускаются.
func Fields(ctx context.Context) []any {
	var out []any
	if v, ok := RequestIDFromContext(ctx); ok {
		out = append(out, string(KeyRequestID), v)
	}
	if v, ok := CallerIDFromContext(ctx); ok {
		out = append(out, string(KeyCallerID), v)
	}
	if v, ok := TraceIDFromContext(ctx); ok {
		out = append(out, "trace_id", v)
	}
	if v, ok := SpanIDFromContext(ctx); ok {
		out = append(out, "span_id", v)
	}
	return out
}

func withValue(ctx context.Context, key ctxKey, value string) context.Context {
	if ctx == nil || value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
