package services

import "context"

type contextKey string

const (
	ticketIDKey  contextKey = "ticket_id"
	targetKey    contextKey = "target"
	requestIDKey contextKey = "request_id"
)

// WithTicketID annotates context with the tracker ticket identifier.
func WithTicketID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ticketIDKey, id)
}

// TicketIDFromContext extracts the ticket identifier if present.
func TicketIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(ticketIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithTarget annotates context with the active publish target name.
func WithTarget(ctx context.Context, target string) context.Context {
	if target == "" {
		return ctx
	}
	return context.WithValue(ctx, targetKey, target)
}

// TargetFromContext returns the target name if present.
func TargetFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(targetKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
