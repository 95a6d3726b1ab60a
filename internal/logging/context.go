package logging

import (
	"context"
	"log/slog"

	"lectern/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTicketID is the standardized structured logging key for tracker ticket identifiers.
	FieldTicketID = "ticket_id"
	// FieldTarget is the standardized structured logging key for publish target names.
	FieldTarget = "target"
	// FieldLanguage is the standardized structured logging key for per-language publish units.
	FieldLanguage = "language"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.TicketIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldTicketID, id))
	}
	if target, ok := services.TargetFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTarget, target))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
