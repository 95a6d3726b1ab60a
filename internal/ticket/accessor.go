package ticket

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/tracker"
)

// ValidationError reports malformed or contradictory ticket data. It wraps
// services.ErrValidation so the orchestrator can classify it as fatal before
// any side effect.
type ValidationError struct {
	TicketID int64
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ticket %d: %s", e.TicketID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return services.ErrValidation }

func validationErrorf(ticketID int64, format string, args ...any) error {
	return &ValidationError{TicketID: ticketID, Reason: fmt.Sprintf(format, args...)}
}

// bag is the typed accessor layer over the raw property mapping. It is the
// only place raw keys are read; everything past Resolve sees typed fields.
type bag struct {
	ticketID int64
	raw      tracker.RawProperties
	cfg      *config.Config
	logger   *slog.Logger
}

// required returns the trimmed value or a ValidationError when the key is
// absent or empty.
func (b *bag) required(key string) (string, error) {
	value, ok := b.raw.Get(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", validationErrorf(b.ticketID, "required property %s missing or empty", key)
	}
	return value, nil
}

// optional returns the trimmed value, or "" when absent. Absence is logged
// as a warning so operators can see which tickets run on defaults.
func (b *bag) optional(key string) string {
	value, ok := b.raw.Get(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		b.logger.Debug("optional property absent", logging.String("property", key))
		return ""
	}
	return value
}

// optionalWithDefault falls back to the event-wide default from static
// config when the ticket does not carry the property.
func (b *bag) optionalWithDefault(key string) string {
	if value := b.optional(key); value != "" {
		return value
	}
	if fallback, ok := b.cfg.PropertyDefault(key); ok {
		b.logger.Debug("using configured property default", logging.String("property", key))
		return strings.TrimSpace(fallback)
	}
	return ""
}

// boolean decodes the tracker's string booleans. The literal strings "yes"
// and "1" (case-insensitive) are true, everything else false. The pointer is
// nil when the property is absent, so callers can distinguish "not
// configured" from "explicitly disabled".
func (b *bag) boolean(key string) *bool {
	value, ok := b.raw.Get(key)
	if !ok {
		return nil
	}
	result := isTrue(value)
	return &result
}

func isTrue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "1":
		return true
	default:
		return false
	}
}

// list splits a property on the delimiter, trimming segments and dropping
// empties. Order is preserved and duplicates are kept; downstream consumers
// decide about deduplication.
func (b *bag) list(key, delimiter string) []string {
	return splitList(b.optional(key), delimiter)
}

func splitList(value, delimiter string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	segments := strings.Split(value, delimiter)
	result := make([]string, 0, len(segments))
	for _, segment := range segments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

// integer parses an optional integer property. The pointer is nil when the
// property is absent; a present but unparsable value is a ValidationError.
func (b *bag) integer(key string) (*int, error) {
	value := b.optional(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, validationErrorf(b.ticketID, "property %s is not an integer: %q", key, value)
	}
	return &parsed, nil
}

// policy parses an update-policy property, defaulting on absence.
func (b *bag) policy(key string) (UpdatePolicy, error) {
	value := b.optional(key)
	parsed, err := ParseUpdatePolicy(value)
	if err != nil {
		return UpdateDefault, validationErrorf(b.ticketID, "property %s: %v", key, err)
	}
	return parsed, nil
}
