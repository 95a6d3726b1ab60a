package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or contradictory ticket data. Fatal
	// before any publish side effect.
	ErrValidation = errors.New("validation error")
	// ErrPrecondition marks wrong filesystem state (missing source file,
	// unwritable output directory). Fatal before any publish side effect.
	ErrPrecondition = errors.New("precondition error")
	// ErrTarget marks a failure of one publish target or one language unit
	// within a target. Isolated; sibling units continue.
	ErrTarget = errors.New("target error")
	// ErrTracker marks a transport or protocol failure talking to the
	// tracker. Fatal for the current run.
	ErrTracker = errors.New("tracker error")
	// ErrConfiguration marks invalid or missing worker configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes target context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, target, operation, message string, err error) error {
	detail := buildDetail(target, operation, message)
	if marker == nil {
		marker = ErrTarget
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the run before any target is
// invoked. Validation and precondition failures are fatal; target failures
// are folded into results instead.
func IsFatal(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrPrecondition) || errors.Is(err, ErrTracker)
}

func buildDetail(target, operation, message string) string {
	parts := make([]string, 0, 3)
	if target = strings.TrimSpace(target); target != "" {
		parts = append(parts, target)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
