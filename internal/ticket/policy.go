package ticket

import (
	"fmt"
	"strings"
)

// UpdatePolicy governs target behaviour when an idempotency marker already
// exists for a ticket.
type UpdatePolicy int

const (
	// UpdateDefault skips the re-publish for single-language tickets and
	// fails fast when more languages would make the skip ambiguous.
	UpdateDefault UpdatePolicy = iota
	// UpdateForce republishes unconditionally.
	UpdateForce
	// UpdateIgnore skips silently and reports success.
	UpdateIgnore
)

// ParseUpdatePolicy decodes the tracker's string form. The empty string is
// the default policy; anything else unknown is an error.
func ParseUpdatePolicy(value string) (UpdatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return UpdateDefault, nil
	case "force":
		return UpdateForce, nil
	case "ignore":
		return UpdateIgnore, nil
	default:
		return UpdateDefault, fmt.Errorf("unknown update policy %q", value)
	}
}

func (p UpdatePolicy) String() string {
	switch p {
	case UpdateForce:
		return "force"
	case UpdateIgnore:
		return "ignore"
	default:
		return "default"
	}
}
