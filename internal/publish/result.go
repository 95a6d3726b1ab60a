package publish

import (
	"sort"
	"strings"
	"time"
)

// State classifies the outcome of one publish unit.
type State int

const (
	// StateSkipped means the unit was intentionally not attempted, usually
	// because an idempotency marker showed it was published before.
	StateSkipped State = iota
	// StateSucceeded means the unit completed and its derived properties
	// were persisted.
	StateSucceeded
	// StateFailed means the unit failed; siblings still ran.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Unit reports one publish unit: a whole target, or a single language within
// a target.
type Unit struct {
	Target   string
	Language string
	State    State
	// Detail carries the skip reason or the failure message.
	Detail string
	URL    string
}

// Report aggregates everything one ticket run produced.
type Report struct {
	TicketID int64
	Units    []Unit
	Duration time.Duration
}

// Failed reports whether any unit failed.
func (r *Report) Failed() bool {
	for _, unit := range r.Units {
		if unit.State == StateFailed {
			return true
		}
	}
	return false
}

// FailureMessage joins all failure details sorted and deduplicated so the
// operator sees every independent failure, not just the first.
func (r *Report) FailureMessage() string {
	seen := make(map[string]struct{})
	var messages []string
	for _, unit := range r.Units {
		if unit.State != StateFailed {
			continue
		}
		msg := unit.Detail
		if msg == "" {
			msg = unit.Target + " failed"
		}
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		messages = append(messages, msg)
	}
	sort.Strings(messages)
	return strings.Join(messages, "\n")
}
