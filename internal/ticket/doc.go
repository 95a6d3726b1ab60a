// Package ticket turns the tracker's untyped property bag into a validated,
// strongly-typed ticket view.
//
// Resolve runs once per orchestration run, eagerly: every required key is
// checked up front so a malformed ticket fails before any external side
// effect. The typed Ticket is read-only with respect to its source fields;
// derived values (recording ids, published URLs) accumulate through
// AddOverride and flow back to the tracker via ToRawOverrides. The raw
// mapping never escapes this package.
//
// Booleans in the tracker are the literal strings "yes" or "1"; absence is
// distinct from "no". Language codes are canonicalized to their 3-letter
// form through internal/language and unknown codes fail validation.
package ticket
