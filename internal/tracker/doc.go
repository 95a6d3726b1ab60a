// Package tracker talks to the release ticket tracker.
//
// The Client interface is the only surface the orchestrator sees: claim the
// next ticket, fetch its string property bag, write derived properties back,
// and report the terminal done/failed state. The HTTP implementation signs
// every request with the worker token and secret; its wire format is an
// implementation detail that never leaks past this package.
//
// Tracker properties are a flat string-to-string mapping. Dotted key
// namespaces ("Fahrplan.Title") are convention only and lookups are
// case-insensitive, which RawProperties encapsulates.
package tracker
