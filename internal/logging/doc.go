// Package logging centralizes slog logger construction for the worker.
//
// It supplies console and JSON handlers, attribute helper aliases, and
// context-derived fields (ticket id, target, correlation id) so every
// component logs with the same shape. Construct loggers through New or
// NewFromConfig; never reach for slog.Default.
package logging
