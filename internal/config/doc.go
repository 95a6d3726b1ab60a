// Package config loads, normalizes, and validates lectern configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LECTERN_TRACKER_TOKEN. The Config type centralizes every knob the worker
// and CLI need: tracker credentials, per-target credentials, worker mode,
// and event-wide default ticket properties.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
