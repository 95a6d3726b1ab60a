// Package services defines shared utilities consumed by the publish
// orchestrator and the external target integrations.
//
// Key responsibilities:
//   - Context helpers that stamp ticket IDs, target names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's taxonomy (validation, precondition, target,
//     tracker) without exceptions crossing component boundaries.
//
// Use these helpers when wiring new target logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
