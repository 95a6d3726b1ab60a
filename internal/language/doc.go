// Package language provides unified language code normalization and mapping.
//
// The tracker hands out ISO 639-1 (2-letter) codes while the publish targets
// expect ISO 639-2 (3-letter) codes; all conversions between the two, plus
// display names for announcement text, are consolidated here. The table is
// fixed and closed: unknown codes are rejected rather than passed through,
// so a typo in a ticket fails validation instead of producing a misnamed
// published file.
package language
