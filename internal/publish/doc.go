// Package publish drives a claimed ticket through the enabled release
// targets to a single terminal tracker report. Targets run sequentially in a
// fixed order because later ones consume derived properties written by
// earlier ones; one target's failure never stops its siblings.
package publish
