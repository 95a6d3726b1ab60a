package tracker

import (
	"sort"
	"strings"
)

// RawProperties is the untyped property bag attached to a ticket. Keys are
// dotted by convention and compared case-insensitively. The bag is supplied
// once per ticket and treated as immutable input; derived values are written
// back through SetProperties, never into this map.
type RawProperties map[string]string

// Get returns the value for key using case-insensitive lookup. The second
// return reports whether the key was present at all, regardless of value.
func (p RawProperties) Get(key string) (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	if value, ok := p[key]; ok {
		return value, true
	}
	for k, v := range p {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// Keys returns all property keys in sorted order.
func (p RawProperties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy so callers can hold the bag without aliasing
// the fetch result.
func (p RawProperties) Clone() RawProperties {
	if p == nil {
		return nil
	}
	cp := make(RawProperties, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}
