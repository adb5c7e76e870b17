package mapping

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Set maps a target output-field name to the rule that computes it. A
// set is owned by one node's config and persisted inside it.
type Set map[string]Rule

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for field, rule := range s {
		if rule.Sources != nil {
			sources := make([]string, len(rule.Sources))
			copy(sources, rule.Sources)
			rule.Sources = sources
		}
		out[field] = rule
	}
	return out
}

// Equal reports whether both sets map the same target fields to equal
// rules.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for field, rule := range s {
		o, ok := other[field]
		if !ok || !rule.Equal(o) {
			return false
		}
	}
	return true
}

// TargetFields returns the mapped output-field names, sorted.
func (s Set) TargetFields() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for field := range s {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Validate checks every rule structurally.
func (s Set) Validate() error {
	for field, rule := range s {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("mapping for %q: %w", field, err)
		}
	}
	return nil
}

// DecodeSet reads a mapping set out of an opaque node-config value, as
// found under a node's mappings key after JSON or msgpack decoding.
// Unrecognized entries are skipped rather than failing the whole set,
// because configs pass through many transient states while edited.
func DecodeSet(raw interface{}) (Set, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(Set); ok {
		return s.Clone(), nil
	}
	// Round-trip through JSON: the config value is arbitrary decoded
	// document data and this keeps the fiddly coercions in one place.
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSet, err)
	}
	var out Set
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSet, err)
	}
	for field, rule := range out {
		if !rule.Kind.IsValid() {
			delete(out, field)
		}
	}
	return out, nil
}
