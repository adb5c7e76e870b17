// Package flow provides edge definitions
package flow

// HandleID identifies a typed connection point on a node. Source handles
// are named after the field type they emit; target handles after the slot
// they accept into.
type HandleID string

// Edge represents a typed connection between a source node's output handle
// and a target node's input handle.
type Edge struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	SourceHandle HandleID `json:"source_handle,omitempty"`
	Target       string   `json:"target"`
	TargetHandle HandleID `json:"target_handle,omitempty"`
}

// Validate ensures edge integrity
func (e *Edge) Validate() error {
	if e.Source == "" {
		return ErrInvalidSource
	}
	if e.Target == "" {
		return ErrInvalidTarget
	}
	if e.Source == e.Target {
		return ErrSelfLoop
	}
	return nil
}

// ConnectionRules maps a source handle to the target handles it may
// legally connect to. The table is consulted once at edge-creation time;
// propagation never re-checks it.
type ConnectionRules map[HandleID][]HandleID

// Allows reports whether the rules permit source → target. A handle
// absent from the table is unconstrained, so half-configured graphs stay
// editable.
func (r ConnectionRules) Allows(source, target HandleID) bool {
	if r == nil || source == "" || target == "" {
		return true
	}
	allowed, ok := r[source]
	if !ok {
		return true
	}
	for _, h := range allowed {
		if h == target {
			return true
		}
	}
	return false
}

// DefaultConnectionRules returns the built-in compatibility table between
// typed handles. The canonical table is owned by the hosting product; this
// default mirrors it for standalone use.
func DefaultConnectionRules() ConnectionRules {
	return ConnectionRules{
		"string":  {"string", "object", "array", "main"},
		"number":  {"number", "string", "object", "array", "main"},
		"boolean": {"boolean", "string", "object", "main"},
		"object":  {"object", "array", "main"},
		"array":   {"array", "object", "main"},
		"date":    {"date", "string", "object", "main"},
		"main":    {"main", "object", "array"},
	}
}
