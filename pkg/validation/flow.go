package validation

import (
	"fmt"

	coreflow "github.com/schemaflow/schemaflow/internal/core/flow"
)

// FlowValidationOptions controls optional validation checks.
type FlowValidationOptions struct {
	// CheckConnections re-checks every edge against the flow's
	// connection rules, for flows assembled outside the graph model's
	// AddEdge gate.
	CheckConnections bool
}

// ValidateCoreFlow performs structural validation on the core flow
// entity. It is intended for flows loaded from external sources where
// in-method guards (AddNode/AddEdge) may have been bypassed. Cycles are
// deliberately not an error here: the propagation engine resolves what
// it can and reports the rest as issues.
func ValidateCoreFlow(f *coreflow.Flow, opts ...FlowValidationOptions) error {
	if f == nil {
		return fmt.Errorf("flow is nil")
	}

	if err := f.Validate(); err != nil {
		return err
	}

	// Track seen edges to detect duplicates
	type edgeKey struct{ s, sh, t, th string }
	seen := make(map[edgeKey]struct{})

	var checkConnections bool
	for _, o := range opts {
		checkConnections = checkConnections || o.CheckConnections
	}

	for _, e := range f.Edges {
		k := edgeKey{e.Source, string(e.SourceHandle), e.Target, string(e.TargetHandle)}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate edge %s -> %s", e.Source, e.Target)
		}
		seen[k] = struct{}{}

		if checkConnections && !f.IsValidConnection(e) {
			return fmt.Errorf("illegal connection %s(%s) -> %s(%s)",
				e.Source, e.SourceHandle, e.Target, e.TargetHandle)
		}
	}
	return nil
}
