// Package dto defines the data-transfer records exchanged between the
// engine and its hosts.
package dto

import (
	"fmt"

	"github.com/schemaflow/schemaflow/internal/core/schema"
)

// IssueCode classifies a non-fatal engine diagnostic. Nothing in this
// taxonomy aborts the hosting process; every failure degrades to fewer
// computed fields plus a visible, recoverable signal.
type IssueCode string

const (
	// IssueSchemaResolution marks nodes left unresolved by propagation,
	// typically because they sit on a residual cycle.
	IssueSchemaResolution IssueCode = "schema_resolution"
	// IssueUnknownNodeKind marks nodes whose kind has no registered
	// resolver; their output schema is left empty.
	IssueUnknownNodeKind IssueCode = "unknown_node_kind"
	// IssueMappingPruned marks mapping rules dropped because a referenced
	// field left the node's input schema; the target field reverts to
	// unmapped.
	IssueMappingPruned IssueCode = "mapping_pruned"
)

// Issue is one diagnostic attached to a propagation or validation pass.
type Issue struct {
	NodeID  string    `json:"node_id"`
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.NodeID, i.Code, i.Message)
}

// PropagationResult is the complete outcome of one propagation pass: a
// wholesale-rebuilt schema map plus any diagnostics. Results are replaced
// atomically by the store, never mutated in place.
type PropagationResult struct {
	Schemas schema.Map `json:"schemas"`
	Issues  []Issue    `json:"issues,omitempty"`
}

// HasIssues reports whether the pass produced any diagnostics.
func (r *PropagationResult) HasIssues() bool {
	return r != nil && len(r.Issues) > 0
}

// IssuesFor returns the diagnostics recorded for one node.
func (r *PropagationResult) IssuesFor(nodeID string) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, issue := range r.Issues {
		if issue.NodeID == nodeID {
			out = append(out, issue)
		}
	}
	return out
}
