// Package validation provides model definitions with validation tags
package validation

import (
	"time"
)

// FieldDocument is one schema field as it appears inside a persisted
// node config (detected_schema, output_schema, body_parameters, ...).
type FieldDocument struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Type        string `json:"type" validate:"required,field_type"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// NodeDocument represents a persisted flow node with validation
// PRINCIPLES:
// - Single Responsibility: Node document shape only
// - Validation: Comprehensive validation tags
type NodeDocument struct {
	ID        string                 `json:"id" validate:"required,node_id"`
	Kind      string                 `json:"kind" validate:"required,node_kind"`
	Name      string                 `json:"name" validate:"required,min=1,max=200"`
	Config    map[string]interface{} `json:"config,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// EdgeDocument represents a persisted flow edge with validation
type EdgeDocument struct {
	ID           string `json:"id" validate:"required,node_id"`
	Source       string `json:"source" validate:"required,node_id"`
	SourceHandle string `json:"source_handle,omitempty" validate:"omitempty,max=100"`
	Target       string `json:"target" validate:"required,node_id,nefield=Source"`
	TargetHandle string `json:"target_handle,omitempty" validate:"omitempty,max=100"`
}

// MappingRuleDocument is one persisted mapping rule. Kind-specific
// requirements beyond tags are enforced by ValidateFlowDocument.
type MappingRuleDocument struct {
	Kind      string   `json:"type" validate:"required,rule_kind"`
	Source    string   `json:"source,omitempty"`
	Sources   []string `json:"sources,omitempty" validate:"omitempty,dive,min=1"`
	Value     string   `json:"value,omitempty"`
	Expr      string   `json:"expression,omitempty"`
	Separator string   `json:"separator,omitempty"`
	SplitOn   string   `json:"split_on,omitempty"`
}

// FlowDocument represents a complete persisted flow: the `{nodes, edges}`
// wire format flows are saved in.
type FlowDocument struct {
	ID        string         `json:"id" validate:"required,min=1,max=200"`
	Name      string         `json:"name" validate:"required,min=1,max=200"`
	Nodes     []NodeDocument `json:"nodes" validate:"required,min=1,dive,required"`
	Edges     []EdgeDocument `json:"edges" validate:"dive,required"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Validate implements cross-field validation for FlowDocument: node ID
// uniqueness and edge endpoint resolution.
func (fd *FlowDocument) Validate() error {
	var errs ValidationErrors

	nodeIDs := make(map[string]bool)
	for _, node := range fd.Nodes {
		if nodeIDs[node.ID] {
			errs = append(errs, ValidationError{
				Field:   "nodes",
				Value:   node.ID,
				Message: "duplicate node ID",
			})
		}
		nodeIDs[node.ID] = true
	}

	for _, edge := range fd.Edges {
		if !nodeIDs[edge.Source] {
			errs = append(errs, ValidationError{
				Field:   "edges",
				Value:   edge.Source,
				Message: "edge source references unknown node",
			})
		}
		if !nodeIDs[edge.Target] {
			errs = append(errs, ValidationError{
				Field:   "edges",
				Value:   edge.Target,
				Message: "edge target references unknown node",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
