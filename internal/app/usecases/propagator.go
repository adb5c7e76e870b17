package usecases

import (
	"fmt"
	"sort"

	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/schema"
)

// Propagate runs one schema-inference pass over the flow: a topological
// walk (Kahn's algorithm on indegree) that assigns every node an input
// schema merged from its upstream neighbors' outputs and an output schema
// from its kind's resolver.
//
// Propagate is a pure function of the flow and the table. The schema map
// is rebuilt wholesale, so re-running on an unchanged graph yields an
// identical result. Nodes left on a residual cycle get empty schemas and
// a schema_resolution issue; the pass terminates regardless of graph
// shape.
func Propagate(f *flow.Flow, table ResolverTable) *dto.PropagationResult {
	result := &dto.PropagationResult{Schemas: make(schema.Map)}
	if f == nil || len(f.Nodes) == 0 {
		return result
	}

	indegree := make(map[string]int, len(f.Nodes))
	for id := range f.Nodes {
		indegree[id] = 0
	}
	for _, e := range f.Edges {
		indegree[e.Target]++
	}

	// Seed with source nodes, sorted so issue ordering is stable.
	var queue []string
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	processed := make(map[string]struct{}, len(f.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node := f.Nodes[id]
		processed[id] = struct{}{}

		upstream := make([]schema.Schema, 0)
		for _, sourceID := range f.Upstream(id) {
			upstream = append(upstream, result.Schemas[sourceID].Output)
		}
		input := InputSchema(node, schema.Merge(upstream...))

		output, known := table.Resolve(node.Kind, input, node.Config)
		if !known {
			result.Issues = append(result.Issues, dto.Issue{
				NodeID:  id,
				Code:    dto.IssueUnknownNodeKind,
				Message: fmt.Sprintf("no resolver registered for kind %q", node.Kind),
			})
		}
		result.Schemas[id] = schema.NodeSchema{Input: input, Output: output}

		for _, targetID := range f.Downstream(id) {
			indegree[targetID]--
			if indegree[targetID] == 0 {
				queue = append(queue, targetID)
			}
		}
	}

	// Whatever Kahn could not consume sits on a cycle. Leave those nodes
	// with empty schemas and surface a non-fatal issue; the graph stays
	// editable.
	if len(processed) < len(f.Nodes) {
		var unresolved []string
		for id := range f.Nodes {
			if _, ok := processed[id]; !ok {
				unresolved = append(unresolved, id)
			}
		}
		sort.Strings(unresolved)
		for _, id := range unresolved {
			result.Schemas[id] = schema.NodeSchema{}
			result.Issues = append(result.Issues, dto.Issue{
				NodeID:  id,
				Code:    dto.IssueSchemaResolution,
				Message: "node is part of a cycle and cannot be resolved",
			})
		}
	}

	return result
}
