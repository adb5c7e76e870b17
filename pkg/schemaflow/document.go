package schemaflow

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/pkg/validation"
)

// ToDocument converts a live flow into its persisted `{nodes, edges}`
// wire form. Nodes are emitted oldest-first so documents are stable
// across saves.
func ToDocument(f *flow.Flow) *validation.FlowDocument {
	doc := &validation.FlowDocument{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	ids := make([]string, 0, len(f.Nodes))
	for id := range f.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := f.Nodes[ids[i]], f.Nodes[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	for _, id := range ids {
		n := f.Nodes[id]
		doc.Nodes = append(doc.Nodes, validation.NodeDocument{
			ID:        n.ID,
			Kind:      string(n.Kind),
			Name:      n.Name,
			Config:    n.Config,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	for _, e := range f.Edges {
		doc.Edges = append(doc.Edges, validation.EdgeDocument{
			ID:           e.ID,
			Source:       e.Source,
			SourceHandle: string(e.SourceHandle),
			Target:       e.Target,
			TargetHandle: string(e.TargetHandle),
		})
	}
	return doc
}

// FromDocument rebuilds a live flow from its persisted form. The
// document is assumed validated; see ParseFlow for the load path.
func FromDocument(doc *validation.FlowDocument) *flow.Flow {
	f := &flow.Flow{
		ID:        doc.ID,
		Name:      doc.Name,
		Nodes:     make(map[string]*flow.Node, len(doc.Nodes)),
		Rules:     flow.DefaultConnectionRules(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, nd := range doc.Nodes {
		f.Nodes[nd.ID] = &flow.Node{
			ID:        nd.ID,
			Kind:      flow.NodeKind(nd.Kind),
			Name:      nd.Name,
			Config:    nd.Config,
			CreatedAt: nd.CreatedAt,
			UpdatedAt: nd.UpdatedAt,
		}
	}
	for _, ed := range doc.Edges {
		f.Edges = append(f.Edges, &flow.Edge{
			ID:           ed.ID,
			Source:       ed.Source,
			SourceHandle: flow.HandleID(ed.SourceHandle),
			Target:       ed.Target,
			TargetHandle: flow.HandleID(ed.TargetHandle),
		})
	}
	return f
}

// ParseFlow decodes and validates a persisted flow document. Malformed
// documents fail the load; that is the persistence boundary where hard
// failure is correct.
func ParseFlow(data []byte) (*flow.Flow, error) {
	var doc validation.FlowDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed flow document: %w", err)
	}
	if err := validation.ValidateFlowDocument(&doc); err != nil {
		return nil, fmt.Errorf("invalid flow document: %w", err)
	}
	return FromDocument(&doc), nil
}

// EncodeFlow serializes a flow to its persisted JSON form.
func EncodeFlow(f *flow.Flow) ([]byte, error) {
	return json.MarshalIndent(ToDocument(f), "", "  ")
}
