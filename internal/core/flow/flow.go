// Package flow provides the core flow-graph entity and its mutation
// operations.
package flow

import (
	"time"
)

// Flow represents a user-edited pipeline graph. It serializes to the
// persistence format `{nodes, edges}`; mapping sets live inside each
// node's config.
// PRINCIPLES:
// - KISS: Simple struct, no complex hierarchies
// - SRP: Only responsible for graph structure, not schema derivation
type Flow struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Nodes     map[string]*Node `json:"nodes"`
	Edges     []*Edge          `json:"edges"`
	Rules     ConnectionRules  `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// New creates an empty flow using the default connection rules.
func New(id, name string) *Flow {
	return &Flow{
		ID:        id,
		Name:      name,
		Nodes:     make(map[string]*Node),
		Rules:     DefaultConnectionRules(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Validate ensures basic flow integrity.
func (f *Flow) Validate() error {
	if f.Name == "" {
		return ErrInvalidFlowName
	}
	for _, n := range f.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	for _, e := range f.Edges {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, ok := f.Nodes[e.Source]; !ok {
			return ErrSourceNodeNotFound
		}
		if _, ok := f.Nodes[e.Target]; !ok {
			return ErrTargetNodeNotFound
		}
	}
	return nil
}

// AddNode adds a node to the flow.
func (f *Flow) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if err := node.Validate(); err != nil {
		return err
	}
	if f.Nodes == nil {
		f.Nodes = make(map[string]*Node)
	}
	if _, exists := f.Nodes[node.ID]; exists {
		return ErrDuplicateNode
	}
	f.Nodes[node.ID] = node
	f.UpdatedAt = time.Now()
	return nil
}

// RemoveNode removes a node and cascades removal of its incident edges.
func (f *Flow) RemoveNode(id string) error {
	if _, exists := f.Nodes[id]; !exists {
		return ErrNodeNotFound
	}
	delete(f.Nodes, id)
	kept := f.Edges[:0]
	for _, e := range f.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	f.Edges = kept
	f.UpdatedAt = time.Now()
	return nil
}

// IsValidConnection reports whether the candidate edge may legally form:
// both endpoints must exist and the handle pair must be permitted by the
// connection rules. Cycles are not checked here; they are a propagation
// concern.
func (f *Flow) IsValidConnection(edge *Edge) bool {
	if edge == nil || edge.Validate() != nil {
		return false
	}
	if _, ok := f.Nodes[edge.Source]; !ok {
		return false
	}
	if _, ok := f.Nodes[edge.Target]; !ok {
		return false
	}
	rules := f.Rules
	if rules == nil {
		rules = DefaultConnectionRules()
	}
	return rules.Allows(edge.SourceHandle, edge.TargetHandle)
}

// AddEdge adds an edge to the flow, gated by IsValidConnection. It
// returns true when the edge was accepted.
func (f *Flow) AddEdge(edge *Edge) bool {
	if !f.IsValidConnection(edge) {
		return false
	}
	for _, e := range f.Edges {
		if e.Source == edge.Source && e.Target == edge.Target &&
			e.SourceHandle == edge.SourceHandle && e.TargetHandle == edge.TargetHandle {
			return false
		}
	}
	f.Edges = append(f.Edges, edge)
	f.UpdatedAt = time.Now()
	return true
}

// RemoveEdge removes an edge by ID.
func (f *Flow) RemoveEdge(id string) error {
	for i, e := range f.Edges {
		if e.ID == id {
			f.Edges = append(f.Edges[:i], f.Edges[i+1:]...)
			f.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrEdgeNotFound
}

// Upstream returns the source node IDs of every edge targeting nodeID, in
// edge-insertion order. Order matters: schema merging lets later-connected
// upstreams win on field-name collisions.
func (f *Flow) Upstream(nodeID string) []string {
	var out []string
	for _, e := range f.Edges {
		if e.Target == nodeID {
			out = append(out, e.Source)
		}
	}
	return out
}

// Downstream returns the target node IDs of every edge sourced at nodeID,
// in edge-insertion order.
func (f *Flow) Downstream(nodeID string) []string {
	var out []string
	for _, e := range f.Edges {
		if e.Source == nodeID {
			out = append(out, e.Target)
		}
	}
	return out
}

// Clone returns a deep copy of the flow. Node configs are copied one
// level deep, which is enough to keep two snapshots from sharing mapping
// sub-records after a store mutation.
func (f *Flow) Clone() *Flow {
	if f == nil {
		return nil
	}
	out := &Flow{
		ID:        f.ID,
		Name:      f.Name,
		Nodes:     make(map[string]*Node, len(f.Nodes)),
		Edges:     make([]*Edge, len(f.Edges)),
		Rules:     f.Rules,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	for id, n := range f.Nodes {
		copied := *n
		if n.Config != nil {
			copied.Config = make(map[string]interface{}, len(n.Config))
			for k, v := range n.Config {
				copied.Config[k] = v
			}
		}
		out.Nodes[id] = &copied
	}
	for i, e := range f.Edges {
		copied := *e
		out.Edges[i] = &copied
	}
	return out
}
