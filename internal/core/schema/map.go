package schema

// NodeSchema pairs the propagated input and output schemas of one node.
type NodeSchema struct {
	Input  Schema `json:"input"`
	Output Schema `json:"output"`
}

// Equal reports whether both sides match field-for-field.
func (n NodeSchema) Equal(other NodeSchema) bool {
	return n.Input.Equal(other.Input) && n.Output.Equal(other.Output)
}

// Map holds the propagated schemas for every node in a flow, keyed by
// node ID. A Map is derived state: it is rebuilt wholesale by each
// propagation pass and never mutated incrementally.
type Map map[string]NodeSchema

// Clone returns an independent copy of the map.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for id, ns := range m {
		out[id] = NodeSchema{Input: ns.Input.Clone(), Output: ns.Output.Clone()}
	}
	return out
}

// Equal reports whether two maps contain identical schemas for identical
// node IDs. Used to assert propagation idempotence.
func (m Map) Equal(other Map) bool {
	if len(m) != len(other) {
		return false
	}
	for id, ns := range m {
		o, ok := other[id]
		if !ok || !ns.Equal(o) {
			return false
		}
	}
	return true
}

// Input returns the input schema recorded for a node, or nil.
func (m Map) Input(nodeID string) Schema {
	return m[nodeID].Input
}

// Output returns the output schema recorded for a node, or nil.
func (m Map) Output(nodeID string) Schema {
	return m[nodeID].Output
}
