package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNode(id string, kind NodeKind) *Node {
	return &Node{ID: id, Name: "Node " + id, Kind: kind}
}

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr error
	}{
		{
			name:    "valid node",
			node:    testNode("n1", KindFile),
			wantErr: nil,
		},
		{
			name:    "missing id",
			node:    &Node{Name: "x", Kind: KindFile},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "missing name",
			node:    &Node{ID: "n1", Kind: KindFile},
			wantErr: ErrInvalidNodeName,
		},
		{
			name:    "unknown kind",
			node:    &Node{ID: "n1", Name: "x", Kind: NodeKind("webhook")},
			wantErr: ErrInvalidNodeKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNode_MappingConfig(t *testing.T) {
	t.Run("no config", func(t *testing.T) {
		n := testNode("n1", KindStorage)
		_, _, ok := n.MappingConfig()
		assert.False(t, ok)
	})

	t.Run("finds each known key", func(t *testing.T) {
		for _, key := range MappingConfigKeys() {
			n := testNode("n1", KindStorage)
			n.Config = map[string]interface{}{key: map[string]interface{}{"f": "v"}}
			_, foundKey, ok := n.MappingConfig()
			require.True(t, ok, key)
			assert.Equal(t, key, foundKey)
		}
	})

	t.Run("nil value treated as absent", func(t *testing.T) {
		n := testNode("n1", KindStorage)
		n.Config = map[string]interface{}{ConfigMappings: nil}
		_, _, ok := n.MappingConfig()
		assert.False(t, ok)
	})
}

func TestFlow_AddNode(t *testing.T) {
	f := New("f1", "test-flow")

	t.Run("add valid node", func(t *testing.T) {
		node := testNode("n1", KindFile)
		err := f.AddNode(node)
		require.NoError(t, err)
		assert.Equal(t, node, f.Nodes["n1"])
	})

	t.Run("add nil node", func(t *testing.T) {
		assert.ErrorIs(t, f.AddNode(nil), ErrNilNode)
	})

	t.Run("add duplicate node", func(t *testing.T) {
		assert.ErrorIs(t, f.AddNode(testNode("n1", KindStorage)), ErrDuplicateNode)
	})
}

func TestFlow_RemoveNode(t *testing.T) {
	f := New("f1", "test-flow")
	require.NoError(t, f.AddNode(testNode("a", KindFile)))
	require.NoError(t, f.AddNode(testNode("b", KindTransform)))
	require.NoError(t, f.AddNode(testNode("c", KindStorage)))
	require.True(t, f.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b"}))
	require.True(t, f.AddEdge(&Edge{ID: "e2", Source: "b", Target: "c"}))

	t.Run("cascades incident edges", func(t *testing.T) {
		require.NoError(t, f.RemoveNode("b"))
		assert.NotContains(t, f.Nodes, "b")
		assert.Empty(t, f.Edges)
	})

	t.Run("unknown node", func(t *testing.T) {
		assert.ErrorIs(t, f.RemoveNode("missing"), ErrNodeNotFound)
	})
}

func TestFlow_AddEdge(t *testing.T) {
	f := New("f1", "test-flow")
	require.NoError(t, f.AddNode(testNode("a", KindFile)))
	require.NoError(t, f.AddNode(testNode("b", KindStorage)))

	t.Run("valid edge", func(t *testing.T) {
		assert.True(t, f.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b"}))
		assert.Len(t, f.Edges, 1)
	})

	t.Run("duplicate edge rejected", func(t *testing.T) {
		assert.False(t, f.AddEdge(&Edge{ID: "e2", Source: "a", Target: "b"}))
		assert.Len(t, f.Edges, 1)
	})

	t.Run("missing endpoint rejected", func(t *testing.T) {
		assert.False(t, f.AddEdge(&Edge{ID: "e3", Source: "a", Target: "ghost"}))
	})

	t.Run("self loop rejected", func(t *testing.T) {
		assert.False(t, f.AddEdge(&Edge{ID: "e4", Source: "a", Target: "a"}))
	})

	t.Run("incompatible handles rejected", func(t *testing.T) {
		edge := &Edge{ID: "e5", Source: "a", Target: "b", SourceHandle: "object", TargetHandle: "number"}
		assert.False(t, f.AddEdge(edge))
	})

	t.Run("compatible handles accepted", func(t *testing.T) {
		edge := &Edge{ID: "e6", Source: "b", Target: "a", SourceHandle: "number", TargetHandle: "string"}
		assert.True(t, f.AddEdge(edge))
	})
}

func TestFlow_RemoveEdge(t *testing.T) {
	f := New("f1", "test-flow")
	require.NoError(t, f.AddNode(testNode("a", KindFile)))
	require.NoError(t, f.AddNode(testNode("b", KindStorage)))
	require.True(t, f.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b"}))

	assert.ErrorIs(t, f.RemoveEdge("missing"), ErrEdgeNotFound)
	require.NoError(t, f.RemoveEdge("e1"))
	assert.Empty(t, f.Edges)
}

func TestFlow_Neighbors(t *testing.T) {
	f := New("f1", "test-flow")
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, f.AddNode(testNode(id, KindTransform)))
	}
	require.True(t, f.AddEdge(&Edge{ID: "e1", Source: "a", Target: "c"}))
	require.True(t, f.AddEdge(&Edge{ID: "e2", Source: "b", Target: "c"}))
	require.True(t, f.AddEdge(&Edge{ID: "e3", Source: "a", Target: "b"}))

	// Edge-insertion order, not lexical order
	assert.Equal(t, []string{"a", "b"}, f.Upstream("c"))
	assert.Equal(t, []string{"c", "b"}, f.Downstream("a"))
	assert.Nil(t, f.Upstream("a"))
}

func TestFlow_Clone(t *testing.T) {
	f := New("f1", "test-flow")
	node := testNode("a", KindFile)
	node.Config = map[string]interface{}{"detected_schema": []interface{}{}}
	require.NoError(t, f.AddNode(node))
	require.NoError(t, f.AddNode(testNode("b", KindStorage)))
	require.True(t, f.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b"}))

	c := f.Clone()
	c.Nodes["a"].Config["detected_schema"] = "changed"
	c.Edges[0].Target = "changed"

	assert.Equal(t, []interface{}{}, f.Nodes["a"].Config["detected_schema"])
	assert.Equal(t, "b", f.Edges[0].Target)
}

func TestFlow_Validate(t *testing.T) {
	t.Run("dangling edge source", func(t *testing.T) {
		f := New("f1", "test-flow")
		require.NoError(t, f.AddNode(testNode("b", KindStorage)))
		f.Edges = append(f.Edges, &Edge{ID: "e1", Source: "ghost", Target: "b"})
		assert.ErrorIs(t, f.Validate(), ErrSourceNodeNotFound)
	})

	t.Run("missing flow name", func(t *testing.T) {
		f := New("f1", "")
		assert.ErrorIs(t, f.Validate(), ErrInvalidFlowName)
	})
}

func TestConnectionRules_Allows(t *testing.T) {
	rules := DefaultConnectionRules()

	tests := []struct {
		name   string
		source HandleID
		target HandleID
		want   bool
	}{
		{"string to string", "string", "string", true},
		{"string to number", "string", "number", false},
		{"number to string widens", "number", "string", true},
		{"anything to main", "date", "main", true},
		{"unknown source handle unconstrained", "geo", "number", true},
		{"empty handles unconstrained", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Allows(tt.source, tt.target))
		})
	}

	t.Run("nil rules allow everything", func(t *testing.T) {
		assert.True(t, ConnectionRules(nil).Allows("object", "number"))
	})
}
