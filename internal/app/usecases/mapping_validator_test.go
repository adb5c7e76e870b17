package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
	"github.com/schemaflow/schemaflow/internal/core/schema"
)

func inputOf(names ...string) schema.Schema {
	out := make(schema.Schema, len(names))
	for i, name := range names {
		out[i] = schema.Field{Name: name, Type: schema.TypeString}
	}
	return out
}

func TestPruneSet(t *testing.T) {
	input := inputOf("email", "first", "last", "tags")

	tests := []struct {
		name        string
		set         mapping.Set
		wantKept    []string
		wantDropped []string
	}{
		{
			name: "all valid survives untouched",
			set: mapping.Set{
				"contact": mapping.Direct("email"),
				"name":    mapping.Concatenate("first", "last", " "),
				"origin":  mapping.Constant("import"),
				"parts":   mapping.Split("tags", ","),
				"label":   mapping.Expression(`"${row.first} <${row.email}>"`),
			},
			wantKept: []string{"contact", "label", "name", "origin", "parts"},
		},
		{
			name: "direct with missing source dropped",
			set: mapping.Set{
				"contact": mapping.Direct("phone"),
				"origin":  mapping.Constant("import"),
			},
			wantKept:    []string{"origin"},
			wantDropped: []string{"contact"},
		},
		{
			name: "concatenate requires both sources",
			set: mapping.Set{
				"name": mapping.Concatenate("first", "middle", " "),
			},
			wantDropped: []string{"name"},
		},
		{
			name: "split requires its source",
			set: mapping.Set{
				"parts": mapping.Split("labels", ","),
			},
			wantDropped: []string{"parts"},
		},
		{
			name: "expression is all or nothing",
			set: mapping.Set{
				"label": mapping.Expression(`"${row.first} ${row.phone}"`),
			},
			wantDropped: []string{"label"},
		},
		{
			name: "constant survives any schema",
			set: mapping.Set{
				"origin": mapping.Constant("import"),
			},
			wantKept: []string{"origin"},
		},
		{
			name: "malformed expression dropped",
			set: mapping.Set{
				"label": mapping.Expression("row."),
			},
			wantDropped: []string{"label"},
		},
		{
			name: "dropped fields reported sorted",
			set: mapping.Set{
				"z": mapping.Direct("missing1"),
				"a": mapping.Direct("missing2"),
			},
			wantDropped: []string{"a", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruned, dropped := PruneSet(tt.set, input)
			assert.Equal(t, tt.wantKept, pruned.TargetFields())
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}

	t.Run("multi direct narrows to present sources", func(t *testing.T) {
		set := mapping.Set{"bundle": mapping.DirectMulti("email", "phone", "first")}
		pruned, dropped := PruneSet(set, input)
		require.Empty(t, dropped)
		assert.Equal(t, []string{"email", "first"}, pruned["bundle"].Sources)
	})

	t.Run("multi direct with nothing left is dropped", func(t *testing.T) {
		set := mapping.Set{"bundle": mapping.DirectMulti("phone", "fax")}
		pruned, dropped := PruneSet(set, input)
		assert.Empty(t, pruned)
		assert.Equal(t, []string{"bundle"}, dropped)
	})

	t.Run("empty set passes through", func(t *testing.T) {
		pruned, dropped := PruneSet(nil, input)
		assert.Nil(t, pruned)
		assert.Nil(t, dropped)
	})

	t.Run("original set is not mutated", func(t *testing.T) {
		set := mapping.Set{"contact": mapping.Direct("phone")}
		PruneSet(set, input)
		assert.Contains(t, set, "contact")
	})
}

func TestPruneFlow(t *testing.T) {
	buildFlow := func() *flow.Flow {
		f := flow.New("f1", "prune")
		require.NoError(t, f.AddNode(fileNode("src", "email", "first")))
		sink := plainNode("sink", flow.KindStorage)
		sink.Config = map[string]interface{}{
			"storage_mappings": mapping.Set{
				"contact": mapping.Direct("email"),
				"name":    mapping.Direct("first"),
			},
		}
		require.NoError(t, f.AddNode(sink))
		require.True(t, f.AddEdge(&flow.Edge{ID: "e1", Source: "src", Target: "sink"}))
		return f
	}

	t.Run("valid mappings untouched", func(t *testing.T) {
		f := buildFlow()
		result := Propagate(f, DefaultResolvers())
		issues := PruneFlow(f, result.Schemas)
		assert.Empty(t, issues)

		set, err := mapping.DecodeSet(f.Nodes["sink"].Config["storage_mappings"])
		require.NoError(t, err)
		assert.Equal(t, []string{"contact", "name"}, set.TargetFields())
	})

	t.Run("stale rules pruned after source narrows", func(t *testing.T) {
		f := buildFlow()
		f.Nodes["src"].Config["detected_schema"] = []interface{}{
			map[string]interface{}{"name": "email", "type": "string"},
		}
		result := Propagate(f, DefaultResolvers())
		issues := PruneFlow(f, result.Schemas)

		require.Len(t, issues, 1)
		assert.Equal(t, "sink", issues[0].NodeID)
		assert.Equal(t, dto.IssueMappingPruned, issues[0].Code)

		set, err := mapping.DecodeSet(f.Nodes["sink"].Config["storage_mappings"])
		require.NoError(t, err)
		assert.Equal(t, []string{"contact"}, set.TargetFields())
	})

	t.Run("removing the sole producing edge prunes everything", func(t *testing.T) {
		f := buildFlow()
		require.NoError(t, f.RemoveEdge("e1"))
		result := Propagate(f, DefaultResolvers())
		issues := PruneFlow(f, result.Schemas)

		assert.Len(t, issues, 2)
		set, err := mapping.DecodeSet(f.Nodes["sink"].Config["storage_mappings"])
		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("narrowed multi-source rule is written back", func(t *testing.T) {
		f := flow.New("f1", "narrow")
		require.NoError(t, f.AddNode(fileNode("src", "email")))
		sink := plainNode("sink", flow.KindStorage)
		sink.Config = map[string]interface{}{
			"storage_mappings": mapping.Set{
				"bundle": mapping.DirectMulti("email", "phone"),
			},
		}
		require.NoError(t, f.AddNode(sink))
		require.True(t, f.AddEdge(&flow.Edge{ID: "e1", Source: "src", Target: "sink"}))

		result := Propagate(f, DefaultResolvers())
		issues := PruneFlow(f, result.Schemas)
		// Narrowing keeps the target field, so no prune issue is raised.
		assert.Empty(t, issues)

		set, err := mapping.DecodeSet(f.Nodes["sink"].Config["storage_mappings"])
		require.NoError(t, err)
		assert.Equal(t, []string{"email"}, set["bundle"].Sources)
	})

	t.Run("nodes without mappings are skipped", func(t *testing.T) {
		f := flow.New("f1", "bare")
		require.NoError(t, f.AddNode(fileNode("src", "email")))
		result := Propagate(f, DefaultResolvers())
		assert.Empty(t, PruneFlow(f, result.Schemas))
	})
}
