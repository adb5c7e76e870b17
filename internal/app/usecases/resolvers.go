package usecases

import (
	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/schema"
)

// Resolver derives a node's output schema from its propagated input
// schema and its opaque configuration. Resolvers must be total: unknown
// or half-finished configuration yields an empty schema, never an error,
// because graphs pass through many transient states while being edited.
type Resolver func(input schema.Schema, config map[string]interface{}) schema.Schema

// ResolverTable dispatches per node kind. Adding a kind means adding one
// table entry.
// PRINCIPLES:
// - OCP: Open for extension with new node kinds
// - DIP: The propagator depends on the table, not on kind switches
type ResolverTable map[flow.NodeKind]Resolver

// Config keys holding collaborator-supplied schema overrides. When
// present and decodable these are authoritative for the node's output.
const (
	cfgOutputSchema   = "output_schema"
	cfgDetectedSchema = "detected_schema"
	cfgDatabaseSchema = "database_schema"
	cfgGraphSchema    = "graph_schema"
	cfgBodyParameters = "body_parameters"
	cfgPayloadSchema  = "payload_schema"
	cfgScript         = "script"
	cfgSelectedScript = "selected_script"
	cfgSDKFunction    = "function"
)

// DefaultResolvers returns the resolver table covering every known node
// kind.
func DefaultResolvers() ResolverTable {
	return ResolverTable{
		flow.KindFile:          resolveFile,
		flow.KindStorage:       resolveStorage,
		flow.KindTransform:     resolveTransform,
		flow.KindAPI:           resolveAPI,
		flow.KindAnalytics:     resolveExecutionResult,
		flow.KindAITools:       resolveExecutionResult,
		flow.KindVisualPreview: resolveVisualPreview,
		flow.KindPlugins:       resolvePlugins,
		flow.KindFlowTrigger:   resolveFlowTrigger,
	}
}

// Resolve dispatches to the table entry for the node's kind. The second
// return value is false when no resolver is registered; the caller
// records an unknown-kind issue and uses an empty schema.
func (t ResolverTable) Resolve(kind flow.NodeKind, input schema.Schema, config map[string]interface{}) (schema.Schema, bool) {
	resolver, ok := t[kind]
	if !ok {
		return nil, false
	}
	return resolver(input, config), true
}

// InputSchema computes a node's input schema from the merged outputs of
// its upstream neighbors. API nodes are the one special case: their
// baseline input is the generated request-body parameter list from the
// connection's OpenAPI document, overridden by whatever upstream fields
// are attached for mapping.
func InputSchema(node *flow.Node, upstream schema.Schema) schema.Schema {
	if node.Kind == flow.KindAPI {
		body := configSchema(node.Config, cfgBodyParameters)
		return schema.Merge(body, upstream)
	}
	return upstream
}

// resolveFile returns the file's detected schema, supplied by the file
// inspection collaborator at configuration time.
func resolveFile(_ schema.Schema, config map[string]interface{}) schema.Schema {
	return configSchema(config, cfgDetectedSchema, cfgOutputSchema)
}

// resolveStorage returns the configured database or graph schema.
func resolveStorage(_ schema.Schema, config map[string]interface{}) schema.Schema {
	return configSchema(config, cfgDatabaseSchema, cfgGraphSchema, cfgOutputSchema)
}

// resolveTransform returns the schema the script-introspection
// collaborator extracted from the selected script's parameters. Without a
// selected script, or when introspection produced nothing, the transform
// is an identity passthrough so an unconfigured node does not appear to
// erase all downstream fields.
func resolveTransform(input schema.Schema, config map[string]interface{}) schema.Schema {
	if configString(config, cfgScript) == "" && configString(config, cfgSelectedScript) == "" {
		return input.Clone()
	}
	if out := configSchema(config, cfgOutputSchema); out != nil {
		return out
	}
	return input.Clone()
}

// resolveAPI returns the HTTP-response shape declared in the OpenAPI
// document for the selected endpoint and method. An API node's output
// describes response data, never request data; the request side lives in
// its input schema (see InputSchema).
func resolveAPI(_ schema.Schema, config map[string]interface{}) schema.Schema {
	return configSchema(config, cfgOutputSchema)
}

// resolveExecutionResult returns the fixed execution-result shape shared
// by analytics and AI tool nodes.
func resolveExecutionResult(_ schema.Schema, _ map[string]interface{}) schema.Schema {
	return schema.Schema{
		{Name: "status", Type: schema.TypeString, Description: "Execution status"},
		{Name: "result", Type: schema.TypeObject, Description: "Execution result payload"},
	}
}

// resolveVisualPreview returns the fixed visual-content descriptor.
func resolveVisualPreview(_ schema.Schema, _ map[string]interface{}) schema.Schema {
	return schema.Schema{
		{Name: "content_type", Type: schema.TypeString, Description: "Rendered content type"},
		{Name: "content", Type: schema.TypeObject, Description: "Visual content payload"},
	}
}

// pluginOutputs maps a selected SDK function name to its result shape.
var pluginOutputs = map[string]schema.Schema{
	"create_provider": {
		{Name: "provider_id", Type: schema.TypeString},
		{Name: "name", Type: schema.TypeString},
		{Name: "template", Type: schema.TypeString},
		{Name: "status", Type: schema.TypeString},
	},
	"update_provider": {
		{Name: "provider_id", Type: schema.TypeString},
		{Name: "status", Type: schema.TypeString},
	},
	"delete_provider": {
		{Name: "provider_id", Type: schema.TypeString},
		{Name: "status", Type: schema.TypeString},
	},
	"list_providers": {
		{Name: "providers", Type: schema.TypeArray},
		{Name: "status", Type: schema.TypeString},
	},
}

// resolvePlugins looks the output shape up by SDK function name, with a
// generic result/status fallback for unknown functions.
func resolvePlugins(_ schema.Schema, config map[string]interface{}) schema.Schema {
	if out, ok := pluginOutputs[configString(config, cfgSDKFunction)]; ok {
		return out.Clone()
	}
	return schema.Schema{
		{Name: "result", Type: schema.TypeObject},
		{Name: "status", Type: schema.TypeString},
	}
}

// resolveFlowTrigger returns the trigger's declared payload schema, or
// passes its input through when none is configured.
func resolveFlowTrigger(input schema.Schema, config map[string]interface{}) schema.Schema {
	if out := configSchema(config, cfgPayloadSchema); out != nil {
		return out
	}
	return input.Clone()
}

// configString reads an optional string config entry.
func configString(config map[string]interface{}, key string) string {
	if config == nil {
		return ""
	}
	if s, ok := config[key].(string); ok {
		return s
	}
	return ""
}

// configSchema decodes the first present schema-shaped config entry.
// Malformed entries are skipped field-by-field; a key that decodes to no
// usable fields is treated as absent so later keys still get a chance.
func configSchema(config map[string]interface{}, keys ...string) schema.Schema {
	if config == nil {
		return nil
	}
	for _, key := range keys {
		raw, ok := config[key]
		if !ok || raw == nil {
			continue
		}
		if s := decodeSchema(raw); s != nil {
			return s
		}
	}
	return nil
}

// decodeSchema converts an opaque config value into a Schema. It accepts
// a native Schema, a []Field, or the decoded-JSON form: a list of
// {name, type, description} records. Entries without a usable name are
// dropped; unknown types default to string; duplicate names keep the
// first occurrence.
func decodeSchema(raw interface{}) schema.Schema {
	switch v := raw.(type) {
	case schema.Schema:
		return v.Clone()
	case []schema.Field:
		return schema.Schema(v).Clone()
	case []interface{}:
		var out schema.Schema
		seen := make(map[string]struct{})
		for _, entry := range v {
			rec, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := rec["name"].(string)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			ftype := schema.FieldType("")
			if ts, ok := rec["type"].(string); ok {
				ftype = schema.FieldType(ts)
			}
			if !ftype.IsValid() {
				ftype = schema.TypeString
			}
			desc, _ := rec["description"].(string)
			out = append(out, schema.Field{Name: name, Type: ftype, Description: desc})
		}
		return out
	default:
		return nil
	}
}
