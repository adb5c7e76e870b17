// Package flow provides the core flow-graph domain entities
// following Clean Architecture principles with zero external dependencies.
package flow

import "time"

// NodeKind represents the kind of node
type NodeKind string

const (
	// KindFile represents a file source node
	KindFile NodeKind = "file"
	// KindStorage represents a storage/database node
	KindStorage NodeKind = "storage"
	// KindTransform represents a transform script node
	KindTransform NodeKind = "transform"
	// KindAPI represents an external API call node
	KindAPI NodeKind = "api"
	// KindAnalytics represents an analytics script node
	KindAnalytics NodeKind = "analytics"
	// KindAITools represents an AI tool invocation node
	KindAITools NodeKind = "ai_tools"
	// KindVisualPreview represents a visual preview sink node
	KindVisualPreview NodeKind = "visual_preview"
	// KindPlugins represents an SDK plugin call node
	KindPlugins NodeKind = "plugins"
	// KindFlowTrigger represents a trigger entry node
	KindFlowTrigger NodeKind = "flow_trigger"
)

// Kinds lists every known node kind.
func Kinds() []NodeKind {
	return []NodeKind{
		KindFile, KindStorage, KindTransform, KindAPI, KindAnalytics,
		KindAITools, KindVisualPreview, KindPlugins, KindFlowTrigger,
	}
}

// IsValid reports whether k is one of the enumerated kinds.
func (k NodeKind) IsValid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Config field names under which a node stores its mapping set. The key
// varies by node kind in persisted documents; readers must accept any of
// them.
const (
	ConfigMappings        = "mappings"
	ConfigAttributeMaps   = "attribute_mappings"
	ConfigBodyMappings    = "body_mappings"
	ConfigStorageMappings = "storage_mappings"
)

// MappingConfigKeys lists every config key that may hold a mapping set,
// in lookup order.
func MappingConfigKeys() []string {
	return []string{ConfigMappings, ConfigAttributeMaps, ConfigBodyMappings, ConfigStorageMappings}
}

// Node represents a typed unit of work in the flow graph
// PRINCIPLES:
// - KISS: Simple node representation
// - SRP: Only responsible for node data; schemas are derived elsewhere
type Node struct {
	ID        string                 `json:"id"`
	Kind      NodeKind               `json:"kind"`
	Name      string                 `json:"name"`
	Config    map[string]interface{} `json:"config,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Validate ensures node integrity
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Name == "" {
		return ErrInvalidNodeName
	}
	if !n.Kind.IsValid() {
		return ErrInvalidNodeKind
	}
	return nil
}

// IsSource reports whether the node kind produces data without upstream
// input.
func (n *Node) IsSource() bool {
	return n.Kind == KindFile || n.Kind == KindFlowTrigger
}

// ConfigValue returns a config entry by key.
func (n *Node) ConfigValue(key string) (interface{}, bool) {
	if n.Config == nil {
		return nil, false
	}
	v, ok := n.Config[key]
	return v, ok
}

// MappingConfig returns the raw mapping-set record stored in the node
// config, together with the key it was found under.
func (n *Node) MappingConfig() (interface{}, string, bool) {
	for _, key := range MappingConfigKeys() {
		if v, ok := n.ConfigValue(key); ok && v != nil {
			return v, key, true
		}
	}
	return nil, "", false
}
