package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/app/usecases"
	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
	"github.com/schemaflow/schemaflow/internal/core/schema"
	imetrics "github.com/schemaflow/schemaflow/internal/infrastructure/metrics"
)

// Subscriber receives the fresh propagation result after every store
// mutation.
type Subscriber func(result *dto.PropagationResult)

// FlowStore is the explicit mutate → recompute → notify cycle around one
// flow. Every mutation re-runs propagation, prunes stale mappings, swaps
// in a new PropagationResult atomically, and notifies subscribers. A
// reader never observes partial state: the result pointer is replaced,
// never mutated in place.
// PRINCIPLES:
// - SRP: Owns flow mutation and derived-state lifecycle only
// - KISS: Synchronous, mutex-guarded; graphs are tens of nodes
type FlowStore struct {
	mu        sync.RWMutex
	flow      *flow.Flow
	resolvers usecases.ResolverTable
	result    *dto.PropagationResult

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

// NewFlowStore wraps a flow and runs the initial propagation pass.
func NewFlowStore(f *flow.Flow, resolvers usecases.ResolverTable) *FlowStore {
	if f == nil {
		f = flow.New(uuid.NewString(), "untitled")
	}
	if resolvers == nil {
		resolvers = usecases.DefaultResolvers()
	}
	s := &FlowStore{
		flow:      f,
		resolvers: resolvers,
		subs:      make(map[int]Subscriber),
	}
	s.mu.Lock()
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return s
}

// Subscribe registers a subscriber and returns its unsubscribe func.
func (s *FlowStore) Subscribe(sub Subscriber) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// AddNode adds a node, assigning a UUID when the caller left the ID
// empty, and re-propagates.
func (s *FlowStore) AddNode(node *flow.Node) error {
	s.mu.Lock()
	if node != nil && node.ID == "" {
		node.ID = uuid.NewString()
	}
	if err := s.flow.AddNode(node); err != nil {
		s.mu.Unlock()
		return err
	}
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return nil
}

// RemoveNode removes a node (cascading its edges) and re-propagates.
func (s *FlowStore) RemoveNode(id string) error {
	s.mu.Lock()
	if err := s.flow.RemoveNode(id); err != nil {
		s.mu.Unlock()
		return err
	}
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return nil
}

// AddEdge adds an edge if the connection is legal and re-propagates.
// The boolean mirrors the graph-model contract: false means the edge was
// rejected by the connection rules or a duplicate.
func (s *FlowStore) AddEdge(edge *flow.Edge) bool {
	s.mu.Lock()
	if edge != nil && edge.ID == "" {
		edge.ID = uuid.NewString()
	}
	if !s.flow.AddEdge(edge) {
		s.mu.Unlock()
		return false
	}
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return true
}

// RemoveEdge removes an edge and re-propagates.
func (s *FlowStore) RemoveEdge(id string) error {
	s.mu.Lock()
	if err := s.flow.RemoveEdge(id); err != nil {
		s.mu.Unlock()
		return err
	}
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return nil
}

// ConfigureNode replaces a node's config record and re-propagates.
func (s *FlowStore) ConfigureNode(id string, config map[string]interface{}) error {
	s.mu.Lock()
	node, ok := s.flow.Nodes[id]
	if !ok {
		s.mu.Unlock()
		return flow.ErrNodeNotFound
	}
	node.Config = config
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return nil
}

// SetMappings stores a mapping set under the node's mappings config key
// and re-propagates, which also prunes any rule already stale against
// the current schema.
func (s *FlowStore) SetMappings(id string, set mapping.Set) error {
	s.mu.Lock()
	node, ok := s.flow.Nodes[id]
	if !ok {
		s.mu.Unlock()
		return flow.ErrNodeNotFound
	}
	if err := set.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	if node.Config == nil {
		node.Config = make(map[string]interface{})
	}
	key := flow.ConfigMappings
	if _, existing, ok := node.MappingConfig(); ok {
		key = existing
	}
	node.Config[key] = set.Clone()
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return nil
}

// Result returns the latest propagation result. The result is immutable
// once published.
func (s *FlowStore) Result() *dto.PropagationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Schemas returns the latest schema map.
func (s *FlowStore) Schemas() schema.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil
	}
	return s.result.Schemas
}

// Mappings returns the node's current mapping set, decoded from its
// config.
func (s *FlowStore) Mappings(id string) (mapping.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.flow.Nodes[id]
	if !ok {
		return nil, flow.ErrNodeNotFound
	}
	raw, _, ok := node.MappingConfig()
	if !ok {
		return nil, nil
	}
	return mapping.DecodeSet(raw)
}

// Snapshot returns a deep copy of the flow for persistence.
func (s *FlowStore) Snapshot() *flow.Flow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flow.Clone()
}

// Repropagate forces a pass without a mutation, for hosts that edited
// the flow out-of-band (e.g. after loading a persisted document).
func (s *FlowStore) Repropagate() *dto.PropagationResult {
	s.mu.Lock()
	result := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(result)
	return result
}

// recomputeLocked rebuilds derived state under the write lock: full
// propagation, then mapping pruning against the fresh schemas.
func (s *FlowStore) recomputeLocked() *dto.PropagationResult {
	result := usecases.Propagate(s.flow, s.resolvers)
	pruneIssues := usecases.PruneFlow(s.flow, result.Schemas)
	result.Issues = append(result.Issues, pruneIssues...)

	imetrics.IncPropagations()
	imetrics.AddNodesResolved(int64(len(result.Schemas)))
	imetrics.AddPropagationIssues(int64(len(result.Issues)))
	imetrics.AddMappingsPruned(int64(len(pruneIssues)))

	s.result = result
	return result
}

// notify runs outside the store lock so subscribers may read the store.
func (s *FlowStore) notify(result *dto.PropagationResult) {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()
	for _, sub := range subs {
		sub(result)
		imetrics.IncStoreNotifications()
	}
}
