package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/pkg/validation"
)

// FlowRepository provides an in-memory implementation of a flow
// repository
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for flow persistence
// - Thread-safe
type FlowRepository struct {
	mu    sync.RWMutex
	flows map[string]*flow.Flow
}

// NewFlowRepository creates an empty in-memory repository.
func NewFlowRepository() *FlowRepository {
	return &FlowRepository{
		flows: make(map[string]*flow.Flow),
	}
}

// Save stores a deep copy of the flow after structural validation.
func (r *FlowRepository) Save(ctx context.Context, f *flow.Flow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := validation.ValidateCoreFlow(f); err != nil {
		return fmt.Errorf("invalid flow: %w", err)
	}
	r.flows[f.ID] = f.Clone()
	return nil
}

// Get retrieves a flow by ID.
func (r *FlowRepository) Get(ctx context.Context, id string) (*flow.Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flows[id]
	if !ok {
		return nil, flow.ErrFlowNotFound
	}
	return f.Clone(), nil
}

// List returns every stored flow.
func (r *FlowRepository) List(ctx context.Context) ([]*flow.Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*flow.Flow
	for _, f := range r.flows {
		out = append(out, f.Clone())
	}
	return out, nil
}

// Delete removes a flow by ID.
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flows[id]; !ok {
		return flow.ErrFlowNotFound
	}
	delete(r.flows, id)
	return nil
}
