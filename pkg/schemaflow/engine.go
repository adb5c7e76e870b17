package schemaflow

import (
	"context"

	memoryrepo "github.com/schemaflow/schemaflow/internal/adapters/repository/memory"
	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/app/services"
	"github.com/schemaflow/schemaflow/internal/app/usecases"
	coreflow "github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
	"github.com/schemaflow/schemaflow/internal/core/schema"
)

// Re-export core types for convenience
type (
	Flow      = coreflow.Flow
	Node      = coreflow.Node
	Edge      = coreflow.Edge
	NodeKind  = coreflow.NodeKind
	HandleID  = coreflow.HandleID
	Field     = schema.Field
	FieldType = schema.FieldType
	Schema    = schema.Schema
	SchemaMap = schema.Map
	Rule      = mapping.Rule
	Set       = mapping.Set

	PropagationResult = dto.PropagationResult
	EvaluationResult  = dto.EvaluationResult
	Issue             = dto.Issue
	RunState          = dto.RunState
	RunStatus         = dto.RunStatus
	StatusFunc        = usecases.StatusFunc
)

// Run states reported by EvaluateBatchStatus.
const (
	RunStateRunning = dto.RunStateRunning
	RunStateSuccess = dto.RunStateSuccess
	RunStateError   = dto.RunStateError
)

// Engine is a simple facade to construct and drive the propagation and
// mapping engine without importing internal packages directly. The
// default engine uses in-memory components and is suitable for local
// usage and tests.
type Engine struct {
	store *services.FlowStore
	repo  usecases.FlowRepository
}

// NewEngine constructs a default engine around the given flow with the
// built-in resolver table and an in-memory repository.
func NewEngine(f *coreflow.Flow) *Engine {
	return NewEngineWithRepository(f, memoryrepo.NewFlowRepository())
}

// NewEngineWithRepository constructs an engine backed by the given flow
// repository.
func NewEngineWithRepository(f *coreflow.Flow, repo usecases.FlowRepository) *Engine {
	return &Engine{
		store: services.NewFlowStore(f, usecases.DefaultResolvers()),
		repo:  repo,
	}
}

// Store exposes the mutate/recompute/notify store around the flow.
func (e *Engine) Store() *services.FlowStore {
	return e.store
}

// Schemas returns the latest propagated schema map.
func (e *Engine) Schemas() schema.Map {
	return e.store.Schemas()
}

// Result returns the latest propagation result including issues.
func (e *Engine) Result() *dto.PropagationResult {
	return e.store.Result()
}

// Evaluate applies a node's current mapping set to one input record.
func (e *Engine) Evaluate(nodeID string, record map[string]interface{}) (*dto.EvaluationResult, error) {
	set, err := e.store.Mappings(nodeID)
	if err != nil {
		return nil, err
	}
	return usecases.Evaluate(set, record), nil
}

// EvaluateBatch shards records across workers and evaluates each against
// the node's current mapping set.
func (e *Engine) EvaluateBatch(ctx context.Context, nodeID string, records []map[string]interface{}, workers int) ([]*dto.EvaluationResult, error) {
	set, err := e.store.Mappings(nodeID)
	if err != nil {
		return nil, err
	}
	return usecases.EvaluateBatch(ctx, set, records, workers), nil
}

// EvaluateBatchStatus is EvaluateBatch with run-state reporting on
// notify, for hosts that surface per-node execution indicators.
func (e *Engine) EvaluateBatchStatus(ctx context.Context, nodeID string, records []map[string]interface{}, workers int, notify StatusFunc) ([]*dto.EvaluationResult, error) {
	set, err := e.store.Mappings(nodeID)
	if err != nil {
		return nil, err
	}
	return usecases.EvaluateBatchStatus(ctx, nodeID, set, records, workers, notify), nil
}

// SaveFlow persists the current flow snapshot to the repository.
func (e *Engine) SaveFlow(ctx context.Context) error {
	return e.repo.Save(ctx, e.store.Snapshot())
}

// LoadFlow replaces the engine's flow with one loaded from the
// repository and re-propagates.
func (e *Engine) LoadFlow(ctx context.Context, id string) error {
	f, err := e.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	e.store = services.NewFlowStore(f, usecases.DefaultResolvers())
	return nil
}

// Propagate forces a propagation pass and returns the fresh result.
func (e *Engine) Propagate() *dto.PropagationResult {
	return e.store.Repropagate()
}
