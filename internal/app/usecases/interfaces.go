package usecases

import (
	"context"

	"github.com/schemaflow/schemaflow/internal/core/flow"
)

// FlowRepository defines the interface for flow storage and retrieval.
// Flows persist wholesale: read once at load, written back in full on
// save. No partial or streaming writes.
// PRINCIPLES:
// - SRP: Only responsible for flow persistence
// - DIP: Used for dependency injection
type FlowRepository interface {
	Save(ctx context.Context, f *flow.Flow) error
	Get(ctx context.Context, id string) (*flow.Flow, error)
	List(ctx context.Context) ([]*flow.Flow, error)
	Delete(ctx context.Context, id string) error
}
