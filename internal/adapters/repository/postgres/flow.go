package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/pkg/serialization"
)

// FlowRepository implements usecases.FlowRepository for PostgreSQL.
type FlowRepository struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewFlowRepository creates a new PostgreSQL flow repository.
func NewFlowRepository(pool *pgxpool.Pool, serializer *serialization.Serializer) *FlowRepository {
	return &FlowRepository{
		pool:       pool,
		serializer: serializer,
		tableName:  "flows",
	}
}

// Save stores a flow, replacing any previous revision.
func (r *FlowRepository) Save(ctx context.Context, f *flow.Flow) error {
	if f == nil || f.ID == "" {
		return flow.ErrInvalidFlowName
	}

	data, err := r.serializer.Serialize(f)
	if err != nil {
		return fmt.Errorf("failed to serialize flow: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, document, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, f.ID, f.Name, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}

// Get retrieves a flow by ID.
func (r *FlowRepository) Get(ctx context.Context, id string) (*flow.Flow, error) {
	if id == "" {
		return nil, flow.ErrFlowNotFound
	}

	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, r.tableName)

	var data []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, flow.ErrFlowNotFound
		}
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}

	return r.decode(data)
}

// List retrieves every stored flow, most recently updated first.
func (r *FlowRepository) List(ctx context.Context) ([]*flow.Flow, error) {
	query := fmt.Sprintf(`SELECT document FROM %s ORDER BY updated_at DESC`, r.tableName)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer rows.Close()

	var flows []*flow.Flow
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan flow row: %w", err)
		}
		f, err := r.decode(data)
		if err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

// Delete removes a flow by ID.
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return flow.ErrFlowNotFound
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tableName)
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return flow.ErrFlowNotFound
	}
	return nil
}

// CreateTables creates the necessary database tables.
func (r *FlowRepository) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);
	`, r.tableName, r.tableName, r.tableName)

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *FlowRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func (r *FlowRepository) decode(data []byte) (*flow.Flow, error) {
	var f flow.Flow
	if err := r.serializer.Deserialize(data, &f); err != nil {
		return nil, fmt.Errorf("failed to deserialize flow: %w", err)
	}
	if f.Rules == nil {
		f.Rules = flow.DefaultConnectionRules()
	}
	return &f, nil
}
