package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/pkg/serialization"
	_ "modernc.org/sqlite"
)

// FlowRepository implements usecases.FlowRepository for SQLite. Each
// flow persists as one row holding the whole serialized document; flows
// are small (tens of nodes), so wholesale read/write is the contract.
type FlowRepository struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewFlowRepository creates a new SQLite flow repository.
func NewFlowRepository(db *sql.DB, serializer *serialization.Serializer) *FlowRepository {
	return &FlowRepository{
		db:         db,
		serializer: serializer,
		tableName:  "flows",
	}
}

// WithTableName allows overriding the default table name with validation.
// Only alphanumeric and underscore are permitted to prevent SQL injection
// via identifiers.
func (r *FlowRepository) WithTableName(name string) *FlowRepository {
	if isSafeIdent(name) {
		r.tableName = name
	}
	return r
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
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
		INSERT OR REPLACE INTO %s (id, name, document, updated_at)
		VALUES (?, ?, ?, ?)
	`, r.tableName)

	if _, err := r.db.ExecContext(ctx, query, f.ID, f.Name, data, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}

// Get retrieves a flow by ID.
func (r *FlowRepository) Get(ctx context.Context, id string) (*flow.Flow, error) {
	if id == "" {
		return nil, flow.ErrFlowNotFound
	}

	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = ?`, r.tableName)

	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, flow.ErrFlowNotFound
		}
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}

	return r.decode(data)
}

// List retrieves every stored flow, most recently updated first.
func (r *FlowRepository) List(ctx context.Context) ([]*flow.Flow, error) {
	query := fmt.Sprintf(`SELECT document FROM %s ORDER BY updated_at DESC`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query)
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

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.tableName)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
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
			document BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_updated_at ON %s (updated_at);
	`, r.tableName, r.tableName, r.tableName)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *FlowRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
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
