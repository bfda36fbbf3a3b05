package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// QueryResult holds the rows of one statement execution in generic map shape,
// for callers (such as the HTTP surface) that do not supply a record type.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// SQLExecutor executes an already-bound statement and returns generic rows.
// Implementations must pass values exclusively through the driver's
// parameter-binding mechanism.
type SQLExecutor interface {
	Execute(ctx context.Context, sqlText string, args ...any) (*QueryResult, error)
}

// PoolExecutor runs statements on the shared pgx pool.
type PoolExecutor struct {
	db *DB
}

// NewPoolExecutor creates an executor backed by the given pool.
func NewPoolExecutor(db *DB) *PoolExecutor {
	return &PoolExecutor{db: db}
}

var _ SQLExecutor = (*PoolExecutor)(nil)

// Execute runs the statement with the given bind values and collects every
// row into column-name-keyed maps.
func (e *PoolExecutor) Execute(ctx context.Context, sqlText string, args ...any) (*QueryResult, error) {
	rows, err := e.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	return &QueryResult{Columns: columns, Rows: collected}, nil
}
