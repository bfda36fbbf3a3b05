package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/FXC-ai/sql-query-engine/pkg/apperrors"
	"github.com/FXC-ai/sql-query-engine/pkg/models"
	"github.com/FXC-ai/sql-query-engine/pkg/repositories"
	sqlpkg "github.com/FXC-ai/sql-query-engine/pkg/sql"
)

// ExecuteAs binds args into the definition's statement, runs it on db and
// maps every result row into T by column name (db struct tags, then field
// names; extra columns on T are tolerated). It is a package-level function
// because Go methods cannot be generic.
//
// The target shape is never inspected here; mapping is delegated to pgx's
// row-to-struct machinery, and its failures surface as *apperrors.MappingError.
func ExecuteAs[T any](ctx context.Context, db repositories.Querier, def *models.QueryDefinition, args models.Arguments) ([]T, error) {
	stmt, values, err := sqlpkg.Bind(def, args)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, stmt, values...)
	if err != nil {
		return nil, &apperrors.ExecutionError{ItemKey: def.ItemKey, Err: err}
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		// CollectRows surfaces both mapping failures and errors the driver
		// reported mid-iteration. A ScanArgError means a column value could
		// not scan into its matched field, so the caller picked an
		// incompatible shape; scan failures also mark the rows fatal, so
		// rows.Err() cannot distinguish them from driver errors.
		var scanErr pgx.ScanArgError
		switch {
		case errors.As(err, &scanErr):
			return nil, &apperrors.MappingError{Err: err}
		case rows.Err() != nil:
			return nil, &apperrors.ExecutionError{ItemKey: def.ItemKey, Err: rows.Err()}
		default:
			// Column-name matching fails before any row is scanned.
			return nil, &apperrors.MappingError{Err: err}
		}
	}

	return records, nil
}
