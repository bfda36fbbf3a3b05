// Package repositories provides read access to the query catalog tables.
package repositories

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/FXC-ai/sql-query-engine/pkg/apperrors"
	"github.com/FXC-ai/sql-query-engine/pkg/models"
)

// Querier is the database-read capability the repository depends on.
// *pgxpool.Pool satisfies it; the pool owns connection lifecycle.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DefinitionRepository resolves an item key into a fully-populated query
// definition. Each call performs two fresh read-only queries; nothing is
// cached or written.
type DefinitionRepository interface {
	// Resolve returns the definition for itemKey, apperrors.ErrNotFound when
	// no definition exists, or a *apperrors.StorageError on connectivity
	// failure or catalog integrity violation.
	Resolve(ctx context.Context, itemKey string) (*models.QueryDefinition, error)
}

// identifierRegex constrains configurable table names. Table names are
// operator configuration, not caller input, but they are interpolated into
// statements and therefore held to identifier syntax (schema.table allowed).
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type definitionRepository struct {
	db         Querier
	queryTable string
	paramTable string
}

// NewDefinitionRepository creates a repository reading from the given catalog
// tables. The original deployment kept its catalog under a dedicated schema
// (e.g. data_analyst.queries), so table names are configurable.
func NewDefinitionRepository(db Querier, queryTable, paramTable string) (DefinitionRepository, error) {
	if !identifierRegex.MatchString(queryTable) {
		return nil, fmt.Errorf("invalid query table name %q", queryTable)
	}
	if !identifierRegex.MatchString(paramTable) {
		return nil, fmt.Errorf("invalid parameter table name %q", paramTable)
	}
	return &definitionRepository{
		db:         db,
		queryTable: queryTable,
		paramTable: paramTable,
	}, nil
}

var _ DefinitionRepository = (*definitionRepository)(nil)

func (r *definitionRepository) Resolve(ctx context.Context, itemKey string) (*models.QueryDefinition, error) {
	def, err := r.fetchDefinition(ctx, itemKey)
	if err != nil {
		return nil, err
	}

	params, err := r.fetchParameters(ctx, itemKey)
	if err != nil {
		return nil, err
	}
	def.Parameters = params

	return def, nil
}

func (r *definitionRepository) fetchDefinition(ctx context.Context, itemKey string) (*models.QueryDefinition, error) {
	sql := fmt.Sprintf(`
		SELECT id, name, description, sql_text, item_key, signature
		FROM %s
		WHERE item_key = $1`, r.queryTable)

	rows, err := r.db.Query(ctx, sql, itemKey)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "fetch definition", Err: err}
	}
	defer rows.Close()

	var defs []*models.QueryDefinition
	for rows.Next() {
		var d models.QueryDefinition
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.SQLText, &d.ItemKey, &d.Signature); err != nil {
			return nil, &apperrors.StorageError{Op: "scan definition", Err: err}
		}
		defs = append(defs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "iterate definitions", Err: err}
	}

	switch len(defs) {
	case 0:
		return nil, fmt.Errorf("definition '%s': %w", itemKey, apperrors.ErrNotFound)
	case 1:
		return defs[0], nil
	default:
		// item_key is declared unique; more than one row is a contract
		// violation and is never silently tolerated.
		return nil, &apperrors.StorageError{
			Op:  "fetch definition",
			Err: fmt.Errorf("item_key '%s' matches %d rows, expected at most 1", itemKey, len(defs)),
		}
	}
}

func (r *definitionRepository) fetchParameters(ctx context.Context, itemKey string) ([]models.QueryParameter, error) {
	sql := fmt.Sprintf(`
		SELECT id, item_key, param_name, param_type, param_order, is_required, default_value, description
		FROM %s
		WHERE item_key = $1
		ORDER BY param_order ASC`, r.paramTable)

	rows, err := r.db.Query(ctx, sql, itemKey)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "fetch parameters", Err: err}
	}
	defer rows.Close()

	var params []models.QueryParameter
	seen := make(map[string]bool)
	for rows.Next() {
		var (
			p        models.QueryParameter
			rawType  string
			required bool
		)
		if err := rows.Scan(&p.ID, &p.ItemKey, &p.Name, &rawType, &p.Order, &required, &p.DefaultValue, &p.Description); err != nil {
			return nil, &apperrors.StorageError{Op: "scan parameter", Err: err}
		}

		// An unrecognized type string is stored metadata corruption, not a
		// caller-input problem.
		t, err := models.ParseParamType(rawType)
		if err != nil {
			return nil, &apperrors.StorageError{
				Op:  fmt.Sprintf("parameter '%s' of '%s'", p.Name, itemKey),
				Err: err,
			}
		}
		p.Type = t
		p.Required = required

		if seen[p.Name] {
			return nil, &apperrors.StorageError{
				Op:  "fetch parameters",
				Err: fmt.Errorf("parameter '%s' declared more than once for '%s'", p.Name, itemKey),
			}
		}
		seen[p.Name] = true

		params = append(params, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "iterate parameters", Err: err}
	}

	return params, nil
}
