// Package services orchestrates query resolution, validation, binding and
// execution. Each call is stateless: the definition is fetched fresh, the
// arguments are re-validated and re-bound, and nothing is memoized across
// calls, so concurrent invocations need no synchronization.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/FXC-ai/sql-query-engine/pkg/apperrors"
	"github.com/FXC-ai/sql-query-engine/pkg/audit"
	"github.com/FXC-ai/sql-query-engine/pkg/database"
	"github.com/FXC-ai/sql-query-engine/pkg/models"
	"github.com/FXC-ai/sql-query-engine/pkg/repositories"
	sqlpkg "github.com/FXC-ai/sql-query-engine/pkg/sql"
)

// QueryService exposes the dynamic query engine: resolve a stored definition
// by item key and execute it with caller-supplied arguments.
type QueryService interface {
	// Resolve loads a definition and its parameter schema.
	Resolve(ctx context.Context, itemKey string) (*models.QueryDefinition, error)

	// Execute resolves itemKey, validates and binds args, runs the statement
	// and returns rows in generic map shape. Failures follow the apperrors
	// taxonomy; validation problems never reach the database.
	Execute(ctx context.Context, itemKey string, args models.Arguments) (*database.QueryResult, error)
}

type queryService struct {
	repo     repositories.DefinitionRepository
	executor database.SQLExecutor
	auditor  *audit.SecurityAuditor
	logger   *zap.Logger
}

// NewQueryService creates a query service with its dependencies.
func NewQueryService(
	repo repositories.DefinitionRepository,
	executor database.SQLExecutor,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) QueryService {
	return &queryService{
		repo:     repo,
		executor: executor,
		auditor:  auditor,
		logger:   logger,
	}
}

var _ QueryService = (*queryService)(nil)

func (s *queryService) Resolve(ctx context.Context, itemKey string) (*models.QueryDefinition, error) {
	def, err := s.repo.Resolve(ctx, itemKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Absence is a normal outcome, not an error condition.
			return nil, err
		}
		s.logger.Error("Failed to resolve query definition",
			zap.String("item_key", itemKey),
			zap.Error(err),
		)
		return nil, err
	}
	return def, nil
}

func (s *queryService) Execute(ctx context.Context, itemKey string, args models.Arguments) (*database.QueryResult, error) {
	def, err := s.Resolve(ctx, itemKey)
	if err != nil {
		return nil, err
	}

	if err := s.screenArguments(def, args); err != nil {
		return nil, err
	}

	stmt, values, err := sqlpkg.Bind(def, args)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			s.auditor.LogValidationFailure(itemKey, err.Error())
		}
		return nil, err
	}

	result, err := s.executor.Execute(ctx, stmt, values...)
	if err != nil {
		// Driver failures (including context cancellation) pass through
		// untouched inside an ExecutionError; no retries happen here.
		return nil, &apperrors.ExecutionError{ItemKey: itemKey, Err: err}
	}

	s.logger.Debug("Executed dynamic query",
		zap.String("item_key", itemKey),
		zap.Int("bound_values", len(values)),
		zap.Int("rows", len(result.Rows)),
	)

	return result, nil
}

// screenArguments runs the libinjection screen over every raw string value
// whose name the schema knows. Values for unknown names are ignored outright,
// matching the binding rules. Every flagged value is audited; the first one
// rejects the call.
func (s *queryService) screenArguments(def *models.QueryDefinition, args models.Arguments) error {
	known := make(models.Arguments, len(args))
	for name, value := range args {
		if _, ok := def.ByName(name); ok {
			known[name] = value
		}
	}

	hits := sqlpkg.CheckArguments(known)
	for _, hit := range hits {
		s.auditor.LogInjectionAttempt(def.ItemKey, audit.InjectionDetails{
			ParamName:   hit.ParamName,
			ParamValue:  hit.ParamValue,
			Fingerprint: hit.Fingerprint,
		})
	}
	if len(hits) > 0 {
		return fmt.Errorf("argument screening for '%s': %w", def.ItemKey,
			&apperrors.InjectionError{Name: hits[0].ParamName, Fingerprint: hits[0].Fingerprint})
	}
	return nil
}
