package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FXC-ai/sql-query-engine/pkg/apperrors"
	"github.com/FXC-ai/sql-query-engine/pkg/audit"
	"github.com/FXC-ai/sql-query-engine/pkg/database"
	"github.com/FXC-ai/sql-query-engine/pkg/models"
)

type mockRepo struct {
	def   *models.QueryDefinition
	err   error
	calls int
}

func (m *mockRepo) Resolve(ctx context.Context, itemKey string) (*models.QueryDefinition, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.def, nil
}

type mockExecutor struct {
	result   *database.QueryResult
	err      error
	calls    int
	lastSQL  string
	lastArgs []any
}

func (m *mockExecutor) Execute(ctx context.Context, sqlText string, args ...any) (*database.QueryResult, error) {
	m.calls++
	m.lastSQL = sqlText
	m.lastArgs = args
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func newTestService(repo *mockRepo, executor *mockExecutor) QueryService {
	logger := zap.NewNop()
	return NewQueryService(repo, executor, audit.NewSecurityAuditor(logger), logger)
}

func testDefinition() *models.QueryDefinition {
	return &models.QueryDefinition{
		ID:      1,
		Name:    "Orders by customer",
		SQLText: "SELECT id, total FROM orders WHERE customer_id = $1 AND total >= $2",
		ItemKey: "orders.by_customer",
		Parameters: []models.QueryParameter{
			{Name: "min_total", Type: models.TypeFloat, Order: 1, Required: false, DefaultValue: strPtr("0")},
			{Name: "customer_id", Type: models.TypeBigint, Order: 0, Required: true},
		},
	}
}

func strPtr(s string) *string { return &s }

func TestQueryService_Execute_Success(t *testing.T) {
	repo := &mockRepo{def: testDefinition()}
	executor := &mockExecutor{result: &database.QueryResult{
		Columns: []string{"id", "total"},
		Rows:    []map[string]any{{"id": int64(1), "total": 25.0}},
	}}
	svc := newTestService(repo, executor)

	result, err := svc.Execute(context.Background(), "orders.by_customer", models.Arguments{"customer_id": "42"})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 1, executor.calls)
	// Values ordered by declared order, default applied for the optional one.
	assert.Equal(t, []any{int64(42), 0.0}, executor.lastArgs)
	assert.Equal(t, repo.def.SQLText, executor.lastSQL)
}

func TestQueryService_Execute_NotFoundPassesThrough(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("definition 'missing.key': %w", apperrors.ErrNotFound)}
	executor := &mockExecutor{}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "missing.key", models.Arguments{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, executor.calls)
}

func TestQueryService_Execute_ValidationFailureSkipsDatabase(t *testing.T) {
	repo := &mockRepo{def: testDefinition()}
	executor := &mockExecutor{}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "orders.by_customer", models.Arguments{})

	require.Error(t, err)
	var missing *apperrors.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "customer_id", missing.Name)
	assert.Equal(t, 0, executor.calls, "no statement may be sent on validation failure")
}

func TestQueryService_Execute_TypeMismatchSkipsDatabase(t *testing.T) {
	repo := &mockRepo{def: testDefinition()}
	executor := &mockExecutor{}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "orders.by_customer", models.Arguments{"customer_id": "abc"})

	require.Error(t, err)
	var mismatch *apperrors.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 0, executor.calls)
}

func TestQueryService_Execute_InjectionRejected(t *testing.T) {
	def := &models.QueryDefinition{
		ItemKey: "users.search",
		SQLText: "SELECT * FROM users WHERE name = $1",
		Parameters: []models.QueryParameter{
			{Name: "name", Type: models.TypeText, Order: 0, Required: true},
		},
	}
	repo := &mockRepo{def: def}
	executor := &mockExecutor{}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "users.search", models.Arguments{"name": "' OR 1=1 --"})

	require.Error(t, err)
	var injection *apperrors.InjectionError
	require.ErrorAs(t, err, &injection)
	assert.Equal(t, "name", injection.Name)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 0, executor.calls)
}

func TestQueryService_Execute_MultipleHostileValuesRejected(t *testing.T) {
	def := &models.QueryDefinition{
		ItemKey: "users.filter",
		SQLText: "SELECT * FROM users WHERE name = $1 AND city = $2",
		Parameters: []models.QueryParameter{
			{Name: "name", Type: models.TypeText, Order: 0, Required: true},
			{Name: "city", Type: models.TypeText, Order: 1, Required: true},
		},
	}
	repo := &mockRepo{def: def}
	executor := &mockExecutor{}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "users.filter", models.Arguments{
		"name": "' OR 1=1 --",
		"city": "'; DROP TABLE users--",
	})

	require.Error(t, err)
	var injection *apperrors.InjectionError
	require.ErrorAs(t, err, &injection)
	assert.Contains(t, []string{"name", "city"}, injection.Name)
	assert.Equal(t, 0, executor.calls)
}

func TestQueryService_Execute_InjectionScreenIgnoresUnknownNames(t *testing.T) {
	// Values for names outside the schema never bind, so they are not screened.
	repo := &mockRepo{def: testDefinition()}
	executor := &mockExecutor{result: &database.QueryResult{Columns: []string{"id"}, Rows: nil}}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "orders.by_customer", models.Arguments{
		"customer_id": "42",
		"stray":       "' OR 1=1 --",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, executor.calls)
}

func TestQueryService_Execute_DriverFailureIsExecutionError(t *testing.T) {
	repo := &mockRepo{def: testDefinition()}
	executor := &mockExecutor{err: errors.New("relation \"orders\" does not exist")}
	svc := newTestService(repo, executor)

	_, err := svc.Execute(context.Background(), "orders.by_customer", models.Arguments{"customer_id": "42"})

	require.Error(t, err)
	var execErr *apperrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "orders.by_customer", execErr.ItemKey)
	assert.NotErrorIs(t, err, apperrors.ErrValidation)
}

func TestQueryService_Resolve_FreshPerCall(t *testing.T) {
	repo := &mockRepo{def: testDefinition()}
	svc := newTestService(repo, &mockExecutor{})

	_, err := svc.Resolve(context.Background(), "orders.by_customer")
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), "orders.by_customer")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls, "definitions are fetched fresh per call, never cached")
}
