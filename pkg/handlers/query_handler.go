package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/FXC-ai/sql-query-engine/pkg/apperrors"
	"github.com/FXC-ai/sql-query-engine/pkg/models"
	"github.com/FXC-ai/sql-query-engine/pkg/services"
)

// ExecuteRequest is the body of a dynamic query execution call.
type ExecuteRequest struct {
	Arguments models.Arguments `json:"arguments"`
}

// ExecuteResponse wraps the rows of a successful execution.
type ExecuteResponse struct {
	ItemKey  string           `json:"item_key"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// QueryHandler exposes stored query execution over HTTP.
type QueryHandler struct {
	querySvc services.QueryService
	logger   *zap.Logger
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(querySvc services.QueryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{querySvc: querySvc, logger: logger}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/queries/{item_key}/execute", h.Execute)
}

// Execute handles POST /api/queries/{item_key}/execute.
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	itemKey := r.PathValue("item_key")

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	if req.Arguments == nil {
		req.Arguments = models.Arguments{}
	}

	result, err := h.querySvc.Execute(r.Context(), itemKey, req.Arguments)
	if err != nil {
		h.writeExecuteError(w, itemKey, err)
		return
	}

	response := ExecuteResponse{
		ItemKey:  itemKey,
		Columns:  result.Columns,
		Rows:     result.Rows,
		RowCount: len(result.Rows),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode execute response",
			zap.String("item_key", itemKey),
			zap.Error(err),
		)
	}
}

func (h *QueryHandler) writeExecuteError(w http.ResponseWriter, itemKey string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "no query definition for item key '"+itemKey+"'")

	case errors.Is(err, apperrors.ErrValidation):
		_ = ErrorResponse(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())

	default:
		var storageErr *apperrors.StorageError
		var execErr *apperrors.ExecutionError
		switch {
		case errors.As(err, &storageErr):
			h.logger.Error("Catalog storage error", zap.String("item_key", itemKey), zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "storage_error", "query catalog is unavailable or inconsistent")
		case errors.As(err, &execErr):
			h.logger.Error("Query execution error", zap.String("item_key", itemKey), zap.Error(err))
			_ = ErrorResponse(w, http.StatusBadGateway, "execution_error", err.Error())
		default:
			h.logger.Error("Unexpected error", zap.String("item_key", itemKey), zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		}
	}
}
