package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/apperrors"
	"github.com/querylens/querylens/pkg/logging"
	"github.com/querylens/querylens/pkg/orchestrator"
)

// SessionHeader names the session for every operation after connect.
const SessionHeader = "X-Session-ID"

// PipelineHandler exposes the query pipeline over HTTP.
type PipelineHandler struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

// NewPipelineHandler creates a PipelineHandler.
func NewPipelineHandler(orch *orchestrator.Orchestrator, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{orch: orch, logger: logger}
}

// RegisterRoutes registers the pipeline routes on the given mux.
func (h *PipelineHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/connect", h.Connect)
	mux.HandleFunc("POST /api/disconnect", h.Disconnect)
	mux.HandleFunc("POST /api/query", h.Query)
	mux.HandleFunc("GET /api/schema", h.Schema)
	mux.HandleFunc("GET /api/tables/{table}/sample", h.SampleData)
}

type connectRequest struct {
	ConnectionString string `json:"connection_string"`
}

// Connect handles POST /api/connect. An empty connection string connects to
// the bundled fixture database.
func (h *PipelineHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}

	result, err := h.orch.Connect(r.Context(), req.ConnectionString)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, result)
}

type queryRequest struct {
	Question string `json:"question"`
}

// Query handles POST /api/query.
func (h *PipelineHandler) Query(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_session", "set the "+SessionHeader+" header")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if req.Question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	resp, err := h.orch.Query(r.Context(), sessionID, req.Question)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, resp)
}

// Schema handles GET /api/schema.
func (h *PipelineHandler) Schema(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	snap, err := h.orch.Schema(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"schema": snap})
}

// SampleData handles GET /api/tables/{table}/sample.
func (h *PipelineHandler) SampleData(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	table := r.PathValue("table")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	sample, err := h.orch.SampleData(r.Context(), sessionID, table, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, sample)
}

// Disconnect handles POST /api/disconnect.
func (h *PipelineHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if err := h.orch.Disconnect(sessionID); err != nil {
		h.writeError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"message": "Database disconnected successfully"})
}

// writeError maps pipeline errors to HTTP statuses. Messages pass through
// the sanitizer so credentials never leave the service.
func (h *PipelineHandler) writeError(w http.ResponseWriter, err error) {
	message := logging.SanitizeError(err)

	var queryErr *orchestrator.QueryError
	if errors.As(err, &queryErr) {
		code, status := classify(queryErr.Err)
		_ = QueryErrorResponse(w, status, code, message, queryErr.SQLQuery, queryErr.SQLExplanation)
		return
	}

	code, status := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("error", message))
	}
	_ = ErrorResponse(w, status, code, message)
}

func classify(err error) (code string, status int) {
	var (
		connErr   *apperrors.ConnectionError
		schemaErr *apperrors.SchemaExtractionError
		valErr    *apperrors.ValidationError
		execErr   *apperrors.ExecutionError
		transErr  *apperrors.TranslationError
	)

	switch {
	case errors.Is(err, orchestrator.ErrNoSession):
		return "no_session", http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrUnknownTable):
		return "unknown_table", http.StatusNotFound
	case errors.As(err, &connErr):
		return "connection_failed", http.StatusBadRequest
	case errors.As(err, &valErr):
		return "query_rejected", http.StatusBadRequest
	case errors.As(err, &execErr):
		if execErr.Timeout {
			return "query_timeout", http.StatusGatewayTimeout
		}
		return "execution_failed", http.StatusBadGateway
	case errors.As(err, &transErr):
		return "translation_failed", http.StatusBadGateway
	case errors.As(err, &schemaErr):
		return "schema_extraction_failed", http.StatusBadGateway
	default:
		return "internal_error", http.StatusInternalServerError
	}
}
