// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/vitalis/internal/adapters/repository"
	service "github.com/okian/vitalis/internal/app"
	"github.com/okian/vitalis/internal/domain/assessment"
	"github.com/okian/vitalis/internal/domain/navigation"
	"github.com/okian/vitalis/internal/domain/responses"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	CatalogProvider
	SessionDependencies
	ResultDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	catalogHandler  *CatalogHandler
	sessionsHandler *SessionsHandler
	resultsHandler  *ResultsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		catalogHandler:  NewCatalogHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
		resultsHandler:  NewResultsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /catalog", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions_create"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "sessions_get"))
	mux.HandleFunc("POST /sessions/{id}/answers", MetricsMiddleware(s.sessionsHandler.HandleAnswer, "sessions_answer"))
	mux.HandleFunc("POST /sessions/{id}/advance", MetricsMiddleware(s.sessionsHandler.HandleAdvance, "sessions_advance"))
	mux.HandleFunc("POST /sessions/{id}/retreat", MetricsMiddleware(s.sessionsHandler.HandleRetreat, "sessions_retreat"))
	mux.HandleFunc("POST /sessions/{id}/reset", MetricsMiddleware(s.sessionsHandler.HandleReset, "sessions_reset"))

	mux.HandleFunc("GET /sessions/{id}/result", MetricsMiddleware(s.resultsHandler.HandleGetResult, "sessions_result"))
	mux.HandleFunc("GET /users/{id}/results", MetricsMiddleware(s.resultsHandler.HandleGetHistory, "users_results"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service or domain error to its status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	writeError(w, status, code, err)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, responses.ErrUnknownQuestion):
		return http.StatusBadRequest, "unknown_question"
	case errors.Is(err, responses.ErrUnknownOption):
		return http.StatusBadRequest, "unknown_option"
	case errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrUnsupported):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, navigation.ErrAnswerRequired):
		return http.StatusUnprocessableEntity, "answer_required"
	case errors.Is(err, assessment.ErrCompleted):
		return http.StatusConflict, "completed"
	case errors.Is(err, assessment.ErrNotCompleted):
		return http.StatusConflict, "not_completed"
	case errors.Is(err, service.ErrCapacity):
		return http.StatusServiceUnavailable, "capacity"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// Ensure the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)
