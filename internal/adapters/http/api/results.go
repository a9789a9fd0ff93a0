package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/vitalis/internal/domain/types"
)

var errMissingUserID = errors.New("missing user_id")

// ResultDependencies defines the result and history operations.
type ResultDependencies interface {
	Result(ctx context.Context, id string) (types.Result, error)
	Report(ctx context.Context, id string) (string, error)
	History(ctx context.Context, userID string, limit int) ([]types.Result, error)
}

type historyResponse struct {
	UserID  string         `json:"user_id"`
	Results []types.Result `json:"results"`
}

// ResultsHandler handles completed-result requests.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResult handles GET /sessions/{id}/result requests. With
// ?format=text the plain-text report is returned as a download.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	id := r.PathValue("id")

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		res, err := h.deps.Result(r.Context(), id)
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, res)
	case "text":
		text, err := h.deps.Report(r.Context(), id)
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "health-assessment-"+id+".txt"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
	default:
		writeFailure(w, WrapKind(op, ErrUnsupported, fmt.Errorf("format %q", format)))
	}
}

// HandleGetHistory handles GET /users/{id}/results?limit=N requests.
func (h *ResultsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	userID := r.PathValue("id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", raw)))
			return
		}
		limit = n
	}

	results, err := h.deps.History(r.Context(), userID, limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{UserID: userID, Results: results})
}
