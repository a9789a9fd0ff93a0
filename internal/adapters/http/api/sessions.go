package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/vitalis/internal/domain/types"
)

// SessionDependencies defines the session operations the handlers call.
type SessionDependencies interface {
	StartSession(ctx context.Context, userID string) (types.Session, error)
	Session(ctx context.Context, id string) (types.Session, error)
	Answer(ctx context.Context, id string, questionID int, optionID string) (types.Session, error)
	Advance(ctx context.Context, id string) (types.Session, error)
	Retreat(ctx context.Context, id string) (types.Session, error)
	Reset(ctx context.Context, id string) (types.Session, error)
}

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type answerRequest struct {
	QuestionID int    `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// SessionsHandler handles session lifecycle and navigation requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"

	var req createSessionRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeFailure(w, WrapKind(op, ErrBadRequest, errMissingUserID))
		return
	}

	view, err := h.deps.StartSession(r.Context(), userID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/sessions/"+view.SessionID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id} requests.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "api.get_session")(h.deps.Session(r.Context(), r.PathValue("id")))
}

// HandleAnswer handles POST /sessions/{id}/answers requests.
func (h *SessionsHandler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	const op = "api.answer"

	var req answerRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	h.respond(w, op)(h.deps.Answer(r.Context(), r.PathValue("id"), req.QuestionID, strings.TrimSpace(req.OptionID)))
}

// HandleAdvance handles POST /sessions/{id}/advance requests.
func (h *SessionsHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "api.advance")(h.deps.Advance(r.Context(), r.PathValue("id")))
}

// HandleRetreat handles POST /sessions/{id}/retreat requests.
func (h *SessionsHandler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "api.retreat")(h.deps.Retreat(r.Context(), r.PathValue("id")))
}

// HandleReset handles POST /sessions/{id}/reset requests.
func (h *SessionsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "api.reset")(h.deps.Reset(r.Context(), r.PathValue("id")))
}

func (h *SessionsHandler) respond(w http.ResponseWriter, op string) func(types.Session, error) {
	return func(view types.Session, err error) {
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
