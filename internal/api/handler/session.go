package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gridmatch/gridmatch/internal/api/apierr"
	"github.com/gridmatch/gridmatch/internal/api/middleware"
	"github.com/gridmatch/gridmatch/internal/api/request"
	"github.com/gridmatch/gridmatch/internal/api/response"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/matchmaker"
	"github.com/gridmatch/gridmatch/internal/services/session"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	matchmaker *matchmaker.Controller
	sessions   *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(mm *matchmaker.Controller, sessions *session.Controller) *SessionHandler {
	return &SessionHandler{
		matchmaker: mm,
		sessions:   sessions,
	}
}

// Find handles POST /api/v1/sessions/find
func (h *SessionHandler) Find(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	sess, err := h.matchmaker.FindOrCreate(r.Context(), player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Session{
		Session: h.sessions.Snapshot(r.Context(), sess),
	})
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Session{
		Session: h.sessions.Snapshot(r.Context(), sess),
	})
}

// Play handles POST /api/v1/sessions/{id}/play. Rejected moves are not
// errors: the reply carries the unchanged snapshot.
func (h *SessionHandler) Play(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	sess, err := h.sessions.Play(r.Context(), id, player.ID, req.Cell)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Session{
		Session: h.sessions.Snapshot(r.Context(), sess),
	})
}

// Leave handles POST /api/v1/sessions/{id}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.matchmaker.Leave(r.Context(), id, player.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
