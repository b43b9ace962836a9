package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gridmatch/gridmatch/internal/api/apierr"
	"github.com/gridmatch/gridmatch/internal/api/middleware"
	"github.com/gridmatch/gridmatch/internal/api/request"
	"github.com/gridmatch/gridmatch/internal/api/response"
	"github.com/gridmatch/gridmatch/internal/services/matchmaker"
	"github.com/gridmatch/gridmatch/internal/services/registry"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	registry   *registry.Service
	matchmaker *matchmaker.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Service, mm *matchmaker.Controller) *PlayerHandler {
	return &PlayerHandler{
		registry:   reg,
		matchmaker: mm,
	}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	identity, err := h.registry.Register(r.Context(), req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponse{
		Player: response.PlayerFromModel(&identity.Player),
		Token:  identity.Token,
	})
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.ListPlayers(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModel(players))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Unregister handles DELETE /api/v1/players/me. Leaving any occupied
// session first keeps a departing player from stranding an opponent.
func (h *PlayerHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.matchmaker.LeaveAll(r.Context(), player.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.registry.Unregister(r.Context(), player.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
