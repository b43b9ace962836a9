package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gridmatch/gridmatch/internal/api/middleware"
	"github.com/gridmatch/gridmatch/internal/broadcast"
	"github.com/gridmatch/gridmatch/internal/services/matchmaker"
	"github.com/gridmatch/gridmatch/internal/services/registry"
)

// EventsHandler serves the SSE streams
type EventsHandler struct {
	hubs       *broadcast.HubManager
	registry   *registry.Service
	matchmaker *matchmaker.Controller
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubs *broadcast.HubManager, reg *registry.Service, mm *matchmaker.Controller) *EventsHandler {
	return &EventsHandler{
		hubs:       hubs,
		registry:   reg,
		matchmaker: mm,
	}
}

// Global handles GET /api/v1/events: the connection-lifetime stream
// carrying the player list and score updates. Its teardown is the
// transport's disconnect signal: the player leaves their session and
// is unregistered, exactly as if they had sent leave-session.
func (h *EventsHandler) Global(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	defer func() {
		// The request context is done once the stream drops; detach
		// the cleanup from it
		ctx := context.Background()
		_ = h.matchmaker.LeaveAll(ctx, player.ID)
		_ = h.registry.Unregister(ctx, player.ID)
	}()

	hub := h.hubs.GetOrCreateHub(broadcast.GlobalHubKey)
	broadcast.ServeSSE(w, r, hub, player.ID)
}

// Session handles GET /api/v1/sessions/{id}/events: snapshots and
// outcomes for one session
func (h *EventsHandler) Session(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := mux.Vars(r)["id"]

	hub := h.hubs.GetOrCreateHub(id)
	broadcast.ServeSSE(w, r, hub, player.ID)
}
