package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gridmatch/gridmatch/internal/model"
)

// Gateway translates registry and session events into SSE messages on
// the right hubs. Delivery is fire-and-forget: a failed delivery to
// one occupant never blocks the other or surfaces an error to the
// state machine.
type Gateway struct {
	hubs   *HubManager
	logger *slog.Logger
}

// NewGateway creates a new Gateway
func NewGateway(hubs *HubManager, logger *slog.Logger) *Gateway {
	return &Gateway{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "gateway")),
	}
}

// PlayerList broadcasts the ordered live-player list on the global hub
func (g *Gateway) PlayerList(ctx context.Context, players []*model.Player) {
	views := make([]model.OccupantView, len(players))
	for i, p := range players {
		views[i] = model.OccupantView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
		}
	}

	g.broadcast(g.hubs.GetOrCreateHub(GlobalHubKey), model.EventPlayerList,
		model.PlayerListPayload{Players: views})
}

// ScoreUpdated sends a player their updated running score
func (g *Gateway) ScoreUpdated(ctx context.Context, playerID model.PlayerID, score model.Score) {
	hub := g.hubs.GetHub(GlobalHubKey)
	if hub == nil {
		return
	}
	g.send(hub, playerID, model.EventScoreUpdated, model.ScoreUpdatedPayload{
		PlayerID: playerID,
		Score:    score,
	})
}

// SessionStarted broadcasts the opening snapshot to a session's occupants
func (g *Gateway) SessionStarted(ctx context.Context, snapshot model.Snapshot) {
	g.broadcast(g.hubs.GetOrCreateHub(string(snapshot.ID)), model.EventSessionStarted, snapshot)
}

// SessionUpdated broadcasts an updated snapshot to a session's occupants
func (g *Gateway) SessionUpdated(ctx context.Context, snapshot model.Snapshot) {
	g.broadcast(g.hubs.GetOrCreateHub(string(snapshot.ID)), model.EventSessionUpdated, snapshot)
}

// Outcome broadcasts the terminal result of a completed board
func (g *Gateway) Outcome(ctx context.Context, sessionID model.SessionID, payload model.OutcomePayload) {
	hub := g.hubs.GetHub(string(sessionID))
	if hub == nil {
		return
	}
	g.broadcast(hub, model.EventOutcome, payload)
}

// PeerDeparted tells the remaining occupant their opponent left
func (g *Gateway) PeerDeparted(ctx context.Context, sessionID model.SessionID, remaining model.PlayerID) {
	hub := g.hubs.GetHub(string(sessionID))
	if hub == nil {
		return
	}
	g.send(hub, remaining, model.EventPeerDeparted, struct{}{})
}

// SessionClosed tears down the session's hub
func (g *Gateway) SessionClosed(sessionID model.SessionID) {
	g.hubs.RemoveHub(string(sessionID))
}

func (g *Gateway) broadcast(hub *Hub, event model.EventType, payload any) {
	data, err := formatEvent(event, payload)
	if err != nil {
		g.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.Any("error", err),
		)
		return
	}
	hub.Broadcast(data)
}

func (g *Gateway) send(hub *Hub, playerID model.PlayerID, event model.EventType, payload any) {
	data, err := formatEvent(event, payload)
	if err != nil {
		g.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.Any("error", err),
		)
		return
	}
	hub.Send(playerID, data)
}

// formatEvent frames a JSON payload as an SSE message. Encoded JSON is
// a single line, so no data-line splitting is needed.
func formatEvent(event model.EventType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := "event: " + string(event) + "\ndata: " + string(data) + "\n\n"
	return []byte(msg), nil
}
