package response

import (
	"github.com/gridmatch/gridmatch/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Score       model.Score `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Score:       p.Score,
	}
}

// RegisterResponse is the reply to a successful registration
type RegisterResponse struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// PlayerList is the ordered live-player list
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayerListFromModel converts a slice of model players
func PlayerListFromModel(players []*model.Player) PlayerList {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return PlayerList{Players: out}
}

// Session wraps a session snapshot in API responses. The snapshot is
// already the externally-safe projection.
type Session struct {
	Session model.Snapshot `json:"session"`
}
