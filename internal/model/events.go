package model

// EventType identifies the type of event sent to connected clients
type EventType string

const (
	// Registry events
	EventPlayerList EventType = "player-list"

	// Session events
	EventSessionStarted EventType = "session-started"
	EventSessionUpdated EventType = "session-updated"
	EventOutcome        EventType = "outcome"
	EventPeerDeparted   EventType = "peer-departed"
	EventScoreUpdated   EventType = "score-updated"
)

// PlayerListPayload carries the ordered live-player list
type PlayerListPayload struct {
	Players []OccupantView `json:"players"`
}

// OutcomePayload is broadcast once per concluded game
type OutcomePayload struct {
	Kind     OutcomeKind `json:"kind"` // win or draw
	WinnerID PlayerID    `json:"winner_id,omitempty"`
	Pattern  []int       `json:"pattern,omitempty"`
}

// ScoreUpdatedPayload is sent to a single player after an outcome
type ScoreUpdatedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Score    Score    `json:"score"`
}
