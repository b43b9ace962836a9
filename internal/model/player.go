package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Score tracks a player's cumulative results across games.
// Counters start at zero and never decrease.
type Score struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// OutcomeKind classifies a single player's result in a concluded game
type OutcomeKind string

const (
	OutcomeWin  OutcomeKind = "win"
	OutcomeLoss OutcomeKind = "loss"
	OutcomeDraw OutcomeKind = "draw"
)

// Player represents a connected participant.
// Identity is ephemeral: it lives for the duration of the connection.
type Player struct {
	ID          PlayerID
	DisplayName string
	Score       Score
	CreatedAt   time.Time
}
