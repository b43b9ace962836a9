package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// BoardSize is the number of cells on the fixed 3x3 board
const BoardSize = 9

// MaxOccupants is the number of players a session seats
const MaxOccupants = 2

// Cell holds the slot of the player who marked it, or CellEmpty
type Cell int8

// CellEmpty marks an unclaimed cell
const CellEmpty Cell = -1

// Board is the ordered sequence of 9 cells, row-major
type Board [BoardSize]Cell

// NewBoard returns an all-empty board
func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = CellEmpty
	}
	return b
}

// IsFull reports whether every cell has been claimed
func (b Board) IsFull() bool {
	for _, c := range b {
		if c == CellEmpty {
			return false
		}
	}
	return true
}

// Phase represents the current stage of a session's lifecycle
type Phase string

const (
	PhaseWaitingForOpponent Phase = "waiting_for_opponent"
	PhaseInProgress         Phase = "in_progress"
	PhaseConcluded          Phase = "concluded"
)

// Session represents one paired two-player game instance.
// A player's slot is their index into Occupants, fixed for the
// session's lifetime.
type Session struct {
	ID        SessionID
	Board     Board
	Occupants []PlayerID // at most MaxOccupants, join order
	Turn      int        // slot that may move next
	StartTurn int        // slot that opens the next game after a reset
	Phase     Phase
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotOf returns the slot held by the given player, or -1 if they
// are not an occupant
func (s *Session) SlotOf(playerID PlayerID) int {
	for i, id := range s.Occupants {
		if id == playerID {
			return i
		}
	}
	return -1
}

// HasOpenSlot reports whether the session is waiting on a second player
func (s *Session) HasOpenSlot() bool {
	return len(s.Occupants) < MaxOccupants
}

// MoverID returns the player whose turn it is, or "" if the session
// is not fully seated
func (s *Session) MoverID() PlayerID {
	if s.Turn < 0 || s.Turn >= len(s.Occupants) {
		return ""
	}
	return s.Occupants[s.Turn]
}
