package model

// OccupantView is the externally-visible projection of an occupant
type OccupantView struct {
	ID          PlayerID `json:"id"`
	DisplayName string   `json:"display_name"`
	Score       Score    `json:"score"`
}

// Snapshot is the externally-visible projection of a session's state.
// It never exposes internal fields such as StartTurn.
type Snapshot struct {
	ID        SessionID      `json:"id"`
	Board     []int          `json:"board"` // -1 empty, otherwise the owning slot
	Occupants []OccupantView `json:"occupants"`
	Turn      int            `json:"turn"`
	Phase     Phase          `json:"phase"`
}

// NewSnapshot projects a session and its resolved occupants.
// Occupants must be in slot order.
func NewSnapshot(s *Session, occupants []*Player) Snapshot {
	board := make([]int, BoardSize)
	for i, c := range s.Board {
		board[i] = int(c)
	}

	views := make([]OccupantView, len(occupants))
	for i, p := range occupants {
		views[i] = OccupantView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
		}
	}

	return Snapshot{
		ID:        s.ID,
		Board:     board,
		Occupants: views,
		Turn:      s.Turn,
		Phase:     s.Phase,
	}
}
