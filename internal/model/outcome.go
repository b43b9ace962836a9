package model

// OutcomeTag discriminates the result of evaluating a board
type OutcomeTag string

const (
	OutcomeNone    OutcomeTag = "none"
	OutcomeTagWin  OutcomeTag = "win"
	OutcomeTagDraw OutcomeTag = "draw"
)

// Outcome is the tagged result of a completed (or still-running) board.
// WinnerSlot and Pattern are meaningful only when Tag is OutcomeTagWin.
type Outcome struct {
	Tag        OutcomeTag
	WinnerSlot int
	Pattern    [3]int // cell indices of the completed line
}

// NoOutcome is the zero result: the game continues
var NoOutcome = Outcome{Tag: OutcomeNone}

// WinOutcome builds a win result for the given slot and line
func WinOutcome(slot int, pattern [3]int) Outcome {
	return Outcome{Tag: OutcomeTagWin, WinnerSlot: slot, Pattern: pattern}
}

// DrawOutcome builds a draw result
func DrawOutcome() Outcome {
	return Outcome{Tag: OutcomeTagDraw}
}
