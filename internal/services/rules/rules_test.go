package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gridmatch/gridmatch/internal/model"
)

// boardOf builds a board from a 9-rune string: 'X' slot 0, 'O' slot 1,
// '.' empty
func boardOf(t *testing.T, cells string) model.Board {
	t.Helper()
	require.Len(t, cells, model.BoardSize)

	b := model.NewBoard()
	for i, r := range cells {
		switch r {
		case 'X':
			b[i] = 0
		case 'O':
			b[i] = 1
		case '.':
		default:
			t.Fatalf("unexpected cell rune %q", r)
		}
	}
	return b
}

func TestEvaluateEmptyBoard(t *testing.T) {
	outcome := Evaluate(model.NewBoard())
	assert.Equal(t, model.NoOutcome, outcome)
}

func TestEvaluateInProgress(t *testing.T) {
	outcome := Evaluate(boardOf(t, "XO.X.O..."))
	assert.Equal(t, model.NoOutcome, outcome)
}

func TestEvaluateWins(t *testing.T) {
	tests := []struct {
		name    string
		cells   string
		slot    int
		pattern [3]int
	}{
		{"top row", "XXXOO....", 0, [3]int{0, 1, 2}},
		{"middle row", "XX.OOO.X.", 1, [3]int{3, 4, 5}},
		{"bottom row", "OO.XO.XXX", 0, [3]int{6, 7, 8}},
		{"left column", "XO.XO.X..", 0, [3]int{0, 3, 6}},
		{"middle column", "XOX.O..O.", 1, [3]int{1, 4, 7}},
		{"right column", "XXO.XO..O", 1, [3]int{2, 5, 8}},
		{"main diagonal", "XO..XO..X", 0, [3]int{0, 4, 8}},
		{"anti diagonal", "XXO.OXO..", 1, [3]int{2, 4, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Evaluate(boardOf(t, tt.cells))
			require.Equal(t, model.OutcomeTagWin, outcome.Tag)
			assert.Equal(t, tt.slot, outcome.WinnerSlot)
			assert.Equal(t, tt.pattern, outcome.Pattern)
		})
	}
}

func TestEvaluateDraw(t *testing.T) {
	// X X O
	// O O X
	// X X O
	outcome := Evaluate(boardOf(t, "XXOOOXXXO"))
	assert.Equal(t, model.DrawOutcome(), outcome)
}

func TestEvaluateFullBoardWithLineIsWin(t *testing.T) {
	// A full board where a line completed on the last move is a win,
	// not a draw
	// X X X
	// O O X
	// O X O
	outcome := Evaluate(boardOf(t, "XXXOOXOXO"))
	require.Equal(t, model.OutcomeTagWin, outcome.Tag)
	assert.Equal(t, 0, outcome.WinnerSlot)
}

// lineOwner returns the slot owning the given line, or -1
func lineOwner(b model.Board, pattern [3]int) int {
	first := b[pattern[0]]
	if first == model.CellEmpty {
		return -1
	}
	if b[pattern[1]] == first && b[pattern[2]] == first {
		return int(first)
	}
	return -1
}

func TestEvaluateWinIsSound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var b model.Board
		for i := range b {
			b[i] = model.Cell(rapid.Int8Range(-1, 1).Draw(t, "cell"))
		}

		outcome := Evaluate(b)

		switch outcome.Tag {
		case model.OutcomeTagWin:
			// The reported line must actually be owned by the winner
			owner := lineOwner(b, outcome.Pattern)
			if owner != outcome.WinnerSlot {
				t.Fatalf("reported pattern %v not owned by slot %d", outcome.Pattern, outcome.WinnerSlot)
			}
		case model.OutcomeTagDraw:
			// A draw requires a full board with no owned line
			if !b.IsFull() {
				t.Fatalf("draw reported on a board with open cells")
			}
			for _, pattern := range winningPatterns {
				if lineOwner(b, pattern) >= 0 {
					t.Fatalf("draw reported despite owned line %v", pattern)
				}
			}
		case model.OutcomeNone:
			// No result requires no owned line and an open cell
			for _, pattern := range winningPatterns {
				if lineOwner(b, pattern) >= 0 {
					t.Fatalf("missed owned line %v", pattern)
				}
			}
			if b.IsFull() {
				t.Fatalf("full board without a line must be a draw")
			}
		}
	})
}
