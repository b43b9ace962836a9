// Package rules evaluates a 3x3 board for a win or draw.
package rules

import "github.com/gridmatch/gridmatch/internal/model"

// winningPatterns enumerates the 8 three-in-a-row lines in a fixed
// order: rows top to bottom, columns left to right, then the two
// diagonals. The first fully-owned line decides the reported pattern.
var winningPatterns = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate inspects a post-move board and returns the tagged outcome:
// a win for the slot owning a complete line, a draw when all nine
// cells are claimed with no line owned, or none while play continues.
func Evaluate(board model.Board) model.Outcome {
	for _, pattern := range winningPatterns {
		first := board[pattern[0]]
		if first == model.CellEmpty {
			continue
		}
		if board[pattern[1]] == first && board[pattern[2]] == first {
			return model.WinOutcome(int(first), pattern)
		}
	}

	if board.IsFull() {
		return model.DrawOutcome()
	}

	return model.NoOutcome
}
