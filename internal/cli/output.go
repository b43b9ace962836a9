package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case RegisterResult:
		o.printRegisterResult(v)
	case PlayerList:
		o.printPlayerList(v)
	case SessionResult:
		o.printSession(v.Session)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Score response type
type Score struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Score       Score  `json:"score"`
}

// RegisterResult combines player and token
type RegisterResult struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// Occupant response type
type Occupant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Score       Score  `json:"score"`
}

// Session response type
type Session struct {
	ID        string     `json:"id"`
	Board     []int      `json:"board"`
	Occupants []Occupant `json:"occupants"`
	Turn      int        `json:"turn"`
	Phase     string     `json:"phase"`
}

// SessionResult wraps a session
type SessionResult struct {
	Session Session `json:"session"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Score: %dW %dL %dD\n", p.Score.Wins, p.Score.Losses, p.Score.Draws)
}

func (o *Output) printRegisterResult(r RegisterResult) {
	o.printPlayer(r.Player)
	fmt.Printf("Token: %s\n", r.Token)
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		fmt.Printf("  - %s (%s) %dW %dL %dD\n",
			p.DisplayName, p.ID, p.Score.Wins, p.Score.Losses, p.Score.Draws)
	}
}

// slot marks indexed by board value
var slotMarks = [...]string{"X", "O"}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Phase: %s\n", s.Phase)

	for slot, occ := range s.Occupants {
		turnStr := ""
		if slot == s.Turn {
			turnStr = " (to move)"
		}
		fmt.Printf("  %s: %s (%s)%s\n", slotMarks[slot], occ.DisplayName, occ.ID, turnStr)
	}

	if len(s.Board) == 9 {
		fmt.Println()
		o.printBoard(s.Board)
	}
}

func (o *Output) printBoard(board []int) {
	for row := 0; row < 3; row++ {
		if row > 0 {
			fmt.Println("---+---+---")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				fmt.Print("|")
			}
			cell := board[row*3+col]
			if cell < 0 || cell >= len(slotMarks) {
				// Show the cell index so players know what to play
				fmt.Printf(" %d ", row*3+col)
			} else {
				fmt.Printf(" %s ", slotMarks[cell])
			}
		}
		fmt.Println()
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
