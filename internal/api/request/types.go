package request

// RegisterRequest is the body for POST /players
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
}

// PlayRequest is the body for POST /sessions/{id}/play
type PlayRequest struct {
	Cell int `json:"cell"`
}
