package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrInvalidName    = errors.New("display name must not be blank")
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
