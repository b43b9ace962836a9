package redis

import (
	"fmt"

	"github.com/gridmatch/gridmatch/internal/model"
)

// Key prefix for all gridmatch data
const keyPrefix = "gridmatch"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerOrderKey returns the Redis key for the player insertion-order list
func playerOrderKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionOrderKey returns the Redis key for the session insertion-order list
func sessionOrderKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
