// Package matchmaker assigns queueing players to open sessions.
package matchmaker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/session"
	"github.com/gridmatch/gridmatch/internal/storage"
)

// Controller pairs players into sessions using the session directory
type Controller struct {
	storage  storage.Storage
	sessions *session.Controller
	logger   *slog.Logger

	// Serializes directory scans against the joins and creates they
	// decide on. Without it two simultaneous first requests each see
	// an empty directory and create their own session instead of
	// pairing up.
	mu sync.Mutex
}

// NewController creates a new matchmaker Controller
func NewController(store storage.Storage, sessions *session.Controller, logger *slog.Logger) *Controller {
	return &Controller{
		storage:  store,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "matchmaker")),
	}
}

// FindOrCreate seats the player in a session. Any session with an open
// slot is acceptable since sessions are interchangeable; the
// deterministic tie-break is first match in directory insertion order.
// A player who already occupies a session is returned to it, keeping
// at most one session per player.
func (c *Controller) FindOrCreate(ctx context.Context, player *model.Player) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	directory, err := c.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	var open *model.Session
	for _, sess := range directory {
		if sess.SlotOf(player.ID) >= 0 {
			return sess, nil
		}
		if open == nil && sess.HasOpenSlot() {
			open = sess
		}
	}

	if open != nil {
		sess, err := c.sessions.Join(ctx, open.ID, player)
		if err == nil && sess.SlotOf(player.ID) >= 0 {
			c.logger.Info("matched player into open session",
				slog.String("session_id", string(sess.ID)),
				slog.String("player_id", string(player.ID)),
			)
			return sess, nil
		}
		if err != nil && !errors.Is(err, model.ErrSessionNotFound) {
			return nil, err
		}
		// Another process got the last seat or destroyed the session
		// between our scan and the join; fall through and create
	}

	c.logger.Info("no open session, creating one",
		slog.String("player_id", string(player.ID)),
	)
	return c.sessions.Create(ctx, player)
}

// Leave removes the player from the session; the session does not
// survive an incomplete pair
func (c *Controller) Leave(ctx context.Context, id model.SessionID, playerID model.PlayerID) error {
	return c.sessions.Leave(ctx, id, playerID)
}

// LeaveAll removes the player from whichever session seats them.
// Used for disconnects, where the client cannot name its session.
func (c *Controller) LeaveAll(ctx context.Context, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	directory, err := c.storage.ListSessions(ctx)
	if err != nil {
		return err
	}
	for _, sess := range directory {
		if sess.SlotOf(playerID) >= 0 {
			if err := c.sessions.Leave(ctx, sess.ID, playerID); err != nil {
				return err
			}
		}
	}
	return nil
}
