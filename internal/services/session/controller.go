// Package session owns the per-session game state machine: move
// validation, win/draw detection, turn alternation, and the
// reset-for-rematch cycle.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
	"github.com/gridmatch/gridmatch/internal/dependencies/random"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/rules"
	"github.com/gridmatch/gridmatch/internal/storage"
)

const (
	sessionIDLength   = 12
	sessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultResetDelay is the window occupants get to observe a
	// terminal board before it clears for the rematch
	DefaultResetDelay = 2 * time.Second
)

// ScoreKeeper is the slice of the player registry the session
// controller needs: outcome bookkeeping and occupant lookups for
// snapshots.
type ScoreKeeper interface {
	RecordOutcome(ctx context.Context, playerID model.PlayerID, kind model.OutcomeKind) (model.Score, error)
	GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error)
}

// Notifier receives session events for fan-out to occupants
type Notifier interface {
	SessionStarted(ctx context.Context, snapshot model.Snapshot)
	SessionUpdated(ctx context.Context, snapshot model.Snapshot)
	Outcome(ctx context.Context, sessionID model.SessionID, payload model.OutcomePayload)
	PeerDeparted(ctx context.Context, sessionID model.SessionID, remaining model.PlayerID)
	SessionClosed(sessionID model.SessionID)
}

// Controller manages the session state machine
type Controller struct {
	storage    storage.Storage
	scores     ScoreKeeper
	clock      clock.Clock
	random     random.Random
	notifier   Notifier
	logger     *slog.Logger
	resetDelay time.Duration

	// Each session serializes its operations through its own mutex;
	// cross-session operations never contend.
	mu       sync.Mutex
	runtimes map[model.SessionID]*runtime
}

// runtime holds the in-process state of one live session: its lock
// and any pending reset timer
type runtime struct {
	mu         sync.Mutex
	resetTimer clock.Timer
}

// NewController creates a new session Controller
func NewController(
	store storage.Storage,
	scores ScoreKeeper,
	clk clock.Clock,
	rnd random.Random,
	notifier Notifier,
	resetDelay time.Duration,
	logger *slog.Logger,
) *Controller {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &Controller{
		storage:    store,
		scores:     scores,
		clock:      clk,
		random:     rnd,
		notifier:   notifier,
		logger:     logger.With(slog.String("component", "session")),
		resetDelay: resetDelay,
		runtimes:   make(map[model.SessionID]*runtime),
	}
}

// Create constructs a new session seating the given player alone and
// broadcasts its initial snapshot. The session is published under its
// runtime lock, so a join discovering it in the directory waits for the
// initial snapshot to go out first.
func (c *Controller) Create(ctx context.Context, player *model.Player) (*model.Session, error) {
	id := model.SessionID(c.random.String(sessionIDLength, sessionIDAlphabet))

	rt := c.acquire(id)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	now := c.clock.Now()
	sess := &model.Session{
		ID:        id,
		Board:     model.NewBoard(),
		Occupants: []model.PlayerID{player.ID},
		Turn:      0,
		StartTurn: 0,
		Phase:     model.PhaseWaitingForOpponent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(sess.ID)),
		slog.String("player_id", string(player.ID)),
	)

	c.notifier.SessionUpdated(ctx, c.snapshot(ctx, sess))
	return sess, nil
}

// Join seats the player in the session. Joining a full session or one
// the player already occupies is a documented no-op, which makes
// duplicate join requests harmless. Seating the second player starts
// the game.
func (c *Controller) Join(ctx context.Context, id model.SessionID, player *model.Player) (*model.Session, error) {
	rt := c.acquire(id)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if sess.SlotOf(player.ID) >= 0 {
		return sess, nil
	}
	if !sess.HasOpenSlot() {
		c.logger.Debug("join rejected: session full",
			slog.String("session_id", string(id)),
			slog.String("player_id", string(player.ID)),
		)
		return sess, nil
	}

	sess.Occupants = append(sess.Occupants, player.ID)
	sess.UpdatedAt = c.clock.Now()

	started := len(sess.Occupants) == model.MaxOccupants
	if started {
		sess.Phase = model.PhaseInProgress
	}

	if err := c.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	snap := c.snapshot(ctx, sess)
	if started {
		c.logger.Info("session started", slog.String("session_id", string(id)))
		c.notifier.SessionStarted(ctx, snap)
	} else {
		c.notifier.SessionUpdated(ctx, snap)
	}

	return sess, nil
}

// Play attempts a move. Every failed precondition is a silent
// rejection: no state change, no broadcast, debug log only. Benign UI
// races (double clicks, moves racing an outcome) are expected and not
// worth surfacing as errors.
func (c *Controller) Play(ctx context.Context, id model.SessionID, playerID model.PlayerID, cell int) (*model.Session, error) {
	rt := c.acquire(id)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	reject := func(reason string) (*model.Session, error) {
		c.logger.Debug("move rejected",
			slog.String("session_id", string(id)),
			slog.String("player_id", string(playerID)),
			slog.Int("cell", cell),
			slog.String("reason", reason),
		)
		return sess, nil
	}

	if sess.Phase != model.PhaseInProgress {
		return reject("session not in progress")
	}
	if cell < 0 || cell >= model.BoardSize {
		return reject("cell out of range")
	}
	if sess.Board[cell] != model.CellEmpty {
		return reject("cell occupied")
	}
	if sess.MoverID() != playerID {
		return reject("not this player's turn")
	}

	sess.Board[cell] = model.Cell(sess.Turn)
	sess.UpdatedAt = c.clock.Now()

	outcome := rules.Evaluate(sess.Board)
	if outcome.Tag == model.OutcomeNone {
		sess.Turn = 1 - sess.Turn
		if err := c.storage.SaveSession(ctx, sess); err != nil {
			return nil, err
		}
		c.notifier.SessionUpdated(ctx, c.snapshot(ctx, sess))
		return sess, nil
	}

	sess.Phase = model.PhaseConcluded
	if err := c.storage.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	// Occupants see the terminal board first, then the result
	c.notifier.SessionUpdated(ctx, c.snapshot(ctx, sess))
	c.concludeLocked(ctx, sess, outcome)

	rt.resetTimer = c.clock.AfterFunc(c.resetDelay, func() {
		c.resetAfterDelay(sess.ID)
	})

	return sess, nil
}

// concludeLocked broadcasts the outcome and records scores. The
// session's runtime lock is held by the caller.
func (c *Controller) concludeLocked(ctx context.Context, sess *model.Session, outcome model.Outcome) {
	switch outcome.Tag {
	case model.OutcomeTagWin:
		winnerID := sess.Occupants[outcome.WinnerSlot]
		c.notifier.Outcome(ctx, sess.ID, model.OutcomePayload{
			Kind:     model.OutcomeWin,
			WinnerID: winnerID,
			Pattern:  outcome.Pattern[:],
		})
		c.logger.Info("session won",
			slog.String("session_id", string(sess.ID)),
			slog.String("winner_id", string(winnerID)),
		)
		for slot, playerID := range sess.Occupants {
			kind := model.OutcomeLoss
			if slot == outcome.WinnerSlot {
				kind = model.OutcomeWin
			}
			c.recordOutcome(ctx, sess.ID, playerID, kind)
		}

	case model.OutcomeTagDraw:
		c.notifier.Outcome(ctx, sess.ID, model.OutcomePayload{Kind: model.OutcomeDraw})
		c.logger.Info("session drawn", slog.String("session_id", string(sess.ID)))
		for _, playerID := range sess.Occupants {
			c.recordOutcome(ctx, sess.ID, playerID, model.OutcomeDraw)
		}
	}
}

// recordOutcome updates one player's score. An unknown player means
// the connection already closed; log and continue.
func (c *Controller) recordOutcome(ctx context.Context, sessionID model.SessionID, playerID model.PlayerID, kind model.OutcomeKind) {
	if _, err := c.scores.RecordOutcome(ctx, playerID, kind); err != nil {
		c.logger.Debug("score not recorded",
			slog.String("session_id", string(sessionID)),
			slog.String("player_id", string(playerID)),
			slog.Any("error", err),
		)
	}
}

// resetAfterDelay fires when the post-outcome timer elapses. The timer
// is cancelled on departure, but a session destroyed between firing
// and locking is simply skipped. Looking the runtime up without
// creating one keeps a late firing from resurrecting the map entry of
// a destroyed session.
func (c *Controller) resetAfterDelay(id model.SessionID) {
	ctx := context.Background()

	rt := c.lookup(id)
	if rt == nil {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.resetTimer = nil

	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return
	}

	if len(sess.Occupants) < model.MaxOccupants {
		c.destroyLocked(ctx, sess.ID)
		return
	}

	sess.Board = model.NewBoard()
	sess.StartTurn = 1 - sess.StartTurn
	sess.Turn = sess.StartTurn
	sess.Phase = model.PhaseInProgress
	sess.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, sess); err != nil {
		c.logger.Error("failed to save reset session",
			slog.String("session_id", string(id)),
			slog.Any("error", err),
		)
		return
	}

	c.logger.Info("session reset for rematch",
		slog.String("session_id", string(id)),
		slog.Int("start_turn", sess.StartTurn),
	)
	c.notifier.SessionUpdated(ctx, c.snapshot(ctx, sess))
}

// Leave removes the player from the session. A session short of a full
// pair cannot continue: the remaining occupant, if any, is notified
// once and the session is destroyed.
func (c *Controller) Leave(ctx context.Context, id model.SessionID, playerID model.PlayerID) error {
	rt := c.acquire(id)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	sess, err := c.storage.GetSession(ctx, id)
	if err != nil {
		// Already gone; racing disconnects are expected
		return nil
	}

	slot := sess.SlotOf(playerID)
	if slot < 0 {
		return nil
	}

	if rt.resetTimer != nil {
		rt.resetTimer.Stop()
		rt.resetTimer = nil
	}

	sess.Occupants = append(sess.Occupants[:slot], sess.Occupants[slot+1:]...)

	c.logger.Info("player left session",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
	)

	if len(sess.Occupants) == 1 {
		c.notifier.PeerDeparted(ctx, id, sess.Occupants[0])
	}
	c.destroyLocked(ctx, id)
	return nil
}

// Get retrieves a session by id
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// Snapshot projects the session for external consumption
func (c *Controller) Snapshot(ctx context.Context, sess *model.Session) model.Snapshot {
	return c.snapshot(ctx, sess)
}

// destroyLocked removes the session from the directory and tears down
// its runtime state. The runtime lock is held by the caller.
func (c *Controller) destroyLocked(ctx context.Context, id model.SessionID) {
	if err := c.storage.DeleteSession(ctx, id); err != nil {
		c.logger.Error("failed to delete session",
			slog.String("session_id", string(id)),
			slog.Any("error", err),
		)
	}
	c.notifier.SessionClosed(id)

	c.mu.Lock()
	delete(c.runtimes, id)
	c.mu.Unlock()

	c.logger.Info("session destroyed", slog.String("session_id", string(id)))
}

// lookup returns the runtime for a session if it exists, nil otherwise
func (c *Controller) lookup(id model.SessionID) *runtime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runtimes[id]
}

// acquire returns the runtime for a session, creating it if needed
func (c *Controller) acquire(id model.SessionID) *runtime {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt, ok := c.runtimes[id]
	if !ok {
		rt = &runtime{}
		c.runtimes[id] = rt
	}
	return rt
}

// snapshot resolves occupants in slot order. An occupant missing from
// the registry (disconnect racing a broadcast) is projected as a bare
// id.
func (c *Controller) snapshot(ctx context.Context, sess *model.Session) model.Snapshot {
	occupants := make([]*model.Player, len(sess.Occupants))
	for i, playerID := range sess.Occupants {
		player, err := c.scores.GetPlayer(ctx, playerID)
		if err != nil {
			player = &model.Player{ID: playerID}
		}
		occupants[i] = player
	}
	return model.NewSnapshot(sess, occupants)
}
