// Package registry issues ephemeral player identities and keeps the
// running scores of every live player.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gridmatch/gridmatch/internal/dependencies/clock"
	"github.com/gridmatch/gridmatch/internal/dependencies/random"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/storage"
)

// ErrInvalidToken is returned when a bearer token is unknown or revoked
var ErrInvalidToken = errors.New("invalid or revoked token")

const (
	playerIDLength   = 12
	playerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Identity is the reply to a successful registration
type Identity struct {
	Token  string
	Player model.Player
}

// Notifier receives registry change events for fan-out to clients
type Notifier interface {
	PlayerList(ctx context.Context, players []*model.Player)
	ScoreUpdated(ctx context.Context, playerID model.PlayerID, score model.Score)
}

// Service manages the live-player set
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	notifier Notifier
	logger   *slog.Logger

	// mu serializes registry mutations with their broadcasts so
	// observers never see a stale list after being told to refresh
	mu     sync.Mutex
	tokens map[string]model.PlayerID
}

// New creates a new registry Service
func New(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  store,
		clock:    clk,
		random:   rnd,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "registry")),
		tokens:   make(map[string]model.PlayerID),
	}
}

// Register allocates a fresh identity for the given display name.
// The trimmed name must be non-blank. The updated live-player list is
// broadcast to all connections.
func (s *Service) Register(ctx context.Context, displayName string) (*Identity, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player := &model.Player{
		ID:          model.PlayerID("p_" + s.random.String(playerIDLength, playerIDAlphabet)),
		DisplayName: name,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	s.tokens[token] = player.ID

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("display_name", name),
	)

	s.broadcastPlayerList(ctx)

	return &Identity{Token: token, Player: *player}, nil
}

// Unregister removes the player from the live set and revokes their
// tokens. Removing an absent player is a no-op.
func (s *Service) Unregister(ctx context.Context, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeletePlayer(ctx, playerID); err != nil {
		return err
	}

	for token, id := range s.tokens {
		if id == playerID {
			delete(s.tokens, token)
		}
	}

	s.logger.Info("player unregistered", slog.String("player_id", string(playerID)))

	s.broadcastPlayerList(ctx)
	return nil
}

// RecordOutcome increments the player's counter for the given outcome
// kind, notifies the player, and returns the updated score. An unknown
// player yields model.ErrPlayerNotFound; callers treat that as
// non-fatal since the connection may already have closed.
func (s *Service) RecordOutcome(ctx context.Context, playerID model.PlayerID, kind model.OutcomeKind) (model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return model.Score{}, err
	}

	switch kind {
	case model.OutcomeWin:
		player.Score.Wins++
	case model.OutcomeLoss:
		player.Score.Losses++
	case model.OutcomeDraw:
		player.Score.Draws++
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return model.Score{}, err
	}

	s.notifier.ScoreUpdated(ctx, playerID, player.Score)

	return player.Score, nil
}

// GetPlayer retrieves a live player by id
func (s *Service) GetPlayer(ctx context.Context, playerID model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, playerID)
}

// ListPlayers returns the live players in registration order
func (s *Service) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// ValidateToken resolves a bearer token to the live player it was
// issued to
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Player, error) {
	s.mu.Lock()
	playerID, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		return nil, ErrInvalidToken
	}

	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return player, nil
}

// broadcastPlayerList pushes the current list while s.mu is held
func (s *Service) broadcastPlayerList(ctx context.Context) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to list players for broadcast", slog.Any("error", err))
		return
	}
	s.notifier.PlayerList(ctx, players)
}
