package matchmaker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gridmatch/gridmatch/internal/dependencies/mocks"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/services/session"
	"github.com/gridmatch/gridmatch/internal/storage/memory"
	"github.com/gridmatch/gridmatch/internal/testutil"
)

// nopNotifier discards all session events
type nopNotifier struct{}

func (nopNotifier) SessionStarted(context.Context, model.Snapshot) {}
func (nopNotifier) SessionUpdated(context.Context, model.Snapshot) {}
func (nopNotifier) Outcome(context.Context, model.SessionID, model.OutcomePayload) {}
func (nopNotifier) PeerDeparted(context.Context, model.SessionID, model.PlayerID) {}
func (nopNotifier) SessionClosed(model.SessionID) {}

// staticScores resolves a fixed player set and ignores outcomes
type staticScores struct {
	players map[model.PlayerID]*model.Player
}

func (s *staticScores) RecordOutcome(_ context.Context, _ model.PlayerID, _ model.OutcomeKind) (model.Score, error) {
	return model.Score{}, nil
}

func (s *staticScores) GetPlayer(_ context.Context, playerID model.PlayerID) (*model.Player, error) {
	player, ok := s.players[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

type MatchmakerSuite struct {
	suite.Suite

	storage    *memory.Storage
	random     *mocks.MockRandom
	sessions   *session.Controller
	controller *Controller
	ctx        context.Context

	alice *model.Player
	bob   *model.Player
	carol *model.Player
}

func TestMatchmakerSuite(t *testing.T) {
	suite.Run(t, new(MatchmakerSuite))
}

func (s *MatchmakerSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	s.alice = &model.Player{ID: "p_alice", DisplayName: "Alice"}
	s.bob = &model.Player{ID: "p_bob", DisplayName: "Bob"}
	s.carol = &model.Player{ID: "p_carol", DisplayName: "Carol"}

	scores := &staticScores{players: map[model.PlayerID]*model.Player{
		s.alice.ID: s.alice,
		s.bob.ID:   s.bob,
		s.carol.ID: s.carol,
	}}

	logger := testutil.NopLogger()
	s.sessions = session.NewController(s.storage, scores, clk, s.random, nopNotifier{}, 2*time.Second, logger)
	s.controller = NewController(s.storage, s.sessions, logger)
	s.ctx = context.Background()
}

func (s *MatchmakerSuite) TestFirstPlayerOpensSession() {
	s.random.QueueString("SESS00000001")

	sess, err := s.controller.FindOrCreate(s.ctx, s.alice)
	s.Require().NoError(err)

	s.Equal(model.SessionID("SESS00000001"), sess.ID)
	s.Equal(model.PhaseWaitingForOpponent, sess.Phase)
	s.Equal([]model.PlayerID{s.alice.ID}, sess.Occupants)
}

func (s *MatchmakerSuite) TestSecondPlayerFillsOpenSession() {
	s.random.QueueString("SESS00000001")
	first, err := s.controller.FindOrCreate(s.ctx, s.alice)
	s.Require().NoError(err)

	second, err := s.controller.FindOrCreate(s.ctx, s.bob)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal(model.PhaseInProgress, second.Phase)
	s.Equal([]model.PlayerID{s.alice.ID, s.bob.ID}, second.Occupants)
}

func (s *MatchmakerSuite) TestSeatedPlayerReturnsToOwnSession() {
	s.random.QueueString("SESS00000001")
	first, err := s.controller.FindOrCreate(s.ctx, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.FindOrCreate(s.ctx, s.bob)
	s.Require().NoError(err)

	// Repeated find requests keep at most one session per player
	again, err := s.controller.FindOrCreate(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)
	s.Len(again.Occupants, 2)
}

func (s *MatchmakerSuite) TestThirdPlayerOpensFreshSession() {
	s.random.QueueString("SESS00000001", "SESS00000002")
	first, err := s.controller.FindOrCreate(s.ctx, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.FindOrCreate(s.ctx, s.bob)
	s.Require().NoError(err)

	third, err := s.controller.FindOrCreate(s.ctx, s.carol)
	s.Require().NoError(err)

	s.NotEqual(first.ID, third.ID)
	s.Equal(model.PhaseWaitingForOpponent, third.Phase)
}

func (s *MatchmakerSuite) TestOldestOpenSessionWinsTieBreak() {
	// Two sessions waiting; the joiner goes to the first one opened
	s.random.QueueString("SESS00000001", "SESS00000002")
	first, err := s.sessions.Create(s.ctx, s.alice)
	s.Require().NoError(err)
	_, err = s.sessions.Create(s.ctx, s.bob)
	s.Require().NoError(err)

	matched, err := s.controller.FindOrCreate(s.ctx, s.carol)
	s.Require().NoError(err)

	s.Equal(first.ID, matched.ID)
	s.Equal([]model.PlayerID{s.alice.ID, s.carol.ID}, matched.Occupants)
}

func (s *MatchmakerSuite) TestLeaveAllClearsSeatedSessions() {
	s.random.QueueString("SESS00000001")
	sess, err := s.controller.FindOrCreate(s.ctx, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.FindOrCreate(s.ctx, s.bob)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.LeaveAll(s.ctx, s.alice.ID))

	_, err = s.sessions.Get(s.ctx, sess.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *MatchmakerSuite) TestLeaveAllWithNoSessionsIsNoOp() {
	s.Require().NoError(s.controller.LeaveAll(s.ctx, s.alice.ID))
}

func (s *MatchmakerSuite) TestSimultaneousFindRequestsPair() {
	// Two players racing into an empty directory must end up in the
	// same session, never one each
	for round := 0; round < 100; round++ {
		s.SetupTest()
		s.random.QueueString("SESS00000001", "SESS00000002")

		var wg sync.WaitGroup
		for _, player := range []*model.Player{s.alice, s.bob} {
			wg.Add(1)
			go func(p *model.Player) {
				defer wg.Done()
				_, err := s.controller.FindOrCreate(s.ctx, p)
				s.NoError(err)
			}(player)
		}
		wg.Wait()

		sessions, err := s.storage.ListSessions(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(sessions, 1)
		s.Len(sessions[0].Occupants, 2)
		s.Equal(model.PhaseInProgress, sessions[0].Phase)
	}
}
