package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gridmatch/gridmatch/internal/dependencies/mocks"
	"github.com/gridmatch/gridmatch/internal/model"
	"github.com/gridmatch/gridmatch/internal/storage/memory"
	"github.com/gridmatch/gridmatch/internal/testutil"
)

// fakeNotifier records registry broadcasts
type fakeNotifier struct {
	playerLists [][]*model.Player
	scores      []model.ScoreUpdatedPayload
}

func (n *fakeNotifier) PlayerList(_ context.Context, players []*model.Player) {
	n.playerLists = append(n.playerLists, players)
}

func (n *fakeNotifier) ScoreUpdated(_ context.Context, playerID model.PlayerID, score model.Score) {
	n.scores = append(n.scores, model.ScoreUpdatedPayload{PlayerID: playerID, Score: score})
}

type ServiceSuite struct {
	suite.Suite

	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	notifier *fakeNotifier
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.notifier = &fakeNotifier{}
	s.service = New(s.storage, s.clock, s.random, s.notifier, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(name, idSuffix string) *Identity {
	s.random.QueueString(idSuffix)
	identity, err := s.service.Register(s.ctx, name)
	s.Require().NoError(err)
	return identity
}

// Register tests

func (s *ServiceSuite) TestRegisterIssuesIdentity() {
	identity := s.register("Alice", "alice0000001")

	s.Equal(model.PlayerID("p_alice0000001"), identity.Player.ID)
	s.Equal("Alice", identity.Player.DisplayName)
	s.Equal(model.Score{}, identity.Player.Score)
	s.Equal(s.clock.Now(), identity.Player.CreatedAt)
	s.NotEmpty(identity.Token)
}

func (s *ServiceSuite) TestRegisterTrimsDisplayName() {
	identity := s.register("  Alice  ", "alice0000001")
	s.Equal("Alice", identity.Player.DisplayName)
}

func (s *ServiceSuite) TestRegisterRejectsBlankName() {
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.service.Register(s.ctx, name)
		s.ErrorIs(err, model.ErrInvalidName)
	}
	s.Empty(s.notifier.playerLists)
}

func (s *ServiceSuite) TestRegisterAllowsDuplicateDisplayNames() {
	first := s.register("Alice", "alice0000001")
	second := s.register("Alice", "alice0000002")

	s.NotEqual(first.Player.ID, second.Player.ID)
	s.NotEqual(first.Token, second.Token)
}

func (s *ServiceSuite) TestRegisterBroadcastsPlayerList() {
	s.register("Alice", "alice0000001")
	s.register("Bob", "bob000000001")

	s.Require().Len(s.notifier.playerLists, 2)
	last := s.notifier.playerLists[1]
	s.Require().Len(last, 2)
	s.Equal("Alice", last[0].DisplayName)
	s.Equal("Bob", last[1].DisplayName)
}

// Token tests

func (s *ServiceSuite) TestValidateToken() {
	identity := s.register("Alice", "alice0000001")

	player, err := s.service.ValidateToken(s.ctx, identity.Token)
	s.Require().NoError(err)
	s.Equal(identity.Player.ID, player.ID)
}

func (s *ServiceSuite) TestValidateUnknownToken() {
	_, err := s.service.ValidateToken(s.ctx, "bogus")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestUnregisterRevokesTokens() {
	identity := s.register("Alice", "alice0000001")

	s.Require().NoError(s.service.Unregister(s.ctx, identity.Player.ID))

	_, err := s.service.ValidateToken(s.ctx, identity.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

// Unregister tests

func (s *ServiceSuite) TestUnregisterRemovesFromList() {
	alice := s.register("Alice", "alice0000001")
	s.register("Bob", "bob000000001")

	s.Require().NoError(s.service.Unregister(s.ctx, alice.Player.ID))

	players, err := s.service.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("Bob", players[0].DisplayName)

	// Removal is broadcast too
	last := s.notifier.playerLists[len(s.notifier.playerLists)-1]
	s.Len(last, 1)
}

func (s *ServiceSuite) TestUnregisterAbsentPlayerIsIdempotent() {
	s.Require().NoError(s.service.Unregister(s.ctx, "p_ghost"))
	s.Require().NoError(s.service.Unregister(s.ctx, "p_ghost"))
}

// RecordOutcome tests

func (s *ServiceSuite) TestRecordOutcomeAccumulates() {
	identity := s.register("Alice", "alice0000001")
	id := identity.Player.ID

	for _, kind := range []model.OutcomeKind{
		model.OutcomeWin, model.OutcomeWin, model.OutcomeLoss, model.OutcomeDraw,
	} {
		_, err := s.service.RecordOutcome(s.ctx, id, kind)
		s.Require().NoError(err)
	}

	player, err := s.service.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.Score{Wins: 2, Losses: 1, Draws: 1}, player.Score)

	s.Require().Len(s.notifier.scores, 4)
	s.Equal(model.Score{Wins: 2, Losses: 1, Draws: 1}, s.notifier.scores[3].Score)
	s.Equal(id, s.notifier.scores[3].PlayerID)
}

func (s *ServiceSuite) TestRecordOutcomeUnknownPlayer() {
	_, err := s.service.RecordOutcome(s.ctx, "p_ghost", model.OutcomeWin)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Empty(s.notifier.scores)
}

func (s *ServiceSuite) TestListPlayersInRegistrationOrder() {
	s.register("Carol", "carol0000001")
	s.register("Alice", "alice0000001")
	s.register("Bob", "bob000000001")

	players, err := s.service.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Carol", players[0].DisplayName)
	s.Equal("Alice", players[1].DisplayName)
	s.Equal("Bob", players[2].DisplayName)
}
