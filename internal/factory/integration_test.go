package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pokertable/pokertable/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: complete table session from account creation to a settled pot
func (s *IntegrationSuite) TestCompleteTableSession() {
	// Step 1: Create accounts for three players
	alice, err := s.app.AuthService.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)
	bob, err := s.app.AuthService.CreateGuestAccount(s.ctx, "Bob")
	s.Require().NoError(err)
	carol, err := s.app.AuthService.CreateGuestAccount(s.ctx, "Carol")
	s.Require().NoError(err)

	// Step 2: Alice opens a table
	s.app.MockRandom.QueueString("TABLE1")
	game, err := s.app.TableController.CreateGame(s.ctx, "Friday Night", 100, 3)
	s.Require().NoError(err)
	s.Equal(model.GameID("TABLE1"), game.ID)
	s.Equal(model.GameStatusWaiting, game.Status)

	// Step 3: Everyone buys in
	for _, session := range []*struct {
		identity model.Identity
		name     string
	}{
		{alice.Identity, "Alice"},
		{bob.Identity, "Bob"},
		{carol.Identity, "Carol"},
	} {
		player, err := s.app.TableController.JoinGame(s.ctx, game.ID, session.identity, session.name)
		s.Require().NoError(err)
		s.Equal(uint64(100), player.Chips)
	}

	// The table is now full
	dave, err := s.app.AuthService.CreateGuestAccount(s.ctx, "Dave")
	s.Require().NoError(err)
	_, err = s.app.TableController.JoinGame(s.ctx, game.ID, dave.Identity, "Dave")
	s.ErrorIs(err, model.ErrGameFull)

	// Step 4: A betting round
	s.Require().NoError(s.app.TableController.PlaceBet(s.ctx, game.ID, alice.Identity, 30))
	s.Require().NoError(s.app.TableController.PlaceBet(s.ctx, game.ID, bob.Identity, 30))
	s.Require().NoError(s.app.TableController.PlaceBet(s.ctx, game.ID, carol.Identity, 30))

	// Step 5: Bob folds, Alice raises, Carol calls
	s.app.MockClock.Advance(time.Minute)
	s.Require().NoError(s.app.TableController.FoldHand(s.ctx, game.ID, bob.Identity))
	s.Require().NoError(s.app.TableController.PlaceBet(s.ctx, game.ID, alice.Identity, 20))
	s.Require().NoError(s.app.TableController.PlaceBet(s.ctx, game.ID, carol.Identity, 20))

	// Step 6: Verify final state
	final, err := s.app.TableController.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(uint64(130), final.PotAmount)

	players, err := s.app.TableController.ListPlayers(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Len(players, 3)

	// Every chip is either in a stack or in the pot
	total := final.PotAmount
	for _, p := range players {
		total += p.Chips
	}
	s.Equal(uint64(300), total)

	bobSeat, err := s.app.TableController.GetPlayer(s.ctx, game.ID, bob.Identity)
	s.Require().NoError(err)
	s.True(bobSeat.IsFolded)
	s.Equal(uint64(70), bobSeat.Chips)
}

// Test: operations target the right game when several are open
func (s *IntegrationSuite) TestParallelTables() {
	alice, err := s.app.AuthService.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("TABLE1", "TABLE2")
	first, err := s.app.TableController.CreateGame(s.ctx, "Low Stakes", 100, 6)
	s.Require().NoError(err)
	second, err := s.app.TableController.CreateGame(s.ctx, "High Stakes", 5000, 6)
	s.Require().NoError(err)

	_, err = s.app.TableController.JoinGame(s.ctx, first.ID, alice.Identity, "Alice")
	s.Require().NoError(err)
	_, err = s.app.TableController.JoinGame(s.ctx, second.ID, alice.Identity, "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.app.TableController.PlaceBet(s.ctx, first.ID, alice.Identity, 50))

	lowSeat, err := s.app.TableController.GetPlayer(s.ctx, first.ID, alice.Identity)
	s.Require().NoError(err)
	s.Equal(uint64(50), lowSeat.Chips)

	highSeat, err := s.app.TableController.GetPlayer(s.ctx, second.ID, alice.Identity)
	s.Require().NoError(err)
	s.Equal(uint64(5000), highSeat.Chips)

	untouched, err := s.app.TableController.GetGame(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(uint64(0), untouched.PotAmount)
}

func (s *IntegrationSuite) TestRegisteredAccountFlow() {
	registered, err := s.app.AuthService.RegisterAccount(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	login, err := s.app.AuthService.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal(registered.Identity, login.Identity)

	s.app.MockRandom.QueueString("TABLE1")
	game, err := s.app.TableController.CreateGame(s.ctx, "Members Only", 1000, 2)
	s.Require().NoError(err)

	player, err := s.app.TableController.JoinGame(s.ctx, game.ID, login.Identity, login.Account.DisplayName)
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)
}
