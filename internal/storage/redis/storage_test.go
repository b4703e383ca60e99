package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/pokertable/pokertable/internal/model"
	"github.com/pokertable/pokertable/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) saveGame(game *model.Game) {
	err := s.storage.UpdateGame(s.ctx, game.ID, func(txn storage.Txn) error {
		return txn.SaveGame(s.ctx, game)
	})
	s.Require().NoError(err)
}

func (s *StorageSuite) savePlayer(player *model.Player) {
	err := s.storage.UpdateGame(s.ctx, player.GameID, func(txn storage.Txn) error {
		return txn.SavePlayer(s.ctx, player)
	})
	s.Require().NoError(err)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:         "ABC234",
		Name:       "Test Table",
		Status:     model.GameStatusWaiting,
		BuyIn:      1000,
		MaxPlayers: 6,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	s.saveGame(game)

	retrieved, err := s.storage.GetGame(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Name, retrieved.Name)
	s.Equal(game.BuyIn, retrieved.BuyIn)
	s.Equal(game.Status, retrieved.Status)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGameExists() {
	exists, err := s.storage.GameExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)

	s.saveGame(&model.Game{ID: "ABC234"})

	exists, err = s.storage.GameExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestListGames() {
	s.saveGame(&model.Game{ID: "ABC234", Name: "First"})
	s.saveGame(&model.Game{ID: "XYZ789", Name: "Second"})

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:       "p_1",
		GameID:   "ABC234",
		Identity: "id_alice",
		Name:     "Alice",
		Chips:    1000,
		IsActive: true,
	}

	s.savePlayer(player)

	retrieved, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal(player.Name, retrieved.Name)
	s.Equal(player.Chips, retrieved.Chips)
	s.True(retrieved.IsActive)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByIdentity() {
	s.savePlayer(&model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice", Name: "Alice"})
	s.savePlayer(&model.Player{ID: "p_2", GameID: "XYZ789", Identity: "id_alice", Name: "Alice Elsewhere"})

	retrieved, err := s.storage.GetPlayerByIdentity(s.ctx, "ABC234", "id_alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), retrieved.ID)

	retrieved, err = s.storage.GetPlayerByIdentity(s.ctx, "XYZ789", "id_alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_2"), retrieved.ID)

	_, err = s.storage.GetPlayerByIdentity(s.ctx, "ABC234", "id_bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCountAndListPlayers() {
	s.savePlayer(&model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice"})
	s.savePlayer(&model.Player{ID: "p_2", GameID: "ABC234", Identity: "id_bob"})
	s.savePlayer(&model.Player{ID: "p_3", GameID: "XYZ789", Identity: "id_carol"})

	count, err := s.storage.CountPlayers(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(2, count)

	players, err := s.storage.ListPlayers(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *StorageSuite) TestSavePlayerOverwriteKeepsCount() {
	s.savePlayer(&model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice", Chips: 1000})
	s.savePlayer(&model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice", Chips: 700})

	count, err := s.storage.CountPlayers(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(1, count)

	retrieved, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal(uint64(700), retrieved.Chips)
}

// Transaction tests

func (s *StorageSuite) TestUpdateGameCommitsAllWrites() {
	s.saveGame(&model.Game{ID: "ABC234", MaxPlayers: 6})

	err := s.storage.UpdateGame(s.ctx, "ABC234", func(txn storage.Txn) error {
		game, err := txn.GetGame(s.ctx, "ABC234")
		if err != nil {
			return err
		}
		game.PotAmount = 300
		if err := txn.SaveGame(s.ctx, game); err != nil {
			return err
		}
		return txn.SavePlayer(s.ctx, &model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice", Chips: 700})
	})
	s.Require().NoError(err)

	game, err := s.storage.GetGame(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(uint64(300), game.PotAmount)

	player, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal(uint64(700), player.Chips)
}

func (s *StorageSuite) TestUpdateGameAbortDiscardsWrites() {
	s.saveGame(&model.Game{ID: "ABC234", PotAmount: 100})

	boom := errors.New("boom")
	err := s.storage.UpdateGame(s.ctx, "ABC234", func(txn storage.Txn) error {
		game, err := txn.GetGame(s.ctx, "ABC234")
		s.Require().NoError(err)
		game.PotAmount = 9999
		s.Require().NoError(txn.SaveGame(s.ctx, game))
		s.Require().NoError(txn.SavePlayer(s.ctx, &model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice"}))
		return boom
	})
	s.ErrorIs(err, boom)

	game, err := s.storage.GetGame(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(uint64(100), game.PotAmount)

	_, err = s.storage.GetPlayer(s.ctx, "p_1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, _ := s.storage.CountPlayers(s.ctx, "ABC234")
	s.Equal(0, count)
}

func (s *StorageSuite) TestTxnReadsSeeStagedWrites() {
	s.saveGame(&model.Game{ID: "ABC234", MaxPlayers: 6})

	err := s.storage.UpdateGame(s.ctx, "ABC234", func(txn storage.Txn) error {
		s.Require().NoError(txn.SavePlayer(s.ctx, &model.Player{ID: "p_1", GameID: "ABC234", Identity: "id_alice"}))

		count, err := txn.CountPlayers(s.ctx, "ABC234")
		s.Require().NoError(err)
		s.Equal(1, count)

		staged, err := txn.GetPlayerByIdentity(s.ctx, "ABC234", "id_alice")
		s.Require().NoError(err)
		s.Equal(model.PlayerID("p_1"), staged.ID)

		players, err := txn.ListPlayers(s.ctx, "ABC234")
		s.Require().NoError(err)
		s.Len(players, 1)

		return nil
	})
	s.Require().NoError(err)
}

func (s *StorageSuite) TestTxnGameExistsSeesStagedGame() {
	err := s.storage.UpdateGame(s.ctx, "ABC234", func(txn storage.Txn) error {
		exists, err := txn.GameExists(s.ctx, "ABC234")
		s.Require().NoError(err)
		s.False(exists)

		s.Require().NoError(txn.SaveGame(s.ctx, &model.Game{ID: "ABC234"}))

		exists, err = txn.GameExists(s.ctx, "ABC234")
		s.Require().NoError(err)
		s.True(exists)
		return nil
	})
	s.Require().NoError(err)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		Identity:    "id_1",
		DisplayName: "Alice",
		IsGuest:     true,
	}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccount(s.ctx, "id_1")
	s.Require().NoError(err)
	s.Equal(account.DisplayName, retrieved.DisplayName)
	s.True(retrieved.IsGuest)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestSaveAndGetRegisteredAccount() {
	ra := &model.RegisteredAccount{
		Identity:     "id_1",
		Username:     "alice",
		PasswordHash: "hash123",
	}

	err := s.storage.SaveRegisteredAccount(s.ctx, ra)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredAccount(s.ctx, "id_1")
	s.Require().NoError(err)
	s.Equal(ra.Username, retrieved.Username)

	byUsername, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Identity("id_1"), byUsername.Identity)
}

func (s *StorageSuite) TestGetRegisteredAccountByUsernameNotFound() {
	_, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}
