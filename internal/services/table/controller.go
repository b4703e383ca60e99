package table

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pokertable/pokertable/internal/dependencies/clock"
	"github.com/pokertable/pokertable/internal/dependencies/random"
	"github.com/pokertable/pokertable/internal/model"
	"github.com/pokertable/pokertable/internal/storage"
)

const (
	// GameCodeLength is the length of generated game codes
	GameCodeLength = 6
	// GameCodeAlphabet is the characters used in game codes (avoid confusing chars)
	GameCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// maxCodeAttempts bounds regeneration when a generated code collides
	maxCodeAttempts = 5
)

// Controller is the transaction layer over the game and player records.
//
// Each operation runs as exactly one storage transaction: all its reads
// observe a consistent snapshot and all its writes commit together, or
// nothing commits and a typed error is returned. The controller takes
// no locks of its own; isolation comes entirely from the storage
// contract.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new table Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame opens a new table in the waiting state.
//
// Game codes are generated randomly and checked for existence inside
// the insert transaction, so a collision can never clobber an existing
// game; generation retries a bounded number of times before giving up
// with ErrGameExists.
func (c *Controller) CreateGame(ctx context.Context, name string, buyIn uint64, maxPlayers uint32) (*model.Game, error) {
	if maxPlayers < 1 {
		return nil, model.ErrInvalidCapacity
	}

	now := c.clock.Now()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		id := model.GameID(c.random.String(GameCodeLength, GameCodeAlphabet))

		game := &model.Game{
			ID:           id,
			Name:         name,
			Status:       model.GameStatusWaiting,
			CurrentRound: 0,
			PotAmount:    0,
			BuyIn:        buyIn,
			MaxPlayers:   maxPlayers,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err := c.storage.UpdateGame(ctx, id, func(txn storage.Txn) error {
			exists, err := txn.GameExists(ctx, id)
			if err != nil {
				return err
			}
			if exists {
				return model.ErrGameExists
			}
			return txn.SaveGame(ctx, game)
		})
		if errors.Is(err, model.ErrGameExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		c.logger.Info("game created",
			slog.String("game_id", string(id)),
			slog.Uint64("buy_in", buyIn),
			slog.Int("max_players", int(maxPlayers)),
		)
		return game, nil
	}

	return nil, model.ErrGameExists
}

// GetGame retrieves a game by id
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ListGames returns all games
func (c *Controller) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGames(ctx)
}

// ListPlayers returns all players seated in a game
func (c *Controller) ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.ListPlayers(ctx, gameID)
}

// GetPlayer returns the caller's seat in a game
func (c *Controller) GetPlayer(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error) {
	return c.storage.GetPlayerByIdentity(ctx, gameID, identity)
}

// JoinGame seats an identity at a table, granting it the buy-in.
//
// The existence, capacity and single-membership checks all evaluate
// against the same snapshot the insert commits into, so two joins
// racing for the last seat can never both succeed.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, identity model.Identity, name string) (*model.Player, error) {
	now := c.clock.Now()

	var player *model.Player
	err := c.storage.UpdateGame(ctx, gameID, func(txn storage.Txn) error {
		game, err := txn.GetGame(ctx, gameID)
		if err != nil {
			return err
		}

		count, err := txn.CountPlayers(ctx, gameID)
		if err != nil {
			return err
		}
		if count >= int(game.MaxPlayers) {
			return model.ErrGameFull
		}

		_, err = txn.GetPlayerByIdentity(ctx, gameID, identity)
		if err == nil {
			return model.ErrAlreadyJoined
		}
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return err
		}

		// Joining does not mutate the game record
		player = &model.Player{
			ID:         model.PlayerID("p_" + uuid.NewString()),
			GameID:     gameID,
			Identity:   identity,
			Name:       name,
			Chips:      game.BuyIn,
			IsActive:   true,
			IsFolded:   false,
			CurrentBet: 0,
			JoinedAt:   now,
		}
		return txn.SavePlayer(ctx, player)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(player.ID)),
	)
	return player, nil
}

// PlaceBet moves chips from the caller's stack into the game pot.
//
// The balance check happens strictly before the subtraction, and the
// player debit and pot credit commit in the same transaction; a failed
// game lookup aborts with both records untouched.
func (c *Controller) PlaceBet(ctx context.Context, gameID model.GameID, identity model.Identity, amount uint64) error {
	now := c.clock.Now()

	err := c.storage.UpdateGame(ctx, gameID, func(txn storage.Txn) error {
		player, err := txn.GetPlayerByIdentity(ctx, gameID, identity)
		if err != nil {
			return err
		}

		if player.Chips < amount {
			return model.ErrInsufficientChips
		}

		game, err := txn.GetGame(ctx, gameID)
		if err != nil {
			return err
		}

		player.Chips -= amount
		player.CurrentBet += amount
		game.PotAmount += amount
		game.UpdatedAt = now

		if err := txn.SavePlayer(ctx, player); err != nil {
			return err
		}
		return txn.SaveGame(ctx, game)
	})
	if err != nil {
		return err
	}

	c.logger.Debug("bet placed",
		slog.String("game_id", string(gameID)),
		slog.Uint64("amount", amount),
	)
	return nil
}

// FoldHand marks the caller's seat as folded.
//
// Folding is idempotent: refolding succeeds and only advances the
// game's updated_at. Committed chips stay in the pot.
func (c *Controller) FoldHand(ctx context.Context, gameID model.GameID, identity model.Identity) error {
	now := c.clock.Now()

	err := c.storage.UpdateGame(ctx, gameID, func(txn storage.Txn) error {
		player, err := txn.GetPlayerByIdentity(ctx, gameID, identity)
		if err != nil {
			return err
		}

		game, err := txn.GetGame(ctx, gameID)
		if err != nil {
			return err
		}

		player.IsFolded = true
		game.UpdatedAt = now

		if err := txn.SavePlayer(ctx, player); err != nil {
			return err
		}
		return txn.SaveGame(ctx, game)
	})
	if err != nil {
		return err
	}

	c.logger.Debug("hand folded", slog.String("game_id", string(gameID)))
	return nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, name string, buyIn uint64, maxPlayers uint32) (*model.Game, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
	ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	GetPlayer(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error)
	JoinGame(ctx context.Context, gameID model.GameID, identity model.Identity, name string) (*model.Player, error)
	PlaceBet(ctx context.Context, gameID model.GameID, identity model.Identity, amount uint64) error
	FoldHand(ctx context.Context, gameID model.GameID, identity model.Identity) error
}

var _ ControllerInterface = (*Controller)(nil)
