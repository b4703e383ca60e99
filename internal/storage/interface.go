package storage

import (
	"context"

	"github.com/pokertable/pokertable/internal/model"
)

// Txn is the view of a game's records inside one atomic transaction.
//
// All reads observe a consistent snapshot of the game scoped by the
// surrounding UpdateGame call, including any writes staged earlier in
// the same transaction. Writes commit together when the transaction
// function returns nil and are discarded otherwise.
type Txn interface {
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GameExists(ctx context.Context, id model.GameID) (bool, error)
	SaveGame(ctx context.Context, game *model.Game) error

	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByIdentity(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error)
	CountPlayers(ctx context.Context, gameID model.GameID) (int, error)
	ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error)
	SavePlayer(ctx context.Context, player *model.Player) error
}

// Storage defines the interface for data persistence.
//
// The direct read methods serve the query surface and observe committed
// state only. UpdateGame provides the transactional contract the table
// operations rely on: transactions touching the same game serialize
// (commit or abort entirely, never interleaved), while transactions on
// disjoint games may run in parallel.
type Storage interface {
	// Game reads
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GameExists(ctx context.Context, id model.GameID) (bool, error)
	ListGames(ctx context.Context) ([]*model.Game, error)

	// Player reads
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByIdentity(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error)
	CountPlayers(ctx context.Context, gameID model.GameID) (int, error)
	ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error)

	// UpdateGame runs fn as one atomic transaction over the given
	// game's records. The game does not need to exist yet; CreateGame
	// transactions run against the id they are about to insert.
	UpdateGame(ctx context.Context, gameID model.GameID, fn func(txn Txn) error) error

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, identity model.Identity) (*model.Account, error)

	// Registered account operations
	SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error
	GetRegisteredAccount(ctx context.Context, identity model.Identity) (*model.RegisteredAccount, error)
	GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error)
}
