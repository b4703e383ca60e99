package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pokertable/pokertable/internal/model"
	"github.com/pokertable/pokertable/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Records are stored as JSON values; the players-per-game and
// (game, identity) membership lookups are maintained as explicit index
// keys on the player write path. Transactions use optimistic
// WATCH/MULTI/EXEC on the game key and player index key, so two
// transactions against the same game serialize while disjoint games
// proceed in parallel.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Shared read helpers, usable both directly and inside a transaction

func getGame(ctx context.Context, c redis.Cmdable, id model.GameID) (*model.Game, error) {
	data, err := c.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func gameExists(ctx context.Context, c redis.Cmdable, id model.GameID) (bool, error) {
	exists, err := c.Exists(ctx, gameKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func getPlayer(ctx context.Context, c redis.Cmdable, id model.PlayerID) (*model.Player, error) {
	data, err := c.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func getPlayerByIdentity(ctx context.Context, c redis.Cmdable, gameID model.GameID, identity model.Identity) (*model.Player, error) {
	playerIDStr, err := c.Get(ctx, identityIndexKey(gameID, identity)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return getPlayer(ctx, c, model.PlayerID(playerIDStr))
}

func countPlayers(ctx context.Context, c redis.Cmdable, gameID model.GameID) (int, error) {
	count, err := c.SCard(ctx, playersForGameIndexKey(gameID)).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func listPlayers(ctx context.Context, c redis.Cmdable, gameID model.GameID) ([]*model.Player, error) {
	playerKeys, err := c.SMembers(ctx, playersForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	if len(playerKeys) == 0 {
		return []*model.Player{}, nil
	}

	values, err := c.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
	}

	return players, nil
}

// Game reads

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getGame(ctx, s.client, id)
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	return gameExists(ctx, s.client, id)
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	gameKeys, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(gameKeys) == 0 {
		return []*model.Game{}, nil
	}

	values, err := s.client.MGet(ctx, gameKeys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			continue
		}
		games = append(games, &game)
	}

	return games, nil
}

// Player reads

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getPlayer(ctx, s.client, id)
}

func (s *Storage) GetPlayerByIdentity(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error) {
	return getPlayerByIdentity(ctx, s.client, gameID, identity)
}

func (s *Storage) CountPlayers(ctx context.Context, gameID model.GameID) (int, error) {
	return countPlayers(ctx, s.client, gameID)
}

func (s *Storage) ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	return listPlayers(ctx, s.client, gameID)
}

// UpdateGame runs fn as an optimistic transaction against one game.
//
// The game key and the players-for-game index key are watched; every
// committing transaction on a game writes at least one of them, so a
// concurrent commit aborts the EXEC and the transaction retries against
// fresh state, up to MaxTxnRetries attempts.
func (s *Storage) UpdateGame(ctx context.Context, gameID model.GameID, fn func(txn storage.Txn) error) error {
	watched := []string{gameKey(gameID), playersForGameIndexKey(gameID)}

	for attempt := 0; attempt < s.cfg.MaxTxnRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			txn := &redisTxn{tx: tx}
			if err := fn(txn); err != nil {
				return err
			}

			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				return txn.flush(ctx, pipe)
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("transaction on game %s: too many conflicts after %d attempts", gameID, s.cfg.MaxTxnRetries)
}

// redisTxn reads through the watched connection and stages writes until
// the surrounding transaction pipeline commits them.
type redisTxn struct {
	tx *redis.Tx

	pendingGames   map[model.GameID]*model.Game
	pendingPlayers map[model.PlayerID]*model.Player
}

var _ storage.Txn = (*redisTxn)(nil)

func (t *redisTxn) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if g, ok := t.pendingGames[id]; ok {
		copied := *g
		return &copied, nil
	}
	return getGame(ctx, t.tx, id)
}

func (t *redisTxn) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	if _, ok := t.pendingGames[id]; ok {
		return true, nil
	}
	return gameExists(ctx, t.tx, id)
}

func (t *redisTxn) SaveGame(ctx context.Context, game *model.Game) error {
	if t.pendingGames == nil {
		t.pendingGames = make(map[model.GameID]*model.Game)
	}
	copied := *game
	t.pendingGames[game.ID] = &copied
	return nil
}

func (t *redisTxn) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	if p, ok := t.pendingPlayers[id]; ok {
		copied := *p
		return &copied, nil
	}
	return getPlayer(ctx, t.tx, id)
}

func (t *redisTxn) GetPlayerByIdentity(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error) {
	for _, p := range t.pendingPlayers {
		if p.GameID == gameID && p.Identity == identity {
			copied := *p
			return &copied, nil
		}
	}
	return getPlayerByIdentity(ctx, t.tx, gameID, identity)
}

func (t *redisTxn) CountPlayers(ctx context.Context, gameID model.GameID) (int, error) {
	count, err := countPlayers(ctx, t.tx, gameID)
	if err != nil {
		return 0, err
	}
	for _, p := range t.pendingPlayers {
		if p.GameID != gameID {
			continue
		}
		exists, err := t.tx.SIsMember(ctx, playersForGameIndexKey(gameID), playerKey(p.ID)).Result()
		if err != nil {
			return 0, err
		}
		if !exists {
			count++
		}
	}
	return count, nil
}

func (t *redisTxn) ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	players, err := listPlayers(ctx, t.tx, gameID)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.PlayerID]bool, len(players))
	for i, p := range players {
		seen[p.ID] = true
		if pending, ok := t.pendingPlayers[p.ID]; ok {
			copied := *pending
			players[i] = &copied
		}
	}
	for id, p := range t.pendingPlayers {
		if p.GameID == gameID && !seen[id] {
			copied := *p
			players = append(players, &copied)
		}
	}
	return players, nil
}

func (t *redisTxn) SavePlayer(ctx context.Context, player *model.Player) error {
	if t.pendingPlayers == nil {
		t.pendingPlayers = make(map[model.PlayerID]*model.Player)
	}
	copied := *player
	t.pendingPlayers[player.ID] = &copied
	return nil
}

// flush queues all staged writes, including index maintenance, onto the
// transaction pipeline.
func (t *redisTxn) flush(ctx context.Context, pipe redis.Pipeliner) error {
	for id, g := range t.pendingGames {
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		pipe.Set(ctx, gameKey(id), data, 0)
		pipe.SAdd(ctx, gamesIndexKey(), gameKey(id))
	}
	for id, p := range t.pendingPlayers {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(id), data, 0)
		pipe.SAdd(ctx, playersForGameIndexKey(p.GameID), playerKey(id))
		pipe.Set(ctx, identityIndexKey(p.GameID, p.Identity), string(id), 0)
	}
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(account.Identity), data, 0).Err()
}

func (s *Storage) GetAccount(ctx context.Context, identity model.Identity) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Registered account operations

func (s *Storage) SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error {
	data, err := json.Marshal(ra)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredAccountKey(ra.Identity), data, 0)
	pipe.Set(ctx, usernameIndexKey(ra.Username), string(ra.Identity), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredAccount(ctx context.Context, identity model.Identity) (*model.RegisteredAccount, error) {
	data, err := s.client.Get(ctx, registeredAccountKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var ra model.RegisteredAccount
	if err := json.Unmarshal(data, &ra); err != nil {
		return nil, err
	}
	return &ra, nil
}

func (s *Storage) GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error) {
	identityStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetRegisteredAccount(ctx, model.Identity(identityStr))
}
