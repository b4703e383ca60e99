package memory

import (
	"context"
	"sync"

	"github.com/pokertable/pokertable/internal/model"
	"github.com/pokertable/pokertable/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
//
// A single store-wide mutex serializes transactions; reads take the
// shared lock. Records are copied on save and on read so that an
// aborted transaction, or a caller mutating a returned record, can
// never leak into committed state.
type Storage struct {
	mu sync.RWMutex

	games   map[model.GameID]*model.Game
	players map[model.PlayerID]*model.Player

	// Secondary indexes maintained on the player write path
	playersByGame map[model.GameID]map[model.PlayerID]struct{}
	identityIndex map[identityKey]model.PlayerID

	accounts           map[model.Identity]*model.Account
	registeredAccounts map[model.Identity]*model.RegisteredAccount
	usernameIndex      map[string]model.Identity
}

type identityKey struct {
	gameID   model.GameID
	identity model.Identity
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:              make(map[model.GameID]*model.Game),
		players:            make(map[model.PlayerID]*model.Player),
		playersByGame:      make(map[model.GameID]map[model.PlayerID]struct{}),
		identityIndex:      make(map[identityKey]model.PlayerID),
		accounts:           make(map[model.Identity]*model.Account),
		registeredAccounts: make(map[model.Identity]*model.RegisteredAccount),
		usernameIndex:      make(map[string]model.Identity),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game reads

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getGameLocked(id)
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[id]
	return ok, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		copied := *g
		games = append(games, &copied)
	}
	return games, nil
}

func (s *Storage) getGameLocked(id model.GameID) (*model.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

// Player reads

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayerLocked(id)
}

func (s *Storage) GetPlayerByIdentity(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayerByIdentityLocked(gameID, identity)
}

func (s *Storage) CountPlayers(ctx context.Context, gameID model.GameID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.playersByGame[gameID]), nil
}

func (s *Storage) ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPlayersLocked(gameID)
}

func (s *Storage) getPlayerLocked(id model.PlayerID) (*model.Player, error) {
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (s *Storage) getPlayerByIdentityLocked(gameID model.GameID, identity model.Identity) (*model.Player, error) {
	id, ok := s.identityIndex[identityKey{gameID: gameID, identity: identity}]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.getPlayerLocked(id)
}

func (s *Storage) listPlayersLocked(gameID model.GameID) ([]*model.Player, error) {
	ids := s.playersByGame[gameID]
	players := make([]*model.Player, 0, len(ids))
	for id := range ids {
		copied := *s.players[id]
		players = append(players, &copied)
	}
	return players, nil
}

// UpdateGame runs fn under the store's write lock. Writes are staged on
// the transaction and applied only if fn succeeds.
func (s *Storage) UpdateGame(ctx context.Context, gameID model.GameID, fn func(txn storage.Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := &memTxn{store: s}
	if err := fn(txn); err != nil {
		return err
	}

	txn.commit()
	return nil
}

// memTxn stages writes against the locked store
type memTxn struct {
	store *Storage

	pendingGames   map[model.GameID]*model.Game
	pendingPlayers map[model.PlayerID]*model.Player
}

var _ storage.Txn = (*memTxn)(nil)

func (t *memTxn) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if g, ok := t.pendingGames[id]; ok {
		copied := *g
		return &copied, nil
	}
	return t.store.getGameLocked(id)
}

func (t *memTxn) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	if _, ok := t.pendingGames[id]; ok {
		return true, nil
	}
	_, ok := t.store.games[id]
	return ok, nil
}

func (t *memTxn) SaveGame(ctx context.Context, game *model.Game) error {
	if t.pendingGames == nil {
		t.pendingGames = make(map[model.GameID]*model.Game)
	}
	copied := *game
	t.pendingGames[game.ID] = &copied
	return nil
}

func (t *memTxn) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	if p, ok := t.pendingPlayers[id]; ok {
		copied := *p
		return &copied, nil
	}
	return t.store.getPlayerLocked(id)
}

func (t *memTxn) GetPlayerByIdentity(ctx context.Context, gameID model.GameID, identity model.Identity) (*model.Player, error) {
	for _, p := range t.pendingPlayers {
		if p.GameID == gameID && p.Identity == identity {
			copied := *p
			return &copied, nil
		}
	}
	return t.store.getPlayerByIdentityLocked(gameID, identity)
}

func (t *memTxn) CountPlayers(ctx context.Context, gameID model.GameID) (int, error) {
	count := len(t.store.playersByGame[gameID])
	for id, p := range t.pendingPlayers {
		if p.GameID != gameID {
			continue
		}
		if _, exists := t.store.playersByGame[gameID][id]; !exists {
			count++
		}
	}
	return count, nil
}

func (t *memTxn) ListPlayers(ctx context.Context, gameID model.GameID) ([]*model.Player, error) {
	players, _ := t.store.listPlayersLocked(gameID)
	for i, p := range players {
		if pending, ok := t.pendingPlayers[p.ID]; ok {
			copied := *pending
			players[i] = &copied
		}
	}
	for id, p := range t.pendingPlayers {
		if p.GameID != gameID {
			continue
		}
		if _, exists := t.store.playersByGame[gameID][id]; !exists {
			copied := *p
			players = append(players, &copied)
		}
	}
	return players, nil
}

func (t *memTxn) SavePlayer(ctx context.Context, player *model.Player) error {
	if t.pendingPlayers == nil {
		t.pendingPlayers = make(map[model.PlayerID]*model.Player)
	}
	copied := *player
	t.pendingPlayers[player.ID] = &copied
	return nil
}

func (t *memTxn) commit() {
	for id, g := range t.pendingGames {
		t.store.games[id] = g
	}
	for id, p := range t.pendingPlayers {
		t.store.players[id] = p
		byGame, ok := t.store.playersByGame[p.GameID]
		if !ok {
			byGame = make(map[model.PlayerID]struct{})
			t.store.playersByGame[p.GameID] = byGame
		}
		byGame[id] = struct{}{}
		t.store.identityIndex[identityKey{gameID: p.GameID, identity: p.Identity}] = id
	}
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *account
	s.accounts[account.Identity] = &copied
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, identity model.Identity) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[identity]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// Registered account operations

func (s *Storage) SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *ra
	s.registeredAccounts[ra.Identity] = &copied
	s.usernameIndex[ra.Username] = ra.Identity
	return nil
}

func (s *Storage) GetRegisteredAccount(ctx context.Context, identity model.Identity) (*model.RegisteredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ra, ok := s.registeredAccounts[identity]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *ra
	return &copied, nil
}

func (s *Storage) GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	ra, ok := s.registeredAccounts[identity]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *ra
	return &copied, nil
}
