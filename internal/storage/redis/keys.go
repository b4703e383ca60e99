package redis

import (
	"fmt"

	"github.com/pokertable/pokertable/internal/model"
)

// Key prefix for all table data
const keyPrefix = "pokertable"

// Key generation functions for each entity type

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game keys
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersForGameIndexKey returns the Redis key for the SET of player keys in a game
func playersForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:players_for_game:%s", keyPrefix, gameID)
}

// identityIndexKey returns the Redis key for the (game, identity) -> player_id index
func identityIndexKey(gameID model.GameID, identity model.Identity) string {
	return fmt.Sprintf("%s:idx:identity:%s:%s", keyPrefix, gameID, identity)
}

// accountKey returns the Redis key for an Account
func accountKey(identity model.Identity) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, identity)
}

// registeredAccountKey returns the Redis key for a RegisteredAccount
func registeredAccountKey(identity model.Identity) string {
	return fmt.Sprintf("%s:registered_account:%s", keyPrefix, identity)
}

// usernameIndexKey returns the Redis key for the username -> identity index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
