package model

import "time"

// GameID is a human-readable identifier for joining games
type GameID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // Lobby open, no hand dealt
	GameStatusActive   GameStatus = "active"   // Hand in progress (reserved)
	GameStatusFinished GameStatus = "finished" // Game over (reserved)
)

// Game represents a poker table: its lobby settings and the shared pot.
//
// Status and CurrentRound are schema placeholders for round/phase
// progression; no operation transitions them yet. Only the four table
// operations (create, join, bet, fold) mutate a Game.
type Game struct {
	ID           GameID
	Name         string
	Status       GameStatus
	CurrentRound uint32
	PotAmount    uint64
	BuyIn        uint64
	MaxPlayers   uint32
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
