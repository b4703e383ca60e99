package model

import "time"

// PlayerID uniquely identifies a seat at a table
type PlayerID string

// Player represents one identity's seat in a single game.
//
// A player belongs to exactly one game for its lifetime and is never
// deleted. Chips and CurrentBet are both unsigned; every mutation must
// bound-check before subtracting so the balance can never wrap.
type Player struct {
	ID         PlayerID
	GameID     GameID
	Identity   Identity
	Name       string
	Chips      uint64
	IsActive   bool
	IsFolded   bool
	CurrentBet uint64
	JoinedAt   time.Time
}
