package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game id already exists")
	ErrGameFull        = errors.New("game is full")
	ErrInvalidCapacity = errors.New("max players must be at least 1")

	// Player errors
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAlreadyJoined     = errors.New("identity has already joined this game")
	ErrInsufficientChips = errors.New("bet exceeds chip balance")
)
