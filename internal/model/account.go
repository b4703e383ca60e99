package model

import "time"

// Identity is the opaque authenticated caller reference supplied by the
// hosting context. It keys player membership within a game.
type Identity string

// Account represents an authenticated caller
type Account struct {
	Identity    Identity
	DisplayName string
	IsGuest     bool // true for unregistered callers
	CreatedAt   time.Time
}

// RegisteredAccount extends Account with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredAccount struct {
	Identity     Identity
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
