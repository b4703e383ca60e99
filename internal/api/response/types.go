package response

import (
	"time"

	"github.com/pokertable/pokertable/internal/model"
	"github.com/pokertable/pokertable/internal/services/auth"
)

// Account represents an account in API responses
type Account struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		Identity:    string(a.Identity),
		DisplayName: a.DisplayName,
		IsGuest:     a.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// Game represents a game in API responses
type Game struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	CurrentRound uint32    `json:"current_round"`
	PotAmount    uint64    `json:"pot_amount"`
	BuyIn        uint64    `json:"buy_in"`
	MaxPlayers   uint32    `json:"max_players"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:           string(g.ID),
		Name:         g.Name,
		Status:       string(g.Status),
		CurrentRound: g.CurrentRound,
		PotAmount:    g.PotAmount,
		BuyIn:        g.BuyIn,
		MaxPlayers:   g.MaxPlayers,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// GameList wraps the games listing
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModel converts a slice of model.Game
func GameListFromModel(games []*model.Game) GameList {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return GameList{Games: out}
}

// Player represents a seat in API responses
type Player struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Name       string    `json:"name"`
	Chips      uint64    `json:"chips"`
	IsActive   bool      `json:"is_active"`
	IsFolded   bool      `json:"is_folded"`
	CurrentBet uint64    `json:"current_bet"`
	JoinedAt   time.Time `json:"joined_at"`
}

// PlayerFromModel converts model.Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:         string(p.ID),
		GameID:     string(p.GameID),
		Name:       p.Name,
		Chips:      p.Chips,
		IsActive:   p.IsActive,
		IsFolded:   p.IsFolded,
		CurrentBet: p.CurrentBet,
		JoinedAt:   p.JoinedAt,
	}
}

// PlayerList wraps the players listing for a game
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayerListFromModel converts a slice of model.Player
func PlayerListFromModel(players []*model.Player) PlayerList {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return PlayerList{Players: out}
}
