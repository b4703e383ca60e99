package request

// CreateGuestRequest is the request body for creating a guest account
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name       string `json:"name"`
	BuyIn      uint64 `json:"buy_in"`
	MaxPlayers uint32 `json:"max_players"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	Name string `json:"name,omitempty"`
}

// PlaceBetRequest is the request body for placing a bet
type PlaceBetRequest struct {
	Amount uint64 `json:"amount"`
}
