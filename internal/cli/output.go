package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// Game response type
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

// GameList response type
type GameList struct {
	Games []Game `json:"games"`
}

// Player response type
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

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	guestStr := "no"
	if a.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Account: %s (%s)\n", a.DisplayName, a.Identity)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Round: %d\n", g.CurrentRound)
	fmt.Printf("Pot: %d\n", g.PotAmount)
	fmt.Printf("Buy-in: %d\n", g.BuyIn)
	fmt.Printf("Max Players: %d\n", g.MaxPlayers)
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		fmt.Println("No games")
		return
	}
	fmt.Printf("Games (%d):\n", len(l.Games))
	for _, g := range l.Games {
		fmt.Printf("  - %s (%s) status=%s pot=%d buy-in=%d max=%d\n",
			g.Name, g.ID, g.Status, g.PotAmount, g.BuyIn, g.MaxPlayers)
	}
}

func (o *Output) printPlayer(p Player) {
	foldedStr := "no"
	if p.IsFolded {
		foldedStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Game: %s\n", p.GameID)
	fmt.Printf("Chips: %d\n", p.Chips)
	fmt.Printf("Current Bet: %d\n", p.CurrentBet)
	fmt.Printf("Folded: %s\n", foldedStr)
}

func (o *Output) printPlayerList(l PlayerList) {
	if len(l.Players) == 0 {
		fmt.Println("No players")
		return
	}
	fmt.Printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		foldedStr := ""
		if p.IsFolded {
			foldedStr = " [folded]"
		}
		fmt.Printf("  - %s chips=%d bet=%d%s\n", p.Name, p.Chips, p.CurrentBet, foldedStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
