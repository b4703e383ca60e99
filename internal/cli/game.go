package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameBetCmd())
	cmd.AddCommand(newGameFoldCmd())
	cmd.AddCommand(newGamePlayersCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var name string
	var buyIn uint64
	var maxPlayers uint32

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if maxPlayers < 1 {
				return fmt.Errorf("--max-players must be at least 1")
			}

			req := map[string]any{
				"name":        name,
				"buy_in":      buyIn,
				"max_players": maxPlayers,
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().Uint64Var(&buyIn, "buy-in", 1000, "Chip stack granted on join")
	cmd.Flags().Uint32Var(&maxPlayers, "max-players", 6, "Maximum number of seats")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get game details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result Game

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Join a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var req map[string]string
			if name != "" {
				req = map[string]string{"name": name}
			}
			var result Player

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/join", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Seat name (defaults to account display name)")

	return cmd
}

func newGameBetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bet <id> <amount>",
		Short: "Place a bet in a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			req := map[string]uint64{"amount": amount}
			var result Player

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/bet", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameFoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fold <id>",
		Short: "Fold your hand in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result Player

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/fold", id), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players <id>",
		Short: "List players seated at a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var result PlayerList

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
