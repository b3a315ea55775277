package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/ui"
)

var replayCmd = &cobra.Command{
	Use:   "replay [result.json]",
	Short: "Step through a battle log in the terminal",
	Long: `Opens an interactive viewer over a saved battle result, or over a fresh
battle between --player and --opponent when no file is given. Use the arrow
keys or space to step, g/G to jump, q to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var res *combat.Result
		if len(args) == 1 {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading result %s: %w", args[0], err)
			}
			res = &combat.Result{}
			if err := json.Unmarshal(raw, res); err != nil {
				return fmt.Errorf("parsing result %s: %w", args[0], err)
			}
		} else {
			playerRef, _ := cmd.Flags().GetString("player")
			opponentRef, _ := cmd.Flags().GetString("opponent")
			player, err := loadCharacter(playerRef)
			if err != nil {
				return err
			}
			opponent, err := loadCharacter(opponentRef)
			if err != nil {
				return err
			}
			res, err = newResolver(app.cfg.Seed).Duel(cmd.Context(), player, opponentFor(player, opponent))
			if err != nil {
				return err
			}
		}
		if len(res.Log) == 0 {
			return fmt.Errorf("battle %s has an empty log", res.ID)
		}

		screen, err := ui.NewScreen()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		defer screen.Close()

		ui.NewViewer(screen, app.catalog, res).Run()
		return nil
	},
}

func init() {
	replayCmd.Flags().String("player", "warrior", "player character ID or JSON file")
	replayCmd.Flags().String("opponent", "mage", "opponent character ID or JSON file")
	rootCmd.AddCommand(replayCmd)
}
