package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a duel between two characters",
	Long: `Runs a battle between two characters and prints the timed log and the
outcome. Characters are sample IDs (warrior, rogue, mage, cleric) or paths to
character JSON files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		playerRef, _ := flags.GetString("player")
		opponentRef, _ := flags.GetString("opponent")
		out, _ := flags.GetString("out")
		quiet, _ := flags.GetBool("quiet")
		runs, _ := flags.GetInt("runs")

		player, err := loadCharacter(playerRef)
		if err != nil {
			return err
		}
		opponent, err := loadCharacter(opponentRef)
		if err != nil {
			return err
		}
		opponent = opponentFor(player, opponent)
		if runs > 1 {
			return simulateMany(cmd, player, opponent, runs)
		}

		res, err := newResolver(app.cfg.Seed).Duel(cmd.Context(), player, opponent)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s vs %s", res.Character.Name, res.Opponent.Name)))
		if !quiet {
			for _, e := range res.Log {
				fmt.Fprintln(w, styleEntry(e))
			}
		}
		fmt.Fprintln(w, renderSummary(res))

		if out != "" {
			return writeResult(out, res)
		}
		return nil
	},
}

// simulateMany runs independent battles in parallel and prints the tally.
func simulateMany(cmd *cobra.Command, player, opponent entity.Character, runs int) error {
	seed := app.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	src := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	seeds := make([]uint64, runs)
	for i := range seeds {
		seeds[i] = src.Uint64() | 1
	}

	var (
		mu                 sync.Mutex
		wins, losses, draw int
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range runs {
		g.Go(func() error {
			res, err := newResolver(seeds[i]).Duel(ctx, player, opponent)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case res.IsDraw():
				draw++
			case res.Won(player.ID):
				wins++
			default:
				losses++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s vs %s, %d battles", player.Name, opponent.Name, runs)))
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf(
		"%s %d (%.1f%%)\n%s %d (%.1f%%)\nDraws %d",
		winStyle.Render(player.Name), wins, 100*float64(wins)/float64(runs),
		lossStyle.Render(opponent.Name), losses, 100*float64(losses)/float64(runs),
		draw,
	)))
	return nil
}

func writeResult(path string, res *combat.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result %s: %w", path, err)
	}
	app.logger.Info("battle result written", "path", path, "battle", res.ID)
	return nil
}

func init() {
	flags := simulateCmd.Flags()
	flags.String("player", "warrior", "player character ID or JSON file")
	flags.String("opponent", "mage", "opponent character ID or JSON file")
	flags.String("out", "", "write the battle result as JSON to this path")
	flags.Bool("quiet", false, "print only the summary")
	flags.Int("runs", 1, "number of battles to simulate; more than one prints a win tally")
	rootCmd.AddCommand(simulateCmd)
}
