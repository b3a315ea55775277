package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/config"
	"github.com/samdwyer/duelsim/internal/evolution"
	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/store"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Play Challenge Mode against evolving opponents",
}

var challengeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		playerRef, _ := cmd.Flags().GetString("player")
		player, err := loadCharacter(playerRef)
		if err != nil {
			return err
		}

		arena, closeStore, err := newArena(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer closeStore()

		ch, err := arena.StartChallenge(cmd.Context(), player)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, titleStyle.Render("Challenge "+ch.ID))
		fmt.Fprintf(w, "Round %d opponent: %s\n", ch.Round, ch.OpponentName)
		return nil
	},
}

var challengeRoundCmd = &cobra.Command{
	Use:   "round <challenge-id>",
	Short: "Play the next round(s) of a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		playerRef, _ := flags.GetString("player")
		rounds, _ := flags.GetInt("rounds")
		showLog, _ := flags.GetBool("log")

		player, err := loadCharacter(playerRef)
		if err != nil {
			return err
		}

		var (
			mu  sync.Mutex
			bar *progressbar.ProgressBar
		)
		progress := func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if bar == nil {
				bar = progressbar.Default(int64(total), "evolving opponent")
			}
			_ = bar.Add(1)
		}

		arena, closeStore, err := newArena(cmd.Context(), progress)
		if err != nil {
			return err
		}
		defer closeStore()

		w := cmd.OutOrStdout()
		for range max(1, rounds) {
			mu.Lock()
			bar = nil
			mu.Unlock()

			res, err := arena.PlayRound(cmd.Context(), args[0], player)
			if err != nil {
				return err
			}
			mu.Lock()
			if bar != nil {
				_ = bar.Finish()
			}
			mu.Unlock()

			played := res.Challenge.History[len(res.Challenge.History)-1]
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Round %d: %s vs %s", played.Round, player.Name, played.OpponentName)))
			if showLog {
				for _, e := range res.Battle.Log {
					fmt.Fprintln(w, styleEntry(e))
				}
			}
			fmt.Fprintln(w, renderSummary(res.Battle))
			printStanding(cmd, res.Challenge)
		}
		return nil
	},
}

var challengeShowCmd = &cobra.Command{
	Use:   "show <challenge-id>",
	Short: "Show a challenge's record and round history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arena, closeStore, err := newArena(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer closeStore()

		ch, err := arena.Challenge(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, titleStyle.Render("Challenge "+ch.ID))
		for _, r := range ch.History {
			fmt.Fprintf(w, "  round %3d  %-8s %-28s fitness %7.1f\n", r.Round, r.Outcome, r.OpponentName, r.OpponentFitness)
		}
		printStanding(cmd, ch)
		return nil
	},
}

func printStanding(cmd *cobra.Command, ch *game.Challenge) {
	fmt.Fprintf(cmd.OutOrStdout(), "Record %s/%s/%d  memory %d  next: round %d vs %s\n",
		winStyle.Render(fmt.Sprint(ch.Wins)), lossStyle.Render(fmt.Sprint(ch.Losses)), ch.Draws,
		len(ch.Memory), ch.Round, ch.OpponentName)
}

// newArena wires the resolver, evolution manager and configured store.
func newArena(ctx context.Context, progress evolution.ProgressFunc) (*game.Arena, func(), error) {
	st, closeStore, err := openStore(ctx, app.cfg)
	if err != nil {
		return nil, nil, err
	}
	resolver := combat.NewResolver(app.catalog,
		combat.WithLogger(app.logger),
		combat.WithTimeStep(app.cfg.Combat.TimeStep),
		combat.WithMaxBattleTime(app.cfg.Combat.MaxBattleTime),
	)
	manager := evolution.NewManager(resolver, app.cfg.Evolution, app.logger)
	if progress != nil {
		manager.OnProgress(progress)
	}
	arena := game.NewArena(resolver, manager, st, game.Config{Seed: app.cfg.Seed, HistoryLimit: app.cfg.Store.HistoryLimit}, app.logger)
	return arena, closeStore, nil
}

func openStore(ctx context.Context, cfg config.Config) (game.ChallengeStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db := cfg.Store.Database
		s, err := store.NewPostgresStore(ctx, db.DSN(), db.MaxConns, app.logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func init() {
	challengeStartCmd.Flags().String("player", "warrior", "player character ID or JSON file")
	challengeRoundCmd.Flags().String("player", "warrior", "player character ID or JSON file")
	challengeRoundCmd.Flags().Int("rounds", 1, "number of rounds to play")
	challengeRoundCmd.Flags().Bool("log", false, "print each battle's log")

	challengeCmd.AddCommand(challengeStartCmd, challengeRoundCmd, challengeShowCmd)
	rootCmd.AddCommand(challengeCmd)
}
