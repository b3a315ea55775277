package evolution

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
)

// Fitness scoring weights.
const (
	WinScore         = 1000.0
	DamageScore      = 1000.0
	EquipmentScore   = 15.0
	MaxJitter        = 10.0
	DefaultSimCount  = 3
	candidateID      = "candidate"
	candidateName    = "Candidate"
	defaultWorkerCap = 8
)

// ProgressFunc is called after each candidate is scored. It may be called
// from several goroutines at once.
type ProgressFunc func(done, total int)

// Evaluator scores genomes by simulating battles against the player.
type Evaluator struct {
	resolver *combat.Resolver
	simCount int
	workers  int
	progress ProgressFunc
}

// NewEvaluator creates an evaluator. simCount and workers fall back to
// defaults when not positive.
func NewEvaluator(resolver *combat.Resolver, simCount, workers int) *Evaluator {
	if simCount <= 0 {
		simCount = DefaultSimCount
	}
	if workers <= 0 {
		workers = defaultWorkerCap
	}
	return &Evaluator{resolver: resolver, simCount: simCount, workers: workers}
}

// OnProgress registers a progress callback for EvaluateAll.
func (e *Evaluator) OnProgress(fn ProgressFunc) {
	e.progress = fn
}

// BattleScore scores a single battle from the candidate's point of view:
// a win, or the share of the player's health it took, plus a bonus per
// equipped slot.
func BattleScore(res *combat.Result, candidate, player string, equipped int) float64 {
	score := EquipmentScore * float64(equipped)
	if res.Won(candidate) {
		return score + WinScore
	}
	if fs, ok := res.FinalState(player); ok {
		score += fs.DamageTakenPercent() * DamageScore
	}
	return score
}

// Evaluate runs simCount battles between the genome and the player and
// returns the average score including jitter. rng must not be shared with
// other goroutines.
func (e *Evaluator) Evaluate(ctx context.Context, rng Rand, g Genome, player entity.Character) (float64, error) {
	if len(g.Rotation) == 0 {
		return 0, fmt.Errorf("%w: empty rotation", ErrInvalidGenome)
	}
	catalog := e.resolver.Catalog()

	opponent, err := combat.NewCombatant(g.Character(candidateID, candidateName), catalog)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidGenome, err)
	}
	you, err := combat.NewCombatant(player, catalog)
	if err != nil {
		return 0, err
	}
	if you.ID == candidateID {
		you.ID = "player"
	}

	resolver := e.resolver.WithRand(rng)
	equipped := g.Equipment.Count()
	total := 0.0
	for i := 0; i < e.simCount; i++ {
		res, err := resolver.Simulate(ctx, you, opponent)
		if err != nil {
			return 0, err
		}
		total += BattleScore(res, candidateID, you.ID, equipped) + rng.Float64()*MaxJitter
	}
	return total / float64(e.simCount), nil
}

// EvaluateAll scores every genome in place on a bounded worker pool. Each
// candidate gets its own random source seeded from rng before the fan-out,
// so results do not depend on goroutine scheduling.
func (e *Evaluator) EvaluateAll(ctx context.Context, rng Rand, population []Genome, player entity.Character) error {
	seeds := make([][2]uint64, len(population))
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var done atomic.Int64
	for i := range population {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			local := rand.New(rand.NewPCG(seeds[i][0], seeds[i][1]))
			fitness, err := e.Evaluate(ctx, local, population[i], player)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			population[i].Fitness = fitness
			if e.progress != nil {
				e.progress(int(done.Add(1)), len(population))
			}
			return nil
		})
	}
	return g.Wait()
}
