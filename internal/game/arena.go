package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/evolution"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// RoundResult is the outcome of one challenge round.
type RoundResult struct {
	Battle    *combat.Result
	Outcome   Outcome
	Challenge *Challenge
}

// Arena runs Challenge Mode on top of the combat resolver and the opponent
// evolution manager. It is safe for concurrent use.
type Arena struct {
	resolver *combat.Resolver
	manager  *evolution.Manager
	store    ChallengeStore
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewArena creates an arena. A nil logger uses slog.Default().
func NewArena(resolver *combat.Resolver, manager *evolution.Manager, store ChallengeStore, cfg Config, logger *slog.Logger) *Arena {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Arena{
		resolver: resolver,
		manager:  manager,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// deriveRand returns an independent source for one operation.
func (a *Arena) deriveRand() *rand.Rand {
	a.mu.Lock()
	defer a.mu.Unlock()
	return rand.New(rand.NewPCG(a.rng.Uint64(), a.rng.Uint64()))
}

// Duel runs a one-off battle between two characters.
func (a *Arena) Duel(ctx context.Context, player, opponent entity.Character) (*combat.Result, error) {
	return a.resolver.WithRand(a.deriveRand()).Duel(ctx, player, opponent)
}

// Challenge loads a challenge by ID.
func (a *Arena) Challenge(ctx context.Context, id string) (*Challenge, error) {
	return a.store.Get(ctx, id)
}

// StartChallenge creates a new challenge for player with a random first
// opponent.
func (a *Arena) StartChallenge(ctx context.Context, player entity.Character) (*Challenge, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "challenge.start")
	defer span.End()

	if err := player.Validate(a.resolver.Catalog()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	rng := a.deriveRand()
	opponent := a.manager.Operators().Random(rng, player.TotalPoints())
	now := a.now()
	ch := &Challenge{
		ID:           uuid.NewString(),
		PlayerID:     player.ID,
		Round:        1,
		Opponent:     opponent,
		OpponentName: entity.OpponentName(rng, opponent.AttackType),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.Create(ctx, ch); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	span.SetAttributes(
		attribute.String("challenge.id", ch.ID),
		attribute.String("player.id", player.ID),
	)
	a.logger.Info("challenge started", "challenge", ch.ID, "player", player.ID, "opponent", ch.OpponentName)
	return ch, nil
}

// PlayRound fights the challenge's current opponent, remembers the opponent
// if it won, evolves the next opponent and advances the round.
func (a *Arena) PlayRound(ctx context.Context, challengeID string, player entity.Character) (*RoundResult, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "challenge.round")
	defer span.End()
	span.SetAttributes(attribute.String("challenge.id", challengeID))

	fail := func(err error) (*RoundResult, error) {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ch, err := a.store.Get(ctx, challengeID)
	if err != nil {
		return fail(err)
	}
	if ch.PlayerID != player.ID {
		return fail(fmt.Errorf("%w: %s", ErrWrongPlayer, player.ID))
	}
	span.SetAttributes(attribute.Int("challenge.round", ch.Round))

	rng := a.deriveRand()
	opponent := ch.OpponentCharacter()
	res, err := a.resolver.WithRand(rng).Duel(ctx, player, opponent)
	if err != nil {
		return fail(fmt.Errorf("round %d battle: %w", ch.Round, err))
	}
	outcome := OutcomeFor(res, player.ID)

	memory := ch.Memory
	fitness := evolution.BattleScore(res, opponent.ID, player.ID, ch.Opponent.Equipment.Count())
	if outcome == OutcomeDefeat {
		memory = a.manager.RecordDefeat(memory, ch.Opponent, fitness)
	}

	next, err := a.manager.NextOpponent(ctx, rng, player, ch.Opponent, memory)
	if err != nil {
		return fail(fmt.Errorf("round %d next opponent: %w", ch.Round, err))
	}
	nextName := entity.OpponentName(rng, next.AttackType)

	summary := RoundSummary{
		Round:           ch.Round,
		BattleID:        res.ID,
		OpponentName:    ch.OpponentName,
		Outcome:         outcome.String(),
		OpponentFitness: fitness,
		PlayedAt:        a.now(),
	}
	played := ch.Round

	updated, err := a.store.Update(ctx, challengeID, func(c *Challenge) error {
		if c.Round != played {
			return fmt.Errorf("%w: expected round %d, found %d", ErrRoundConflict, played, c.Round)
		}
		switch outcome {
		case OutcomeVictory:
			c.Wins++
		case OutcomeDefeat:
			c.Losses++
		default:
			c.Draws++
		}
		c.Memory = memory
		c.Opponent = next
		c.OpponentName = nextName
		c.History = append(c.History, summary)
		if a.cfg.HistoryLimit > 0 && len(c.History) > a.cfg.HistoryLimit {
			c.History = c.History[len(c.History)-a.cfg.HistoryLimit:]
		}
		c.Round++
		c.UpdatedAt = summary.PlayedAt
		return nil
	})
	if err != nil {
		return fail(err)
	}

	span.SetAttributes(
		attribute.String("round.outcome", outcome.String()),
		attribute.Int("memory.size", len(updated.Memory)),
	)
	a.logger.Info("round played",
		"challenge", challengeID,
		"round", played,
		"outcome", outcome.String(),
		"memory", len(updated.Memory),
		"next_opponent", nextName,
	)
	return &RoundResult{Battle: res, Outcome: outcome, Challenge: updated}, nil
}
