package combat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// Default scheduling parameters.
const (
	DefaultTimeStep      = 100 * time.Millisecond
	DefaultMaxBattleTime = 300 * time.Second
)

// Resolver runs battles between two combatants. A Resolver is not safe for
// concurrent use because it owns its random source; use WithRand to derive
// one per goroutine.
type Resolver struct {
	abilities     *gamedata.AbilityRegistry
	catalog       *gamedata.Catalog
	rng           Rand
	logger        *slog.Logger
	timeStep      time.Duration
	maxBattleTime time.Duration
	clock         func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRandSource sets the random source.
func WithRandSource(rng Rand) Option {
	return func(r *Resolver) { r.rng = rng }
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithTimeStep sets the effect tick interval.
func WithTimeStep(d time.Duration) Option {
	return func(r *Resolver) { r.timeStep = d }
}

// WithMaxBattleTime sets the timeout after which the battle is decided on
// health percentage.
func WithMaxBattleTime(d time.Duration) Option {
	return func(r *Resolver) { r.maxBattleTime = d }
}

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.clock = now }
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog *gamedata.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		abilities:     catalog.Abilities,
		catalog:       catalog,
		logger:        slog.Default(),
		timeStep:      DefaultTimeStep,
		maxBattleTime: DefaultMaxBattleTime,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if r.timeStep <= 0 {
		r.timeStep = DefaultTimeStep
	}
	if r.maxBattleTime <= 0 {
		r.maxBattleTime = DefaultMaxBattleTime
	}
	return r
}

// WithRand returns a copy of the resolver drawing from rng.
func (r *Resolver) WithRand(rng Rand) *Resolver {
	out := *r
	out.rng = rng
	return &out
}

// Catalog returns the catalog the resolver was built with.
func (r *Resolver) Catalog() *gamedata.Catalog {
	return r.catalog
}

// Duel builds combatants from two character records and simulates a battle.
func (r *Resolver) Duel(ctx context.Context, a, b entity.Character) (*Result, error) {
	ca, err := NewCombatant(a, r.catalog)
	if err != nil {
		return nil, err
	}
	cb, err := NewCombatant(b, r.catalog)
	if err != nil {
		return nil, err
	}
	return r.Simulate(ctx, ca, cb)
}

// Simulate runs a battle to completion. Neither argument is mutated.
func (r *Resolver) Simulate(ctx context.Context, a, b *Combatant) (*Result, error) {
	if err := a.Validate(r.abilities); err != nil {
		return nil, err
	}
	if err := b.Validate(r.abilities); err != nil {
		return nil, err
	}
	if a.ID == b.ID {
		return nil, fmt.Errorf("%w: both combatants have id %q", ErrInvalidCombatant, a.ID)
	}

	_, span := telemetry.Tracer("combat").Start(ctx, "battle.simulate")
	defer span.End()

	bt := &battle{
		Resolver: r,
		a:        a.Clone(),
		b:        b.Clone(),
	}
	bt.run()

	result := &Result{
		ID:        uuid.NewString(),
		Character: newParticipant(a),
		Opponent:  newParticipant(b),
		Log:       bt.entries,
		Winner:    bt.winner(),
		Rounds:    bt.actions,
		Duration:  logSeconds(bt.now),
		Timestamp: r.clock().UTC(),
	}

	winner := "draw"
	if result.Winner != nil {
		winner = *result.Winner
	}
	span.SetAttributes(
		attribute.String("battle.character", a.ID),
		attribute.String("battle.opponent", b.ID),
		attribute.String("battle.winner", winner),
		attribute.Int("battle.rounds", result.Rounds),
		attribute.Float64("battle.duration_s", result.Duration),
	)
	return result, nil
}

// scheduledHit is a pending multi-attack hit.
type scheduledHit struct {
	at       time.Duration
	attacker *Combatant
	defender *Combatant
	ability  *gamedata.AbilityDef
}

// battle is the mutable state of one simulation.
type battle struct {
	*Resolver

	a, b     *Combatant
	now      time.Duration
	nextA    time.Duration
	nextB    time.Duration
	lastTick time.Duration
	pending  []scheduledHit
	entries  []LogEntry
	actions  int
}

func (bt *battle) log(e LogEntry) {
	e.Time = logSeconds(bt.now)
	bt.entries = append(bt.entries, e)
}

func (bt *battle) byID(id string) *Combatant {
	switch id {
	case bt.a.ID:
		return bt.a
	case bt.b.ID:
		return bt.b
	}
	return nil
}

func (bt *battle) over() bool {
	return !bt.a.Alive() || !bt.b.Alive()
}

// schedule inserts a hit keeping pending ordered by time, FIFO within a time.
func (bt *battle) schedule(h scheduledHit) {
	i := sort.Search(len(bt.pending), func(i int) bool { return bt.pending[i].at > h.at })
	bt.pending = append(bt.pending, scheduledHit{})
	copy(bt.pending[i+1:], bt.pending[i:])
	bt.pending[i] = h
}

// next returns the time of the next event.
func (bt *battle) next() time.Duration {
	t := min(bt.nextA, bt.nextB, bt.lastTick+bt.timeStep)
	if len(bt.pending) > 0 {
		t = min(t, bt.pending[0].at)
	}
	return t
}

func (bt *battle) run() {
	bt.log(LogEntry{
		Message:    fmt.Sprintf("%s faces %s", bt.a.Name, bt.b.Name),
		SourceID:   bt.a.ID,
		TargetID:   bt.b.ID,
		ActionType: ActionBattleStart,
		IsSystem:   true,
	})

	for !bt.over() && bt.now < bt.maxBattleTime {
		t := bt.next()
		if t > bt.maxBattleTime {
			bt.now = bt.maxBattleTime
			break
		}
		bt.now = t
		bt.step()
	}

	bt.finish()
}

// step processes every event due at the current time, stopping as soon as
// either combatant falls.
func (bt *battle) step() {
	for len(bt.pending) > 0 && bt.pending[0].at <= bt.now {
		h := bt.pending[0]
		bt.pending = bt.pending[1:]
		if !h.defender.Alive() || !h.attacker.Alive() {
			continue
		}
		bt.strike(h.attacker, h.defender, abilityAttack(h.ability, false), h.ability.ID, 0)
		if bt.over() {
			return
		}
	}

	if bt.now == bt.nextA {
		bt.act(bt.a, bt.b)
		bt.nextA += bt.a.EffectiveAttackSpeed()
		if bt.over() {
			return
		}
	}
	if bt.now == bt.nextB {
		bt.act(bt.b, bt.a)
		bt.nextB += bt.b.EffectiveAttackSpeed()
		if bt.over() {
			return
		}
	}

	if bt.now >= bt.lastTick+bt.timeStep {
		bt.tick(bt.a)
		if bt.over() {
			return
		}
		bt.tick(bt.b)
		bt.lastTick += bt.timeStep
	}
}

// winner applies the win rules: a sole survivor wins, otherwise the higher
// health percentage wins and an exact tie is a draw.
func (bt *battle) winner() *string {
	a, b := bt.a, bt.b
	switch {
	case a.Alive() && !b.Alive():
		return &a.ID
	case b.Alive() && !a.Alive():
		return &b.ID
	}
	// Compare a.Health/a.Max with b.Health/b.Max without float error.
	lhs := a.Health * b.Stats.Health
	rhs := b.Health * a.Stats.Health
	switch {
	case lhs > rhs:
		return &a.ID
	case rhs > lhs:
		return &b.ID
	}
	return nil
}

func (bt *battle) finish() {
	msg := "The battle ends in a draw"
	if w := bt.winner(); w != nil {
		msg = fmt.Sprintf("%s is victorious", bt.byID(*w).Name)
	}
	bt.log(LogEntry{Message: msg, ActionType: ActionBattleEnd, IsSystem: true})

	end := bt.now
	for i, c := range []*Combatant{bt.a, bt.b} {
		bt.now = end + time.Duration(i+1)*DefaultTimeStep
		bt.log(LogEntry{
			Message:       fmt.Sprintf("%s finishes with %d/%d health", c.Name, c.Health, c.Stats.Health),
			SourceID:      c.ID,
			TargetID:      c.ID,
			ActionType:    ActionFinalState,
			IsSystem:      true,
			CurrentHealth: ptr(c.Health),
			CurrentMana:   ptr(c.Mana),
			MaxHealth:     c.Stats.Health,
			MaxMana:       c.Stats.Mana,
		})
	}
	bt.now = end
}
