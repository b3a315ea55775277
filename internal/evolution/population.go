package evolution

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// Config holds the genetic algorithm parameters.
type Config struct {
	PopulationSize int     `yaml:"population_size"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	MutationRate   float64 `yaml:"mutation_rate"`
	SimCount       int     `yaml:"sim_count"`
	MemorySize     int     `yaml:"memory_size"`
	Workers        int     `yaml:"workers"`
}

// DefaultConfig returns the standard Challenge Mode parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		CrossoverRate:  0.7,
		MutationRate:   0.1,
		SimCount:       DefaultSimCount,
		MemorySize:     10,
		Workers:        defaultWorkerCap,
	}
}

// minMemoryForEvolution is the memory size below which opponents are random.
const minMemoryForEvolution = 2

// Memory is the bounded list of genomes that defeated the player, oldest first.
type Memory []Genome

// Record returns a copy of m with g appended, dropping the oldest entries
// beyond limit.
func (m Memory) Record(g Genome, limit int) Memory {
	out := make(Memory, 0, len(m)+1)
	for _, x := range m {
		out = append(out, x.Clone())
	}
	out = append(out, g.Clone())
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Manager evolves the opponent for the next challenge round.
type Manager struct {
	cfg       Config
	ops       *Operators
	evaluator *Evaluator
	logger    *slog.Logger
}

// NewManager creates a population manager. Zero config fields take defaults.
func NewManager(resolver *combat.Resolver, cfg Config, logger *slog.Logger) *Manager {
	def := DefaultConfig()
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = def.PopulationSize
	}
	if cfg.CrossoverRate <= 0 {
		cfg.CrossoverRate = def.CrossoverRate
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = def.MutationRate
	}
	if cfg.SimCount <= 0 {
		cfg.SimCount = def.SimCount
	}
	if cfg.MemorySize <= 0 {
		cfg.MemorySize = def.MemorySize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:       cfg,
		ops:       NewOperators(resolver.Catalog()),
		evaluator: NewEvaluator(resolver, cfg.SimCount, cfg.Workers),
		logger:    logger,
	}
}

// Config returns the manager's effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// Operators returns the genetic operators the manager uses.
func (m *Manager) Operators() *Operators { return m.ops }

// OnProgress forwards candidate scoring progress to fn.
func (m *Manager) OnProgress(fn ProgressFunc) { m.evaluator.OnProgress(fn) }

// RecordDefeat adds an opponent that beat the player to memory, tagged with
// fitness.
func (m *Manager) RecordDefeat(memory Memory, opponent Genome, fitness float64) Memory {
	opponent = opponent.Clone()
	opponent.Fitness = fitness
	return memory.Record(opponent, m.cfg.MemorySize)
}

// NextOpponent produces the opponent for the player's next round. With fewer
// than two remembered defeats the opponent is random; otherwise a population
// is bred from memory and the fittest candidate is returned.
func (m *Manager) NextOpponent(ctx context.Context, rng Rand, player entity.Character, current Genome, memory Memory) (Genome, error) {
	ctx, span := telemetry.Tracer("evolution").Start(ctx, "evolution.next_opponent")
	defer span.End()

	total := player.TotalPoints()
	span.SetAttributes(
		attribute.String("player.id", player.ID),
		attribute.Int("player.total_points", total),
		attribute.Int("memory.size", len(memory)),
	)

	if len(memory) < minMemoryForEvolution {
		g := m.ops.Random(rng, total)
		m.logger.Debug("generated random opponent", "player", player.ID, "memory", len(memory))
		return g, nil
	}

	population := m.Populate(rng, current, memory, total)
	if err := m.evaluator.EvaluateAll(ctx, rng, population, player); err != nil {
		return Genome{}, fmt.Errorf("evaluate population: %w", err)
	}

	best := 0
	for i := range population {
		if population[i].Fitness > population[best].Fitness {
			best = i
		}
	}
	span.SetAttributes(
		attribute.Int("population.size", len(population)),
		attribute.Float64("opponent.fitness", population[best].Fitness),
	)
	m.logger.Info("evolved opponent",
		"player", player.ID,
		"population", len(population),
		"fitness", population[best].Fitness,
	)
	return population[best], nil
}

// Populate builds the candidate population: the current opponent, every
// memory entry renormalized to totalPoints, then crossover or random fill
// with occasional mutation.
func (m *Manager) Populate(rng Rand, current Genome, memory Memory, totalPoints int) []Genome {
	population := make([]Genome, 0, m.cfg.PopulationSize)

	seed := func(g Genome) {
		if len(population) >= m.cfg.PopulationSize {
			return
		}
		g = g.Clone()
		g.Attributes = Renormalize(rng, g.Attributes, totalPoints)
		if len(g.Rotation) == 0 {
			g.Rotation = m.ops.padRotation(rng, nil, nil)
		}
		if !g.AttackType.Valid() {
			g.AttackType = gamedata.Physical
		}
		population = append(population, g)
	}
	seed(current)
	for _, g := range memory {
		seed(g)
	}

	for len(population) < m.cfg.PopulationSize {
		var child Genome
		if len(memory) >= minMemoryForEvolution && rng.Float64() < m.cfg.CrossoverRate {
			i := rng.IntN(len(memory))
			j := (i + 1 + rng.IntN(len(memory)-1)) % len(memory)
			child = m.ops.Crossover(rng, memory[i], memory[j], totalPoints)
		} else {
			child = m.ops.Random(rng, totalPoints)
		}
		if rng.Float64() < m.cfg.MutationRate {
			m.ops.Mutate(rng, &child)
		}
		population = append(population, child)
	}
	return population
}
