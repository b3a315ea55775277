// Package evolution evolves Challenge Mode opponents with a genetic
// algorithm, scoring candidates by simulating battles against the player.
package evolution

import (
	"errors"
	"fmt"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

// ErrInvalidGenome is returned for genomes that cannot be materialized.
var ErrInvalidGenome = errors.New("invalid genome")

// Rand is the random source the genetic operators draw from.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Perm(n int) []int
	Uint64() uint64
}

// Genome is a heritable description of an opponent.
type Genome struct {
	Attributes stats.Attributes    `json:"attributes"`
	Equipment  entity.Equipment    `json:"equipment"`
	Rotation   []string            `json:"rotation"`
	AttackType gamedata.DamageKind `json:"attackType"`
	Fitness    float64             `json:"fitness"`
}

// FromCharacter extracts the genome of a character.
func FromCharacter(c entity.Character) Genome {
	return Genome{
		Attributes: c.Attributes,
		Equipment:  c.Equipment.Clone(),
		Rotation:   append([]string(nil), c.Rotation...),
		AttackType: c.AttackType,
	}
}

// Clone returns a deep copy.
func (g Genome) Clone() Genome {
	out := g
	out.Equipment = g.Equipment.Clone()
	out.Rotation = append([]string(nil), g.Rotation...)
	return out
}

// Validate checks the genome can be turned into a combatant.
func (g Genome) Validate(catalog *gamedata.Catalog) error {
	if len(g.Rotation) == 0 {
		return fmt.Errorf("%w: empty rotation", ErrInvalidGenome)
	}
	c := g.Character("genome", "Genome")
	if err := c.Validate(catalog); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGenome, err)
	}
	return nil
}

// Character materializes the genome as a character record.
func (g Genome) Character(id, name string) entity.Character {
	return entity.Character{
		ID:         id,
		Name:       name,
		Level:      levelForPoints(g.Attributes.Total()),
		Attributes: g.Attributes,
		Equipment:  g.Equipment.Clone(),
		Rotation:   append([]string(nil), g.Rotation...),
		AttackType: g.AttackType,
	}
}

// levelForPoints inverts stats.PointsForLevel, rounding down.
func levelForPoints(total int) int {
	if total <= stats.BasePoints {
		return 1
	}
	return 1 + (total-stats.BasePoints)/stats.PointsPerLevel
}
