// Package combat provides the time-stepped duel resolver: effect tracking,
// attack resolution, ability dispatch and the main battle loop.
package combat

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

// ErrInvalidCombatant is returned when a combatant cannot enter a battle.
var ErrInvalidCombatant = errors.New("invalid combatant")

// Buff is a timed, non-ticking modifier. At most one buff per Type is active.
type Buff struct {
	Name     string
	Type     string
	Amount   float64
	EndTime  time.Duration
	SourceID string
}

// PeriodicEffect is a timed effect that procs every Interval.
// At most one effect per Type is active.
type PeriodicEffect struct {
	Name     string
	Type     string
	Amount   int
	Interval time.Duration
	LastProc time.Duration
	EndTime  time.Duration
	SourceID string
}

// Combatant is the battle-scoped, mutable copy of a character.
type Combatant struct {
	ID     string
	Name   string
	Stats  stats.Stats
	Health int
	Mana   int

	Cooldowns        map[string]time.Duration // ability ID -> ready at
	Buffs            []Buff
	Periodic         []PeriodicEffect
	Rotation         []string
	NextAbilityIndex int
	AttackType       gamedata.DamageKind

	// Equipment is already folded into Stats; the hands are kept for procs.
	MainHand *gamedata.ItemDef
	OffHand  *gamedata.ItemDef
}

// NewCombatant builds a full-health combatant from a character record.
func NewCombatant(c entity.Character, catalog *gamedata.Catalog) (*Combatant, error) {
	if err := c.Validate(catalog); err != nil {
		return nil, err
	}
	s, err := c.Stats(catalog)
	if err != nil {
		return nil, err
	}

	cb := &Combatant{
		ID:         c.ID,
		Name:       c.Name,
		Stats:      s,
		Health:     s.Health,
		Mana:       s.Mana,
		Cooldowns:  make(map[string]time.Duration),
		Rotation:   append([]string(nil), c.Rotation...),
		AttackType: c.AttackType,
	}
	if id := c.Equipment[gamedata.SlotMainHand]; id != "" {
		cb.MainHand = catalog.Items.GetByID(id)
	}
	if id := c.Equipment[gamedata.SlotOffHand]; id != "" {
		cb.OffHand = catalog.Items.GetByID(id)
	}
	return cb, nil
}

// Validate checks the combatant against the ability catalog.
func (c *Combatant) Validate(abilities *gamedata.AbilityRegistry) error {
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("%w: missing id or name", ErrInvalidCombatant)
	}
	if c.Stats.Health <= 0 || c.Stats.AttackSpeed <= 0 {
		return fmt.Errorf("%w %q: health and attack speed must be positive", ErrInvalidCombatant, c.ID)
	}
	if c.Stats.MinPhysicalDamage > c.Stats.MaxPhysicalDamage || c.Stats.MinMagicDamage > c.Stats.MaxMagicDamage {
		return fmt.Errorf("%w %q: damage range inverted", ErrInvalidCombatant, c.ID)
	}
	if !c.AttackType.Valid() {
		return fmt.Errorf("%w %q: unknown attack type %q", ErrInvalidCombatant, c.ID, c.AttackType)
	}
	for _, id := range c.Rotation {
		if abilities.GetByID(id) == nil {
			return fmt.Errorf("%w %q: %w: %q", ErrInvalidCombatant, c.ID, gamedata.ErrUnknownAbility, id)
		}
	}
	return nil
}

// Clone returns a deep copy. The simulation always works on a clone so the
// caller's combatant is never mutated.
func (c *Combatant) Clone() *Combatant {
	out := *c
	out.Cooldowns = make(map[string]time.Duration, len(c.Cooldowns))
	for id, at := range c.Cooldowns {
		out.Cooldowns[id] = at
	}
	out.Buffs = append([]Buff(nil), c.Buffs...)
	out.Periodic = append([]PeriodicEffect(nil), c.Periodic...)
	out.Rotation = append([]string(nil), c.Rotation...)
	return &out
}

// Alive reports whether the combatant has health remaining.
func (c *Combatant) Alive() bool { return c.Health > 0 }

// HealthPercent returns current health as a fraction of max health.
func (c *Combatant) HealthPercent() float64 {
	return float64(c.Health) / float64(c.Stats.Health)
}

// TakeDamage reduces health and returns the damage actually taken.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > c.Health {
		actual = c.Health
	}
	c.Health -= actual
	return actual
}

// Heal restores health up to max and returns the amount actually healed.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if c.Health+actual > c.Stats.Health {
		actual = c.Stats.Health - c.Health
	}
	c.Health += actual
	return actual
}

// DrainMana removes up to amount mana and returns how much was removed.
func (c *Combatant) DrainMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > c.Mana {
		actual = c.Mana
	}
	c.Mana -= actual
	return actual
}

// RestoreMana restores mana up to max and returns the amount restored.
func (c *Combatant) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if c.Mana+actual > c.Stats.Mana {
		actual = c.Stats.Mana - c.Mana
	}
	c.Mana += actual
	return actual
}

// Buff returns the active buff of the given type, or nil.
func (c *Combatant) Buff(buffType string) *Buff {
	for i := range c.Buffs {
		if c.Buffs[i].Type == buffType {
			return &c.Buffs[i]
		}
	}
	return nil
}

// buffAmount returns the amount of the active buff of buffType, or 0.
func (c *Combatant) buffAmount(buffType string) float64 {
	if b := c.Buff(buffType); b != nil {
		return b.Amount
	}
	return 0
}

// EffectiveAttackSpeed is the swing interval with slows applied.
func (c *Combatant) EffectiveAttackSpeed() time.Duration {
	seconds := c.Stats.AttackSpeed * (1 + c.buffAmount(gamedata.BuffAttackSpeedReduction)/100)
	return max(time.Millisecond, time.Duration(math.Round(seconds*1000))*time.Millisecond)
}

// damageRange returns the min/max damage for the given kind.
func (c *Combatant) damageRange(kind gamedata.DamageKind) (int, int) {
	if kind == gamedata.Magic {
		return c.Stats.MinMagicDamage, c.Stats.MaxMagicDamage
	}
	return c.Stats.MinPhysicalDamage, c.Stats.MaxPhysicalDamage
}
