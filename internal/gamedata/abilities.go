package gamedata

// =============================================================================
// ABILITY SYSTEM DESIGN
// =============================================================================
//
// Overview:
// ---------
// Abilities are immutable, data-driven actions a combatant cycles through in
// its rotation. They are defined in JSON, loaded once into an AbilityRegistry
// and handed to the combat resolver. Nothing mutates them during a battle.
//
// Effect selection:
// -----------------
// An ability carries at most one effect block. The catalog format allows more
// than one to be set, so Kind() resolves them in a fixed precedence and the
// first present block wins:
//
//    1. buffEffect      - timed modifier on self or target
//    2. healEffect      - instant self heal scaled from magic damage
//    3. dotEffect       - direct hit plus a damage-over-time effect
//    4. periodicEffect  - interval effect (drain, regen, mana regen)
//    5. guaranteedCrit  - physical hit that always crits
//    6. multiAttack     - several hits spaced by a delay
//    7. stunEffect      - weakened hit that stuns on success
//    8. (none)          - plain damage at damageMultiplier
//
// JSON Schema:
// ------------
// {
//   "id": "poison_blade",
//   "name": "Poison Blade",
//   "type": "physical",
//   "cooldown": 10,
//   "manaCost": 12,
//   "damageMultiplier": 0.8,
//   "dotEffect": {"type": "poison", "damage": 4, "duration": 6, "interval": 1}
// }
//
// Times (cooldown, duration, interval, delay) are seconds.

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidAbility is returned when a catalog entry is malformed.
var ErrInvalidAbility = errors.New("invalid ability")

// DamageKind selects which stat block an attack draws from.
type DamageKind string

const (
	Physical DamageKind = "physical"
	Magic    DamageKind = "magic"
)

// Valid reports whether k is a known damage kind.
func (k DamageKind) Valid() bool {
	return k == Physical || k == Magic
}

// EffectKind is the discriminant of an ability's effect.
type EffectKind int

const (
	KindDamage EffectKind = iota
	KindBuff
	KindHeal
	KindDot
	KindPeriodic
	KindGuaranteedCrit
	KindMultiAttack
	KindStun
)

// String returns a human-readable kind name.
func (k EffectKind) String() string {
	switch k {
	case KindDamage:
		return "damage"
	case KindBuff:
		return "buff"
	case KindHeal:
		return "heal"
	case KindDot:
		return "dot"
	case KindPeriodic:
		return "periodic"
	case KindGuaranteedCrit:
		return "guaranteedCrit"
	case KindMultiAttack:
		return "multiAttack"
	case KindStun:
		return "stun"
	default:
		return "unknown"
	}
}

// Buff types understood by the combat resolver.
const (
	BuffDamageIncrease       = "damageIncrease"
	BuffDamageReduction      = "damageReduction"
	BuffAttackSpeedReduction = "attackSpeedReduction"
	BuffStun                 = "stun"
)

// Periodic effect types understood by the combat resolver.
const (
	EffectPoison    = "poison"
	EffectBurning   = "burning"
	EffectBleed     = "bleed"
	EffectManaDrain = "manaDrain"
	EffectRegen     = "regen"
	EffectManaRegen = "manaRegen"
)

// BuffScaling derives a buff amount from the caster's average magic damage.
type BuffScaling struct {
	Multiplier float64 `json:"multiplier"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// BuffEffect applies a timed, non-ticking modifier.
type BuffEffect struct {
	Type        string       `json:"type"`
	Amount      float64      `json:"amount"`
	Duration    float64      `json:"duration"`
	TargetsSelf bool         `json:"targetsSelf"`
	Scaling     *BuffScaling `json:"scaling,omitempty"`
}

// HealEffect heals the caster for average magic damage times Multiplier.
type HealEffect struct {
	Multiplier float64 `json:"multiplier"`
}

// DotEffect attaches a damage-over-time effect after a direct hit.
type DotEffect struct {
	Type     string  `json:"type"`
	Damage   int     `json:"damage"`
	Duration float64 `json:"duration"`
	Interval float64 `json:"interval"`
}

// PeriodicEffect attaches an interval effect without a direct hit.
type PeriodicEffect struct {
	Type        string  `json:"type"`
	Amount      int     `json:"amount"`
	Duration    float64 `json:"duration"`
	Interval    float64 `json:"interval"`
	TargetsSelf bool    `json:"targetsSelf"`
}

// GuaranteedCritEffect is a physical hit forced to crit.
type GuaranteedCritEffect struct {
	Multiplier float64 `json:"multiplier,omitempty"`
}

// MultiAttackEffect lands Count hits, Delay seconds apart.
type MultiAttackEffect struct {
	Count int     `json:"count"`
	Delay float64 `json:"delay"`
}

// StunEffect is a weakened hit that stuns the target if it lands.
type StunEffect struct {
	Duration   float64 `json:"duration"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// CriticalEffect is attached to the target when a magic damage ability crits.
type CriticalEffect struct {
	Type          string  `json:"type"`
	DamagePercent float64 `json:"damagePercent"`
	Duration      float64 `json:"duration"`
	Interval      float64 `json:"interval"`
}

// Default multipliers for branches that allow the catalog to omit them.
const (
	DefaultGuaranteedCritMultiplier = 1.2
	DefaultStunMultiplier           = 0.5
)

// AbilityDef defines an ability loaded from JSON.
type AbilityDef struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Type              DamageKind `json:"type"`
	Cooldown          float64    `json:"cooldown"`
	ManaCost          int        `json:"manaCost"`
	DamageMultiplier  float64    `json:"damageMultiplier"`
	SelfDamagePercent float64    `json:"selfDamagePercent,omitempty"`
	Color             string     `json:"color,omitempty"` // Hex color for log rendering

	CriticalEffect *CriticalEffect `json:"criticalEffect,omitempty"`

	BuffEffect     *BuffEffect           `json:"buffEffect,omitempty"`
	HealEffect     *HealEffect           `json:"healEffect,omitempty"`
	DotEffect      *DotEffect            `json:"dotEffect,omitempty"`
	PeriodicEffect *PeriodicEffect       `json:"periodicEffect,omitempty"`
	GuaranteedCrit *GuaranteedCritEffect `json:"guaranteedCrit,omitempty"`
	MultiAttack    *MultiAttackEffect    `json:"multiAttack,omitempty"`
	StunEffect     *StunEffect           `json:"stunEffect,omitempty"`
}

// Kind resolves which effect branch the ability executes.
func (a *AbilityDef) Kind() EffectKind {
	switch {
	case a.BuffEffect != nil:
		return KindBuff
	case a.HealEffect != nil:
		return KindHeal
	case a.DotEffect != nil:
		return KindDot
	case a.PeriodicEffect != nil:
		return KindPeriodic
	case a.GuaranteedCrit != nil:
		return KindGuaranteedCrit
	case a.MultiAttack != nil:
		return KindMultiAttack
	case a.StunEffect != nil:
		return KindStun
	default:
		return KindDamage
	}
}

// CooldownDuration returns the cooldown as a time.Duration.
func (a *AbilityDef) CooldownDuration() time.Duration {
	return Seconds(a.Cooldown)
}

// Validate checks the fields the resolver relies on. Only the branch Kind()
// selects is checked; shadowed blocks are never executed.
func (a *AbilityDef) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAbility)
	}
	if a.Name == "" {
		return fmt.Errorf("%w %q: missing name", ErrInvalidAbility, a.ID)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w %q: unknown type %q", ErrInvalidAbility, a.ID, a.Type)
	}
	if a.Cooldown < 0 || a.ManaCost < 0 || a.DamageMultiplier < 0 {
		return fmt.Errorf("%w %q: negative cooldown, mana cost or multiplier", ErrInvalidAbility, a.ID)
	}

	switch a.Kind() {
	case KindBuff:
		b := a.BuffEffect
		if b.Type == "" || b.Duration <= 0 {
			return fmt.Errorf("%w %q: buff needs a type and a positive duration", ErrInvalidAbility, a.ID)
		}
		if b.Scaling != nil && b.Scaling.Max < b.Scaling.Min {
			return fmt.Errorf("%w %q: buff scaling max below min", ErrInvalidAbility, a.ID)
		}
	case KindHeal:
		if a.HealEffect.Multiplier <= 0 {
			return fmt.Errorf("%w %q: heal multiplier must be positive", ErrInvalidAbility, a.ID)
		}
	case KindDot:
		d := a.DotEffect
		if d.Type == "" || d.Damage <= 0 || d.Duration <= 0 || d.Interval <= 0 {
			return fmt.Errorf("%w %q: dot needs type, damage, duration and interval", ErrInvalidAbility, a.ID)
		}
	case KindPeriodic:
		p := a.PeriodicEffect
		if p.Type == "" || p.Amount <= 0 || p.Duration <= 0 || p.Interval <= 0 {
			return fmt.Errorf("%w %q: periodic effect needs type, amount, duration and interval", ErrInvalidAbility, a.ID)
		}
	case KindMultiAttack:
		if a.MultiAttack.Count < 1 || a.MultiAttack.Delay < 0 {
			return fmt.Errorf("%w %q: multi attack needs count >= 1", ErrInvalidAbility, a.ID)
		}
		if a.DamageMultiplier <= 0 {
			return fmt.Errorf("%w %q: multi attack needs a damage multiplier", ErrInvalidAbility, a.ID)
		}
	case KindStun:
		if a.StunEffect.Duration <= 0 {
			return fmt.Errorf("%w %q: stun needs a positive duration", ErrInvalidAbility, a.ID)
		}
	case KindDamage:
		if a.DamageMultiplier <= 0 {
			return fmt.Errorf("%w %q: damage ability needs a damage multiplier", ErrInvalidAbility, a.ID)
		}
		if a.CriticalEffect != nil && (a.CriticalEffect.Duration <= 0 || a.CriticalEffect.Interval <= 0) {
			return fmt.Errorf("%w %q: critical effect needs duration and interval", ErrInvalidAbility, a.ID)
		}
	}
	return nil
}

// Seconds converts catalog seconds to a Duration at millisecond precision.
func Seconds(s float64) time.Duration {
	return time.Duration(s*1000+0.5) * time.Millisecond
}

// AbilitiesFile represents the structure of abilities.json.
type AbilitiesFile struct {
	Abilities []AbilityDef `json:"abilities"`
}

// LoadAbilities loads ability definitions from the embedded abilities.json file.
func LoadAbilities() ([]AbilityDef, error) {
	file, err := Load[AbilitiesFile]("abilities.json")
	if err != nil {
		return nil, err
	}
	return file.Abilities, nil
}
