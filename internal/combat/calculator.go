package combat

import (
	"math"

	"github.com/samdwyer/duelsim/internal/gamedata"
)

// Basic attack names. Only these can trigger weapon procs.
const (
	BasicAttack      = "Basic Attack"
	BasicMagicAttack = "Basic Magic Attack"
)

// Calculation constants.
const (
	MinHitChance        = 10.0
	MaxHitChance        = 95.0
	MaxDamageReduction  = 80.0
	PhysicalHitModifier = 1.0
	MagicHitModifier    = 1.2
	CritMultiplier      = 2.0
	BlockMultiplier     = 0.5
)

// Rand is the random source the calculator rolls against.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Attack describes one attack to resolve.
type Attack struct {
	Name           string
	Kind           gamedata.DamageKind
	Multiplier     float64
	GuaranteedCrit bool
}

// WeaponEffect is a weapon proc returned for the caller to apply.
type WeaponEffect struct {
	Source string // item name
	gamedata.WeaponEffectDef
}

// AttackResult is the outcome of ResolveAttack.
type AttackResult struct {
	Damage       int
	IsCritical   bool
	Result       string // ResultHit, ResultDodge or ResultBlocked
	WeaponEffect *WeaponEffect
}

// roll returns a uniform value in [0, 100).
func roll(rng Rand) float64 {
	return rng.Float64() * 100
}

// ResolveAttack resolves a single attack without mutating either combatant.
func ResolveAttack(rng Rand, attacker, defender *Combatant, atk Attack) AttackResult {
	s := attacker.Stats

	hitModifier := PhysicalHitModifier
	critChance := s.CriticalChance
	reduction := defender.Stats.PhysicalDamageReduction
	if atk.Kind == gamedata.Magic {
		hitModifier = MagicHitModifier
		critChance = s.SpellCritChance
		reduction = defender.Stats.MagicDamageReduction
	}

	hitChance := clampFloat(s.Accuracy*hitModifier-defender.Stats.DodgeChance, MinHitChance, MaxHitChance)
	if roll(rng) >= hitChance {
		return AttackResult{Result: ResultDodge}
	}

	minDmg, maxDmg := attacker.damageRange(atk.Kind)
	base := minDmg
	if maxDmg > minDmg {
		base += rng.IntN(maxDmg - minDmg + 1)
	}
	damage := float64(base) * atk.Multiplier
	if inc := attacker.buffAmount(gamedata.BuffDamageIncrease); inc != 0 {
		damage *= 1 + inc/100
	}
	damage = math.Round(damage)

	result := AttackResult{Result: ResultHit}
	if atk.GuaranteedCrit || roll(rng) < critChance {
		result.IsCritical = true
		damage *= CritMultiplier
	}

	if atk.Kind == gamedata.Physical && roll(rng) < defender.Stats.BlockChance {
		result.Result = ResultBlocked
		damage *= BlockMultiplier
	}

	reduction = clampFloat(reduction+defender.buffAmount(gamedata.BuffDamageReduction), 0, MaxDamageReduction)
	damage *= 1 - reduction/100
	result.Damage = max(1, int(math.Round(damage)))

	if atk.Name == BasicAttack || atk.Name == BasicMagicAttack {
		result.WeaponEffect = rollWeaponProc(rng, attacker)
	}
	return result
}

// rollWeaponProc tries the main hand, then the off hand unless the main hand
// is two-handed.
func rollWeaponProc(rng Rand, attacker *Combatant) *WeaponEffect {
	main := attacker.MainHand
	if main != nil && main.Effect != nil && roll(rng) < main.Effect.Chance {
		return &WeaponEffect{Source: main.Name, WeaponEffectDef: *main.Effect}
	}
	if main != nil && main.TwoHanded {
		return nil
	}
	off := attacker.OffHand
	if off != nil && off.Effect != nil && roll(rng) < off.Effect.Chance {
		return &WeaponEffect{Source: off.Name, WeaponEffectDef: *off.Effect}
	}
	return nil
}

// ResolveHeal returns round(average magic damage * multiplier).
func ResolveHeal(caster *Combatant, multiplier float64) int {
	return int(math.Round(caster.Stats.AverageMagicDamage() * multiplier))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
