package stats

import "math"

// Weights turns an attribute set into a single curve input.
type Weights struct {
	Strength  float64 `yaml:"strength"`
	Agility   float64 `yaml:"agility"`
	Stamina   float64 `yaml:"stamina"`
	Intellect float64 `yaml:"intellect"`
	Wisdom    float64 `yaml:"wisdom"`
}

func (w Weights) apply(a Attributes) float64 {
	return w.Strength*float64(a.Strength) +
		w.Agility*float64(a.Agility) +
		w.Stamina*float64(a.Stamina) +
		w.Intellect*float64(a.Intellect) +
		w.Wisdom*float64(a.Wisdom)
}

// Curve describes one derived stat. Log curves use Base, Mult, Min and Max;
// sigmoid curves use Base, Midpoint, Steepness and Max.
type Curve struct {
	Input     Weights `yaml:"input"`
	Sigmoid   bool    `yaml:"sigmoid"`
	Base      float64 `yaml:"base"`
	Mult      float64 `yaml:"mult"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Midpoint  float64 `yaml:"midpoint"`
	Steepness float64 `yaml:"steepness"`
}

// Eval runs the curve for an attribute set.
func (c Curve) Eval(a Attributes) float64 {
	x := c.Input.apply(a)
	if c.Sigmoid {
		return SigmoidScale(x, c.Base, c.Midpoint, c.Steepness, c.Max)
	}
	return LogScale(x, c.Base, c.Mult, c.Min, c.Max)
}

// Curves is the full derivation table.
type Curves struct {
	MinPhysicalDamage       Curve `yaml:"min_physical_damage"`
	MaxPhysicalDamage       Curve `yaml:"max_physical_damage"`
	CriticalChance          Curve `yaml:"critical_chance"`
	AttackSpeedBonus        Curve `yaml:"attack_speed_bonus"`
	MinMagicDamage          Curve `yaml:"min_magic_damage"`
	MaxMagicDamage          Curve `yaml:"max_magic_damage"`
	SpellCritChance         Curve `yaml:"spell_crit_chance"`
	Health                  Curve `yaml:"health"`
	Mana                    Curve `yaml:"mana"`
	PhysicalDamageReduction Curve `yaml:"physical_damage_reduction"`
	MagicDamageReduction    Curve `yaml:"magic_damage_reduction"`
	DodgeChance             Curve `yaml:"dodge_chance"`
	Accuracy                Curve `yaml:"accuracy"`
	BlockChance             Curve `yaml:"block_chance"`

	// BaseAttackSpeed is the slowest possible swing interval in seconds.
	// AttackSpeedBonus is subtracted from it.
	BaseAttackSpeed float64 `yaml:"base_attack_speed"`
	// MinAttackSpeed bounds the swing interval after equipment bonuses.
	MinAttackSpeed float64 `yaml:"min_attack_speed"`
}

// DefaultCurves returns the shipped balance table.
func DefaultCurves() Curves {
	physPower := Weights{Strength: 1.5, Agility: 0.5}
	magicPower := Weights{Intellect: 1.5, Wisdom: 0.5}

	return Curves{
		MinPhysicalDamage: Curve{Input: physPower, Base: 2, Mult: 12, Min: 1, Max: 60},
		MaxPhysicalDamage: Curve{Input: physPower, Base: 4, Mult: 18, Min: 2, Max: 90},
		CriticalChance:    Curve{Input: Weights{Agility: 1}, Sigmoid: true, Base: 2, Midpoint: 15, Steepness: 0.15, Max: 40},
		AttackSpeedBonus:  Curve{Input: Weights{Agility: 1}, Base: 0, Mult: 1.2, Min: 0, Max: 2},
		MinMagicDamage:    Curve{Input: magicPower, Base: 2, Mult: 12, Min: 1, Max: 60},
		MaxMagicDamage:    Curve{Input: magicPower, Base: 4, Mult: 18, Min: 2, Max: 90},
		SpellCritChance:   Curve{Input: Weights{Intellect: 0.7, Wisdom: 0.3}, Sigmoid: true, Base: 2, Midpoint: 15, Steepness: 0.15, Max: 40},
		Health:            Curve{Input: Weights{Stamina: 2, Strength: 0.5}, Base: 80, Mult: 220, Min: 80, Max: 1200},
		Mana:              Curve{Input: Weights{Intellect: 1.5, Wisdom: 1.5}, Base: 30, Mult: 150, Min: 30, Max: 900},
		PhysicalDamageReduction: Curve{
			Input: Weights{Stamina: 0.7, Strength: 0.3}, Sigmoid: true, Base: 0, Midpoint: 20, Steepness: 0.1, Max: 75,
		},
		MagicDamageReduction: Curve{
			Input: Weights{Wisdom: 0.7, Intellect: 0.3}, Sigmoid: true, Base: 0, Midpoint: 20, Steepness: 0.1, Max: 75,
		},
		DodgeChance: Curve{Input: Weights{Agility: 1}, Sigmoid: true, Base: 0, Midpoint: 20, Steepness: 0.12, Max: 40},
		Accuracy:    Curve{Input: Weights{Agility: 0.5, Strength: 0.25, Intellect: 0.25}, Base: 80, Mult: 12, Min: 80, Max: 100},
		BlockChance: Curve{Input: Weights{Strength: 0.6, Stamina: 0.4}, Sigmoid: true, Base: 0, Midpoint: 20, Steepness: 0.1, Max: 35},

		BaseAttackSpeed: 3.0,
		MinAttackSpeed:  0.5,
	}
}

// Derive computes stats from attributes.
func (c Curves) Derive(a Attributes) Stats {
	s := Stats{
		MinPhysicalDamage:       roundInt(c.MinPhysicalDamage.Eval(a)),
		MaxPhysicalDamage:       roundInt(c.MaxPhysicalDamage.Eval(a)),
		CriticalChance:          c.CriticalChance.Eval(a),
		AttackSpeed:             round2(c.BaseAttackSpeed - c.AttackSpeedBonus.Eval(a)),
		MinMagicDamage:          roundInt(c.MinMagicDamage.Eval(a)),
		MaxMagicDamage:          roundInt(c.MaxMagicDamage.Eval(a)),
		SpellCritChance:         c.SpellCritChance.Eval(a),
		Health:                  roundInt(c.Health.Eval(a)),
		Mana:                    roundInt(c.Mana.Eval(a)),
		PhysicalDamageReduction: c.PhysicalDamageReduction.Eval(a),
		MagicDamageReduction:    c.MagicDamageReduction.Eval(a),
		DodgeChance:             c.DodgeChance.Eval(a),
		Accuracy:                c.Accuracy.Eval(a),
		BlockChance:             c.BlockChance.Eval(a),
	}
	return c.normalize(s)
}

// normalize enforces the bounds every Stats value must respect, whether it
// came straight from the curves or had equipment bonuses folded in.
func (c Curves) normalize(s Stats) Stats {
	if s.MinPhysicalDamage < 1 {
		s.MinPhysicalDamage = 1
	}
	if s.MaxPhysicalDamage < s.MinPhysicalDamage {
		s.MaxPhysicalDamage = s.MinPhysicalDamage
	}
	if s.MinMagicDamage < 1 {
		s.MinMagicDamage = 1
	}
	if s.MaxMagicDamage < s.MinMagicDamage {
		s.MaxMagicDamage = s.MinMagicDamage
	}
	if s.Health < 1 {
		s.Health = 1
	}
	if s.Mana < 0 {
		s.Mana = 0
	}

	s.CriticalChance = round2(clamp(s.CriticalChance, 0, c.CriticalChance.Max))
	s.SpellCritChance = round2(clamp(s.SpellCritChance, 0, c.SpellCritChance.Max))
	s.PhysicalDamageReduction = round2(clamp(s.PhysicalDamageReduction, 0, c.PhysicalDamageReduction.Max))
	s.MagicDamageReduction = round2(clamp(s.MagicDamageReduction, 0, c.MagicDamageReduction.Max))
	s.DodgeChance = round2(clamp(s.DodgeChance, 0, c.DodgeChance.Max))
	s.Accuracy = round2(clamp(s.Accuracy, 0, c.Accuracy.Max))
	s.BlockChance = round2(clamp(s.BlockChance, 0, c.BlockChance.Max))
	s.AttackSpeed = round2(math.Max(s.AttackSpeed, c.MinAttackSpeed))
	return s
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
