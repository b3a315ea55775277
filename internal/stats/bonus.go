package stats

import "math"

// Bonuses are flat stat additions keyed by the JSON stat name
// (e.g. "health", "physicalDamageReduction"). Equipment carries these.
type Bonuses map[string]float64

var statFields = map[string]func(s *Stats, v float64){
	"minPhysicalDamage":       func(s *Stats, v float64) { s.MinPhysicalDamage += roundInt(v) },
	"maxPhysicalDamage":       func(s *Stats, v float64) { s.MaxPhysicalDamage += roundInt(v) },
	"criticalChance":          func(s *Stats, v float64) { s.CriticalChance += v },
	"attackSpeed":             func(s *Stats, v float64) { s.AttackSpeed += v },
	"minMagicDamage":          func(s *Stats, v float64) { s.MinMagicDamage += roundInt(v) },
	"maxMagicDamage":          func(s *Stats, v float64) { s.MaxMagicDamage += roundInt(v) },
	"spellCritChance":         func(s *Stats, v float64) { s.SpellCritChance += v },
	"health":                  func(s *Stats, v float64) { s.Health += roundInt(v) },
	"mana":                    func(s *Stats, v float64) { s.Mana += roundInt(v) },
	"physicalDamageReduction": func(s *Stats, v float64) { s.PhysicalDamageReduction += v },
	"magicDamageReduction":    func(s *Stats, v float64) { s.MagicDamageReduction += v },
	"dodgeChance":             func(s *Stats, v float64) { s.DodgeChance += v },
	"accuracy":                func(s *Stats, v float64) { s.Accuracy += v },
	"blockChance":             func(s *Stats, v float64) { s.BlockChance += v },
}

// KnownStat reports whether name is a stat that Bonuses may target.
func KnownStat(name string) bool {
	_, ok := statFields[name]
	return ok
}

// Apply folds bonuses into s using the default curve bounds.
func Apply(s Stats, bonuses ...Bonuses) Stats {
	return DefaultCurves().Apply(s, bonuses...)
}

// Apply folds bonuses into s and re-clamps every bounded stat.
// Unknown stat names are ignored; catalogs validate them at load time.
func (c Curves) Apply(s Stats, bonuses ...Bonuses) Stats {
	for _, b := range bonuses {
		for name, v := range b {
			if v == 0 || math.IsNaN(v) {
				continue
			}
			if set, ok := statFields[name]; ok {
				set(&s, v)
			}
		}
	}
	return c.normalize(s)
}
