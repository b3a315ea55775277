// Package stats derives combat stats from character attributes.
//
// Every derived stat is a weighted combination of the five attributes run
// through one of two scaling curves: a clamped logarithm or a sigmoid. The
// curve parameters are balance configuration and live in the Curves table.
package stats

import (
	"errors"
	"fmt"
	"math"
)

const (
	// BasePoints is the attribute total of a freshly created character.
	BasePoints = 15
	// PointsPerLevel is added to the attribute total on every level-up.
	PointsPerLevel = 2
)

// ErrInvalidAttributes is returned when an attribute set breaks the >= 1 rule.
var ErrInvalidAttributes = errors.New("invalid attributes")

// Attributes are the five base attributes every character distributes points across.
type Attributes struct {
	Strength  int `json:"strength" yaml:"strength"`
	Agility   int `json:"agility" yaml:"agility"`
	Stamina   int `json:"stamina" yaml:"stamina"`
	Intellect int `json:"intellect" yaml:"intellect"`
	Wisdom    int `json:"wisdom" yaml:"wisdom"`
}

// AttributeCount is the number of attributes in an Attributes value.
const AttributeCount = 5

// PointsForLevel returns the attribute total expected at the given level.
func PointsForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return BasePoints + PointsPerLevel*(level-1)
}

// Total returns the sum of all attributes.
func (a Attributes) Total() int {
	return a.Strength + a.Agility + a.Stamina + a.Intellect + a.Wisdom
}

// Validate checks that every attribute is at least 1.
func (a Attributes) Validate() error {
	for i, v := range a.Values() {
		if v < 1 {
			return fmt.Errorf("%w: %s is %d", ErrInvalidAttributes, attributeNames[i], v)
		}
	}
	return nil
}

var attributeNames = [AttributeCount]string{"strength", "agility", "stamina", "intellect", "wisdom"}

// Values returns the attributes in a fixed order (str, agi, sta, int, wis).
func (a Attributes) Values() [AttributeCount]int {
	return [AttributeCount]int{a.Strength, a.Agility, a.Stamina, a.Intellect, a.Wisdom}
}

// FromValues is the inverse of Values.
func FromValues(v [AttributeCount]int) Attributes {
	return Attributes{
		Strength:  v[0],
		Agility:   v[1],
		Stamina:   v[2],
		Intellect: v[3],
		Wisdom:    v[4],
	}
}

// Stats is an immutable snapshot of derived combat stats.
// Percent values are in the 0-100 range. AttackSpeed is seconds between
// actions, so lower is faster.
type Stats struct {
	MinPhysicalDamage       int     `json:"minPhysicalDamage"`
	MaxPhysicalDamage       int     `json:"maxPhysicalDamage"`
	CriticalChance          float64 `json:"criticalChance"`
	AttackSpeed             float64 `json:"attackSpeed"`
	MinMagicDamage          int     `json:"minMagicDamage"`
	MaxMagicDamage          int     `json:"maxMagicDamage"`
	SpellCritChance         float64 `json:"spellCritChance"`
	Health                  int     `json:"health"`
	Mana                    int     `json:"mana"`
	PhysicalDamageReduction float64 `json:"physicalDamageReduction"`
	MagicDamageReduction    float64 `json:"magicDamageReduction"`
	DodgeChance             float64 `json:"dodgeChance"`
	Accuracy                float64 `json:"accuracy"`
	BlockChance             float64 `json:"blockChance"`
}

// AverageMagicDamage returns the midpoint of the magic damage range.
func (s Stats) AverageMagicDamage() float64 {
	return float64(s.MinMagicDamage+s.MaxMagicDamage) / 2
}

// LogScale maps value onto base + mult*log10(value+1), clamped to [min, max]
// and rounded to 2 decimals.
func LogScale(value, base, mult, min, max float64) float64 {
	v := base + mult*math.Log10(value+1)
	return round2(clamp(v, min, max))
}

// SigmoidScale maps value onto a logistic curve rising from base towards max,
// centred on midpoint. Rounded to 2 decimals.
func SigmoidScale(value, base, midpoint, steepness, max float64) float64 {
	v := base + (max-base)/(1+math.Exp(-steepness*(value-midpoint)))
	return round2(v)
}

// Derive computes stats from attributes with the default curve table.
func Derive(a Attributes) Stats {
	return DefaultCurves().Derive(a)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
