package stats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogScale(t *testing.T) {
	tests := []struct {
		name                        string
		value, base, mult, min, max float64
		want                        float64
	}{
		{"zero input is base", 0, 5, 10, 0, 100, 5},
		{"log10 of 10", 9, 0, 10, 0, 100, 10},
		{"clamped to max", 999, 0, 50, 0, 75, 75},
		{"clamped to min", 0, 1, 10, 3, 100, 3},
		{"rounded to 2 decimals", 1, 0, 1, 0, 10, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LogScale(tt.value, tt.base, tt.mult, tt.min, tt.max), 1e-9)
		})
	}
}

func TestSigmoidScale(t *testing.T) {
	// At the midpoint the curve sits halfway between base and max.
	assert.InDelta(t, 50.0, SigmoidScale(20, 0, 20, 0.1, 100), 1e-9)
	assert.InDelta(t, 30.0, SigmoidScale(10, 10, 10, 1, 50), 1e-9)

	// Far above the midpoint it approaches max but never exceeds it.
	high := SigmoidScale(1000, 0, 20, 0.1, 75)
	assert.LessOrEqual(t, high, 75.0)
	assert.InDelta(t, 75.0, high, 0.01)
}

func TestDeriveMonotonic(t *testing.T) {
	weak := Derive(Attributes{Strength: 3, Agility: 3, Stamina: 3, Intellect: 3, Wisdom: 3})
	strong := Derive(Attributes{Strength: 20, Agility: 20, Stamina: 20, Intellect: 20, Wisdom: 20})

	assert.Greater(t, strong.MaxPhysicalDamage, weak.MaxPhysicalDamage)
	assert.Greater(t, strong.MaxMagicDamage, weak.MaxMagicDamage)
	assert.Greater(t, strong.Health, weak.Health)
	assert.Greater(t, strong.Mana, weak.Mana)
	assert.Greater(t, strong.DodgeChance, weak.DodgeChance)
	assert.Less(t, strong.AttackSpeed, weak.AttackSpeed, "more agility means a shorter swing interval")
}

func TestDeriveBounds(t *testing.T) {
	huge := Derive(Attributes{Strength: 500, Agility: 500, Stamina: 500, Intellect: 500, Wisdom: 500})

	assert.LessOrEqual(t, huge.PhysicalDamageReduction, 75.0)
	assert.LessOrEqual(t, huge.MagicDamageReduction, 75.0)
	assert.LessOrEqual(t, huge.DodgeChance, 40.0)
	assert.LessOrEqual(t, huge.BlockChance, 35.0)
	assert.LessOrEqual(t, huge.Accuracy, 100.0)
	assert.GreaterOrEqual(t, huge.AttackSpeed, 1.0)
	assert.LessOrEqual(t, huge.MinPhysicalDamage, huge.MaxPhysicalDamage)
	assert.LessOrEqual(t, huge.MinMagicDamage, huge.MaxMagicDamage)
}

func TestAttributesValidate(t *testing.T) {
	require.NoError(t, Attributes{1, 1, 1, 1, 11}.Validate())

	err := Attributes{Strength: 0, Agility: 5, Stamina: 5, Intellect: 3, Wisdom: 2}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAttributes))
	assert.Contains(t, err.Error(), "strength")
}

func TestPointsForLevel(t *testing.T) {
	assert.Equal(t, 15, PointsForLevel(1))
	assert.Equal(t, 17, PointsForLevel(2))
	assert.Equal(t, 33, PointsForLevel(10))
	assert.Equal(t, 15, PointsForLevel(0))
}

func TestValuesRoundTrip(t *testing.T) {
	a := Attributes{Strength: 1, Agility: 2, Stamina: 3, Intellect: 4, Wisdom: 5}
	assert.Equal(t, a, FromValues(a.Values()))
	assert.Equal(t, 15, a.Total())
}

func TestApplyBonuses(t *testing.T) {
	base := Derive(Attributes{Strength: 3, Agility: 3, Stamina: 3, Intellect: 3, Wisdom: 3})

	boosted := Apply(base, Bonuses{"health": 50, "physicalDamageReduction": 200}, Bonuses{"attackSpeed": -10})

	assert.Equal(t, base.Health+50, boosted.Health)
	assert.Equal(t, 75.0, boosted.PhysicalDamageReduction, "reduction is capped by the curve max")
	assert.Equal(t, 0.5, boosted.AttackSpeed, "swing interval never drops below the floor")
	assert.Equal(t, base.MagicDamageReduction, boosted.MagicDamageReduction)
}

func TestKnownStat(t *testing.T) {
	assert.True(t, KnownStat("blockChance"))
	assert.False(t, KnownStat("luck"))
}
