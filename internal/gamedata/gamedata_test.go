package gamedata

import (
	"errors"
	"math/rand/v2"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	assert.Greater(t, catalog.Abilities.Count(), 10)
	assert.Greater(t, catalog.Items.Count(), 10)

	fireball := catalog.Abilities.GetByID("fireball")
	require.NotNil(t, fireball)
	assert.Equal(t, "Fireball", fireball.Name)
	assert.Equal(t, Magic, fireball.Type)
	assert.Equal(t, KindDamage, fireball.Kind())
	require.NotNil(t, fireball.CriticalEffect)

	for _, slot := range Slots {
		assert.NotEmpty(t, catalog.Items.ForSlot(slot), "slot %s has no items", slot)
	}
}

func TestCatalogLookupErrors(t *testing.T) {
	catalog := MustLoadCatalog()

	_, err := catalog.Ability("does_not_exist")
	assert.True(t, errors.Is(err, ErrUnknownAbility))

	_, err = catalog.Item("does_not_exist")
	assert.True(t, errors.Is(err, ErrUnknownItem))

	a, err := catalog.Ability("flurry")
	require.NoError(t, err)
	assert.Equal(t, KindMultiAttack, a.Kind())
}

func TestKindPrecedence(t *testing.T) {
	// A catalog entry may set several effect blocks; the first in precedence wins.
	a := AbilityDef{
		ID:               "odd",
		Name:             "Odd",
		Type:             Physical,
		DamageMultiplier: 1,
		StunEffect:       &StunEffect{Duration: 1},
		DotEffect:        &DotEffect{Type: EffectPoison, Damage: 1, Duration: 1, Interval: 1},
		MultiAttack:      &MultiAttackEffect{Count: 2},
	}
	assert.Equal(t, KindDot, a.Kind())

	a.HealEffect = &HealEffect{Multiplier: 1}
	assert.Equal(t, KindHeal, a.Kind())

	a.BuffEffect = &BuffEffect{Type: BuffDamageIncrease, Amount: 10, Duration: 1}
	assert.Equal(t, KindBuff, a.Kind())

	assert.Equal(t, KindDamage, (&AbilityDef{}).Kind())
}

func TestAbilityValidate(t *testing.T) {
	tests := []struct {
		name  string
		def   AbilityDef
		valid bool
	}{
		{"plain damage", AbilityDef{ID: "a", Name: "A", Type: Physical, DamageMultiplier: 1}, true},
		{"missing id", AbilityDef{Name: "A", Type: Physical, DamageMultiplier: 1}, false},
		{"bad type", AbilityDef{ID: "a", Name: "A", Type: "holy", DamageMultiplier: 1}, false},
		{"damage without multiplier", AbilityDef{ID: "a", Name: "A", Type: Magic}, false},
		{"buff without duration", AbilityDef{ID: "a", Name: "A", Type: Magic, BuffEffect: &BuffEffect{Type: BuffStun}}, false},
		{"heal", AbilityDef{ID: "a", Name: "A", Type: Magic, HealEffect: &HealEffect{Multiplier: 1.5}}, true},
		{"heal without multiplier", AbilityDef{ID: "a", Name: "A", Type: Magic, HealEffect: &HealEffect{}}, false},
		{"periodic without interval", AbilityDef{ID: "a", Name: "A", Type: Magic,
			PeriodicEffect: &PeriodicEffect{Type: EffectRegen, Amount: 5, Duration: 5}}, false},
		{"unknown periodic type is allowed", AbilityDef{ID: "a", Name: "A", Type: Magic,
			PeriodicEffect: &PeriodicEffect{Type: "frostbite", Amount: 5, Duration: 5, Interval: 1}}, true},
		{"negative cost", AbilityDef{ID: "a", Name: "A", Type: Physical, ManaCost: -1, DamageMultiplier: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidAbility), "got %v", err)
			}
		})
	}
}

func TestItemValidate(t *testing.T) {
	ok := ItemDef{ID: "x", Name: "X", Slot: SlotHead, Stats: map[string]float64{"health": 5}}
	require.NoError(t, ok.Validate())

	badStat := ItemDef{ID: "x", Name: "X", Slot: SlotHead, Stats: map[string]float64{"luck": 5}}
	assert.True(t, errors.Is(badStat.Validate(), ErrInvalidItem))

	offHandTwoHander := ItemDef{ID: "x", Name: "X", Slot: SlotOffHand, TwoHanded: true}
	assert.True(t, errors.Is(offHandTwoHander.Validate(), ErrInvalidItem))

	badSlot := ItemDef{ID: "x", Name: "X", Slot: "tail"}
	assert.True(t, errors.Is(badSlot.Validate(), ErrInvalidItem))
}

func TestItemValidateWeaponEffect(t *testing.T) {
	tests := []struct {
		name   string
		effect WeaponEffectDef
		valid  bool
	}{
		{"poison", WeaponEffectDef{Type: WeaponPoison, Chance: 15, Damage: 3, Duration: 4, Interval: 1}, true},
		{"stun", WeaponEffectDef{Type: WeaponStun, Chance: 8, Duration: 1.5}, true},
		{"mana drain", WeaponEffectDef{Type: WeaponManaDrain, Chance: 20, Amount: 10}, true},
		{"chance above 100", WeaponEffectDef{Type: WeaponStun, Chance: 101, Duration: 1}, false},
		{"unknown type", WeaponEffectDef{Type: "freeze", Chance: 10, Duration: 2}, false},
		{"poison without interval", WeaponEffectDef{Type: WeaponPoison, Chance: 15, Damage: 3, Duration: 4}, false},
		{"burning without duration", WeaponEffectDef{Type: WeaponBurning, Chance: 12, Damage: 4, Interval: 1}, false},
		{"stun without duration", WeaponEffectDef{Type: WeaponStun, Chance: 8}, false},
		{"mana drain without amount", WeaponEffectDef{Type: WeaponManaDrain, Chance: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect := tt.effect
			item := ItemDef{ID: "blade", Name: "Blade", Slot: SlotMainHand, Effect: &effect}
			err := item.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidItem)
			}
		})
	}
}

func TestLoadCatalogFSRejectsBadWeaponEffect(t *testing.T) {
	fsys := fstest.MapFS{
		"abilities.json": {Data: []byte(`{"abilities":[{"id":"jab","name":"Jab","type":"physical","cooldown":1,"manaCost":0,"damageMultiplier":0.9}]}`)},
		"items.json":     {Data: []byte(`{"items":[{"id":"dagger","name":"Dagger","slot":"mainHand","weight":1,"effect":{"type":"poison","chance":15,"damage":3,"duration":4}}]}`)},
	}
	_, err := LoadCatalogFS(fsys)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestRandomForSlotDeterministic(t *testing.T) {
	catalog := MustLoadCatalog()

	rng1 := rand.New(rand.NewPCG(12345, 1))
	rng2 := rand.New(rand.NewPCG(12345, 1))

	for i := 0; i < 20; i++ {
		a := catalog.Items.RandomForSlot(rng1, SlotMainHand)
		b := catalog.Items.RandomForSlot(rng2, SlotMainHand)
		require.NotNil(t, a)
		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, SlotMainHand, a.Slot)
	}
}

func TestLoadCatalogFS(t *testing.T) {
	fsys := fstest.MapFS{
		"abilities.json": {Data: []byte(`{"abilities":[{"id":"jab","name":"Jab","type":"physical","cooldown":1,"manaCost":0,"damageMultiplier":0.9}]}`)},
		"items.json":     {Data: []byte(`{"items":[{"id":"cap","name":"Cap","slot":"head","weight":1,"stats":{"health":5}}]}`)},
	}

	catalog, err := LoadCatalogFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Abilities.Count())
	assert.Equal(t, []string{"jab"}, catalog.Abilities.IDs())

	fsys["abilities.json"] = &fstest.MapFile{Data: []byte(`{"abilities":[{"id":"jab","name":"Jab","type":"physical","damageMultipler":1}]}`)}
	_, err = LoadCatalogFS(fsys)
	assert.Error(t, err, "misspelled fields are rejected")
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#FF0000", true},
		{"FF0000", true},
		{"#00FF00", true},
		{"invalid", false},
		{"#FFF", false}, // Too short
	}

	for _, tt := range tests {
		_, err := ParseHexColor(tt.input)
		if tt.valid {
			assert.NoError(t, err, "ParseHexColor(%q)", tt.input)
		} else {
			assert.Error(t, err, "ParseHexColor(%q)", tt.input)
		}
	}
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, "1.5s", Seconds(1.5).String())
	assert.Equal(t, "300ms", Seconds(0.3).String())
}
