package combat

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/duelsim/internal/gamedata"
)

func newTestBattle(t *testing.T, rng Rand) *battle {
	t.Helper()
	r := NewResolver(gamedata.MustLoadCatalog(),
		WithRandSource(rng),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return &battle{Resolver: r, a: fighter("a"), b: fighter("b")}
}

func entriesOf(entries []LogEntry, action ActionType) []LogEntry {
	var out []LogEntry
	for _, e := range entries {
		if e.ActionType == action {
			out = append(out, e)
		}
	}
	return out
}

func TestCooldowns(t *testing.T) {
	c := fighter("a")
	ability := &gamedata.AbilityDef{ID: "jab", Cooldown: 4}
	assert.True(t, c.Ready("jab", 0))

	c.SetCooldown(ability, 10*time.Second)
	assert.False(t, c.Ready("jab", 13900*time.Millisecond))
	assert.True(t, c.Ready("jab", 14*time.Second))
}

func TestSingleInstanceEffects(t *testing.T) {
	bt := newTestBattle(t, constRand{f: 0.5})
	target := bt.b

	bt.now = time.Second
	bt.applyBuff(bt.a, target, Buff{Name: "Chill", Type: gamedata.BuffAttackSpeedReduction, Amount: 30, EndTime: 5 * time.Second})
	bt.now = 2 * time.Second
	bt.applyBuff(bt.a, target, Buff{Name: "Deep Chill", Type: gamedata.BuffAttackSpeedReduction, Amount: 90, EndTime: 8 * time.Second})

	require.Len(t, target.Buffs, 1)
	assert.Equal(t, 30.0, target.Buffs[0].Amount, "refresh does not stack magnitude")
	assert.Equal(t, 8*time.Second, target.Buffs[0].EndTime)

	bt.applyPeriodic(bt.a, target, PeriodicEffect{Name: "Poison", Type: gamedata.EffectPoison, Amount: 5, Interval: time.Second, EndTime: 5 * time.Second})
	bt.applyPeriodic(bt.a, target, PeriodicEffect{Name: "Poison", Type: gamedata.EffectPoison, Amount: 50, Interval: time.Second, EndTime: 9 * time.Second})
	require.Len(t, target.Periodic, 1)
	assert.Equal(t, 5, target.Periodic[0].Amount)
	assert.Equal(t, 9*time.Second, target.Periodic[0].EndTime)

	assert.Len(t, entriesOf(bt.entries, ActionBuffApplied), 1)
	assert.Len(t, entriesOf(bt.entries, ActionBuffRefreshed), 1)
	assert.Len(t, entriesOf(bt.entries, ActionEffectApplied), 1)
	assert.Len(t, entriesOf(bt.entries, ActionEffectRefreshed), 1)
}

func TestPoisonTickSchedule(t *testing.T) {
	bt := newTestBattle(t, constRand{f: 0.5})
	bt.now = 10 * time.Second
	bt.applyPeriodic(bt.a, bt.b, PeriodicEffect{
		Name:     "Poison Blade",
		Type:     gamedata.EffectPoison,
		Amount:   5,
		Interval: time.Second,
		LastProc: bt.now,
		EndTime:  bt.now + 3*time.Second,
		SourceID: bt.a.ID,
	})

	for bt.now = 10*time.Second + DefaultTimeStep; bt.now <= 15*time.Second; bt.now += DefaultTimeStep {
		bt.tick(bt.b)
	}

	ticks := entriesOf(bt.entries, ActionEffectTick)
	require.Len(t, ticks, 2)
	assert.Equal(t, 11.0, ticks[0].Time)
	assert.Equal(t, 12.0, ticks[1].Time)
	assert.Equal(t, 5, ticks[0].Damage)

	expired := entriesOf(bt.entries, ActionEffectExpired)
	require.Len(t, expired, 1)
	assert.Equal(t, 13.0, expired[0].Time)
	assert.Empty(t, bt.b.Periodic)
	assert.Equal(t, 490, bt.b.Health)
}

func TestManaDrainTickTransfersMana(t *testing.T) {
	bt := newTestBattle(t, constRand{f: 0.5})
	bt.a.Mana = 50
	bt.b.Mana = 8
	bt.b.AddPeriodic(PeriodicEffect{Name: "Siphon", Type: gamedata.EffectManaDrain, Amount: 10, Interval: time.Second, EndTime: time.Minute, SourceID: "a"})

	bt.now = time.Second
	bt.tick(bt.b)
	assert.Equal(t, 0, bt.b.Mana)
	assert.Equal(t, 58, bt.a.Mana)

	ticks := entriesOf(bt.entries, ActionEffectTick)
	require.Len(t, ticks, 1)
	assert.Equal(t, 8, ticks[0].ManaChange)
}

func TestRegenCappedAtMax(t *testing.T) {
	bt := newTestBattle(t, constRand{f: 0.5})
	bt.a.Health = 495
	bt.a.AddPeriodic(PeriodicEffect{Name: "Rejuvenation", Type: gamedata.EffectRegen, Amount: 20, Interval: time.Second, EndTime: time.Minute})

	bt.now = time.Second
	bt.tick(bt.a)
	assert.Equal(t, 500, bt.a.Health)
	assert.Equal(t, 5, entriesOf(bt.entries, ActionEffectTick)[0].HealAmount)
}

func TestUnknownPeriodicTypeIsIgnored(t *testing.T) {
	bt := newTestBattle(t, constRand{f: 0.5})
	bt.b.AddPeriodic(PeriodicEffect{Name: "Frostbite", Type: "frostbite", Amount: 20, Interval: time.Second, EndTime: 3 * time.Second})

	for bt.now = time.Second; bt.now <= 3*time.Second; bt.now += time.Second {
		bt.tick(bt.b)
	}
	assert.Equal(t, 500, bt.b.Health)
	assert.Empty(t, entriesOf(bt.entries, ActionEffectTick))
	assert.Len(t, entriesOf(bt.entries, ActionEffectExpired), 1)
}

func TestBuffExpiry(t *testing.T) {
	bt := newTestBattle(t, constRand{f: 0.5})
	bt.a.AddBuff(Buff{Name: "Battle Cry", Type: gamedata.BuffDamageIncrease, Amount: 25, EndTime: 2 * time.Second})

	bt.now = 1900 * time.Millisecond
	bt.tick(bt.a)
	assert.NotNil(t, bt.a.Buff(gamedata.BuffDamageIncrease))

	bt.now = 2 * time.Second
	bt.tick(bt.a)
	assert.Nil(t, bt.a.Buff(gamedata.BuffDamageIncrease))
	assert.Len(t, entriesOf(bt.entries, ActionBuffExpired), 1)
}

func TestEffectiveAttackSpeed(t *testing.T) {
	c := fighter("a")
	assert.Equal(t, 2*time.Second, c.EffectiveAttackSpeed())

	c.AddBuff(Buff{Type: gamedata.BuffAttackSpeedReduction, Amount: 50, EndTime: time.Minute})
	assert.Equal(t, 3*time.Second, c.EffectiveAttackSpeed())
}
