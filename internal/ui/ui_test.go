package ui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

func testBattle(t *testing.T) *combat.Result {
	t.Helper()
	catalog := gamedata.MustLoadCatalog()
	r := combat.NewResolver(catalog, combat.WithRandSource(rand.New(rand.NewPCG(3, 4))))
	a := entity.Character{
		ID: "a", Name: "Alpha", Level: 1,
		Attributes: stats.Attributes{Strength: 5, Agility: 3, Stamina: 3, Intellect: 2, Wisdom: 2},
		Rotation:   []string{"power_strike"},
		AttackType: gamedata.Physical,
	}
	b := entity.Character{
		ID: "b", Name: "Beta", Level: 1,
		Attributes: stats.Attributes{Strength: 1, Agility: 2, Stamina: 3, Intellect: 6, Wisdom: 3},
		Rotation:   []string{"fireball", "healing_light"},
		AttackType: gamedata.Magic,
	}
	res, err := r.Duel(context.Background(), a, b)
	require.NoError(t, err)
	return res
}

func newSimScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	s, err := newScreenFrom(sim)
	require.NoError(t, err)
	sim.SetSize(80, 24)
	t.Cleanup(s.Close)
	return s, sim
}

func rowText(sim tcell.SimulationScreen, y int) string {
	w, _ := sim.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// clip shortens a message to what fits beside the timestamp column.
func clip(msg string) string {
	return msg[:min(len(msg), 40)]
}

func TestReplayHealthMatchesFinalState(t *testing.T) {
	res := testBattle(t)
	health := replayHealth(res, len(res.Log)-1)

	for _, id := range []string{res.Character.ID, res.Opponent.ID} {
		fs, ok := res.FinalState(id)
		require.True(t, ok)
		assert.Equal(t, fs.Health, health[id], id)
	}

	start := replayHealth(res, 0)
	assert.Equal(t, res.Character.Stats.Health, start[res.Character.ID])
	assert.Equal(t, res.Opponent.Stats.Health, start[res.Opponent.ID])
}

func TestRenderDrawsBarsAndLog(t *testing.T) {
	res := testBattle(t)
	screen, sim := newSimScreen(t)
	r := NewRenderer(screen, gamedata.MustLoadCatalog())

	r.Render(res, 0)
	assert.True(t, strings.HasPrefix(rowText(sim, 0), "Alpha"))
	assert.True(t, strings.HasPrefix(rowText(sim, 1), "Beta"))
	assert.Contains(t, rowText(sim, 3), clip(res.Log[0].Message))

	last := len(res.Log) - 1
	r.Render(res, last)
	_, h := sim.Size()
	assert.Contains(t, rowText(sim, h-2), clip(res.Log[last].Message))
	assert.Contains(t, rowText(sim, h-1), outcomeLine(res))
}

func TestViewerKeys(t *testing.T) {
	res := testBattle(t)
	screen, _ := newSimScreen(t)
	v := NewViewer(screen, gamedata.MustLoadCatalog(), res)
	last := len(res.Log) - 1

	key := func(k tcell.Key, ch rune) bool {
		return v.handleKey(tcell.NewEventKey(k, ch, tcell.ModNone))
	}

	assert.True(t, key(tcell.KeyRight, 0))
	assert.Equal(t, 1, v.pos)
	assert.True(t, key(tcell.KeyRune, 'k'))
	assert.Equal(t, 0, v.pos)
	assert.True(t, key(tcell.KeyLeft, 0))
	assert.Equal(t, 0, v.pos, "clamped at the first entry")
	assert.True(t, key(tcell.KeyEnd, 0))
	assert.Equal(t, last, v.pos)
	assert.True(t, key(tcell.KeyRune, ' '))
	assert.Equal(t, last, v.pos, "clamped at the last entry")
	assert.True(t, key(tcell.KeyRune, 'g'))
	assert.Equal(t, 0, v.pos)

	assert.False(t, key(tcell.KeyRune, 'q'))
	assert.False(t, key(tcell.KeyEscape, 0))
}
