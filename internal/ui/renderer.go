package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

const (
	barWidth   = 20
	headerRows = 3
)

// Renderer draws a battle log to the screen.
type Renderer struct {
	screen  *Screen
	catalog *gamedata.Catalog
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, catalog *gamedata.Catalog) *Renderer {
	return &Renderer{screen: screen, catalog: catalog}
}

// Render draws both health bars as of log entry pos and the log lines that
// lead up to it.
func (r *Renderer) Render(res *combat.Result, pos int) {
	r.screen.Clear()
	width, height := r.screen.Size()

	health := replayHealth(res, pos)
	r.renderBar(0, width, res.Character, health[res.Character.ID])
	r.renderBar(1, width, res.Opponent, health[res.Opponent.ID])

	var t float64
	if pos >= 0 && pos < len(res.Log) {
		t = res.Log[pos].Time
	}
	rule := fmt.Sprintf("-- %.1fs / %.1fs ", t, res.Duration)
	rule += strings.Repeat("-", max(0, width-len(rule)))
	r.screen.DrawText(0, 2, width, rule, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))

	rows := height - headerRows - 1
	first := max(0, pos-rows+1)
	for i := first; i <= pos && i < len(res.Log); i++ {
		e := res.Log[i]
		y := headerRows + i - first
		x := r.screen.DrawText(0, y, 8, fmt.Sprintf("%6.1f ", e.Time), tcell.StyleDefault.Foreground(tcell.ColorGray))
		r.screen.DrawText(x, y, width-x, e.Message, r.entryStyle(e))
	}

	r.RenderMessage(fmt.Sprintf("%d/%d  %s", min(pos+1, len(res.Log)), len(res.Log), outcomeLine(res)), height-1)
	r.screen.Show()
}

// renderBar draws a participant's name and health bar on row y.
func (r *Renderer) renderBar(y, width int, p combat.Participant, health int) {
	maxHealth := max(1, p.Stats.Health)
	filled := health * barWidth / maxHealth
	if health > 0 {
		filled = max(1, filled)
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	switch pct := health * 100 / maxHealth; {
	case pct <= 25:
		style = tcell.StyleDefault.Foreground(tcell.ColorRed)
	case pct <= 50:
		style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}

	x := r.screen.DrawText(0, y, min(width, 24), fmt.Sprintf("%-22s ", p.Name), tcell.StyleDefault.Bold(true))
	x = r.screen.DrawText(x, y, width-x, "[", tcell.StyleDefault)
	x = r.screen.DrawText(x, y, width-x, strings.Repeat("#", filled), style)
	x = r.screen.DrawText(x, y, width-x, strings.Repeat(" ", barWidth-filled), style)
	r.screen.DrawText(x, y, width-x, fmt.Sprintf("] %d/%d", health, p.Stats.Health), tcell.StyleDefault)
}

// entryStyle picks the color for a log line.
func (r *Renderer) entryStyle(e combat.LogEntry) tcell.Style {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	switch {
	case e.IsSystem:
		style = tcell.StyleDefault.Foreground(tcell.ColorGray)
	case e.EffectType != "":
		style = tcell.StyleDefault.Foreground(gamedata.EffectColor(e.EffectType))
	case e.AbilityID != "":
		if a := r.catalog.Abilities.GetByID(e.AbilityID); a != nil {
			style = tcell.StyleDefault.Foreground(a.TCellColor())
		}
	case e.Result == combat.ResultDodge:
		style = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
	return style.Bold(e.IsCritical)
}

// RenderMessage displays a message at the bottom of the screen.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range msg {
		r.screen.SetContent(i, y, ch, style)
	}
}

func outcomeLine(res *combat.Result) string {
	switch {
	case res.IsDraw():
		return "Draw"
	case res.Won(res.Character.ID):
		return res.Character.Name + " wins"
	default:
		return res.Opponent.Name + " wins"
	}
}

// replayHealth applies the log's damage and healing up to and including
// entry pos to each participant's max health.
func replayHealth(res *combat.Result, pos int) map[string]int {
	health := map[string]int{
		res.Character.ID: res.Character.Stats.Health,
		res.Opponent.ID:  res.Opponent.Stats.Health,
	}
	for i := 0; i <= pos && i < len(res.Log); i++ {
		e := res.Log[i]
		switch e.ActionType {
		case combat.ActionAttack, combat.ActionAbility, combat.ActionEffectTick, combat.ActionSelfDamage:
			health[e.TargetID] -= e.Damage
		}
		switch e.ActionType {
		case combat.ActionHeal, combat.ActionEffectTick:
			health[e.TargetID] += e.HealAmount
		}
	}
	for id, h := range health {
		health[id] = max(0, h)
	}
	return health
}
