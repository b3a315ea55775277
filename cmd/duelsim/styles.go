package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samdwyer/duelsim/internal/combat"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")).Italic(true)
	damageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7043"))
	healStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#66BB6A"))
	effectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#42A5F5"))
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#616161"))
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	lossStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25D94"))
)

// styleEntry renders one log line for terminal output.
func styleEntry(e combat.LogEntry) string {
	style := lipgloss.NewStyle()
	switch {
	case e.IsSystem:
		style = systemStyle
	case e.Result == combat.ResultDodge:
		style = missStyle
	case e.ActionType == combat.ActionHeal || e.HealAmount > 0:
		style = healStyle
	case e.Damage > 0:
		style = damageStyle
	case e.EffectType != "":
		style = effectStyle
	}
	if e.IsCritical {
		style = style.Bold(true)
	}
	return timeStyle.Render(fmt.Sprintf("%6.1fs", e.Time)) + "  " + style.Render(e.Message)
}

// renderSummary renders the winner and final state of a battle in a box.
func renderSummary(res *combat.Result) string {
	var b strings.Builder
	switch {
	case res.IsDraw():
		b.WriteString(systemStyle.Render("Draw"))
	case res.Won(res.Character.ID):
		b.WriteString(winStyle.Render(res.Character.Name + " wins"))
	default:
		b.WriteString(lossStyle.Render(res.Opponent.Name + " wins"))
	}
	fmt.Fprintf(&b, " after %.1fs, %d actions\n", res.Duration, res.Rounds)
	for _, p := range []combat.Participant{res.Character, res.Opponent} {
		fs, _ := res.FinalState(p.ID)
		fmt.Fprintf(&b, "\n%-24s HP %4d/%-4d  MP %4d/%-4d", p.Name, fs.Health, fs.MaxHealth, fs.Mana, fs.MaxMana)
	}
	return summaryStyle.Render(b.String())
}
