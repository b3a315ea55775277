package combat

import (
	"time"

	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

// Participant is the read-only summary of a combatant stored with a result.
type Participant struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Stats      stats.Stats         `json:"stats"`
	Rotation   []string            `json:"rotation"`
	AttackType gamedata.DamageKind `json:"attackType"`
}

func newParticipant(c *Combatant) Participant {
	return Participant{
		ID:         c.ID,
		Name:       c.Name,
		Stats:      c.Stats,
		Rotation:   append([]string(nil), c.Rotation...),
		AttackType: c.AttackType,
	}
}

// Result is the outcome of one battle. Winner is nil for a draw.
type Result struct {
	ID        string      `json:"id"`
	Character Participant `json:"character"`
	Opponent  Participant `json:"opponent"`
	Log       []LogEntry  `json:"log"`
	Winner    *string     `json:"winner"`
	Rounds    int         `json:"rounds"`
	Duration  float64     `json:"duration"`
	Timestamp time.Time   `json:"timestamp"`
}

// FinalState is a combatant's health and mana at the end of a battle.
type FinalState struct {
	Health    int
	Mana      int
	MaxHealth int
	MaxMana   int
}

// DamageTakenPercent returns the fraction of max health lost, in [0, 1].
func (f FinalState) DamageTakenPercent() float64 {
	if f.MaxHealth <= 0 {
		return 0
	}
	return float64(f.MaxHealth-f.Health) / float64(f.MaxHealth)
}

// FinalState reads the final-state entry for the combatant with the given id.
func (r *Result) FinalState(id string) (FinalState, bool) {
	for i := len(r.Log) - 1; i >= 0; i-- {
		e := r.Log[i]
		if e.ActionType != ActionFinalState || e.SourceID != id || e.CurrentHealth == nil {
			continue
		}
		fs := FinalState{Health: *e.CurrentHealth, MaxHealth: e.MaxHealth, MaxMana: e.MaxMana}
		if e.CurrentMana != nil {
			fs.Mana = *e.CurrentMana
		}
		return fs, true
	}
	return FinalState{}, false
}

// Won reports whether the combatant with the given id won.
func (r *Result) Won(id string) bool {
	return r.Winner != nil && *r.Winner == id
}

// IsDraw reports whether the battle ended without a winner.
func (r *Result) IsDraw() bool {
	return r.Winner == nil
}
