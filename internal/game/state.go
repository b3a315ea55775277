// Package game orchestrates Challenge Mode: duels, round progression and the
// genetic memory that shapes each new opponent.
package game

import "github.com/samdwyer/duelsim/internal/combat"

// Outcome is the result of a round from the player's point of view.
type Outcome int

const (
	// OutcomeDraw - the battle timed out with equal health percentages
	OutcomeDraw Outcome = iota
	// OutcomeVictory - the player won
	OutcomeVictory
	// OutcomeDefeat - the opponent won
	OutcomeDefeat
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDraw:
		return "draw"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// OutcomeFor classifies a battle result for the given player.
func OutcomeFor(res *combat.Result, playerID string) Outcome {
	switch {
	case res.IsDraw():
		return OutcomeDraw
	case res.Won(playerID):
		return OutcomeVictory
	default:
		return OutcomeDefeat
	}
}
