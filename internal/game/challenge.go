package game

import (
	"context"
	"errors"
	"time"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/evolution"
)

var (
	// ErrWrongPlayer is returned when a round is played by a character that
	// does not own the challenge.
	ErrWrongPlayer = errors.New("challenge belongs to another player")
	// ErrRoundConflict is returned when the challenge advanced while a round
	// was being resolved.
	ErrRoundConflict = errors.New("challenge round changed concurrently")
)

// RoundSummary records one played round.
type RoundSummary struct {
	Round           int       `json:"round"`
	BattleID        string    `json:"battleId"`
	OpponentName    string    `json:"opponentName"`
	Outcome         string    `json:"outcome"`
	OpponentFitness float64   `json:"opponentFitness"`
	PlayedAt        time.Time `json:"playedAt"`
}

// Challenge is the persisted state of a Challenge Mode run.
type Challenge struct {
	ID           string           `json:"id"`
	PlayerID     string           `json:"playerId"`
	Round        int              `json:"round"`
	Wins         int              `json:"wins"`
	Losses       int              `json:"losses"`
	Draws        int              `json:"draws"`
	Opponent     evolution.Genome `json:"opponent"`
	OpponentName string           `json:"opponentName"`
	Memory       evolution.Memory `json:"memory"`
	History      []RoundSummary   `json:"history,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// OpponentCharacter materializes the current round's opponent.
func (c *Challenge) OpponentCharacter() entity.Character {
	return c.Opponent.Character(entity.OpponentID(c.ID, c.Round), c.OpponentName)
}

// ChallengeStore persists challenges. Update must apply fn atomically with
// respect to other updates of the same challenge.
type ChallengeStore interface {
	Create(ctx context.Context, c *Challenge) error
	Get(ctx context.Context, id string) (*Challenge, error)
	Update(ctx context.Context, id string, fn func(*Challenge) error) (*Challenge, error)
}
