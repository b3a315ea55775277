package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/evolution"
	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

func testChallenge() *game.Challenge {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &game.Challenge{
		ID:       uuid.NewString(),
		PlayerID: "hero",
		Round:    1,
		Opponent: evolution.Genome{
			Attributes: stats.Attributes{Strength: 5, Agility: 5, Stamina: 5, Intellect: 2, Wisdom: 2},
			Equipment:  entity.Equipment{gamedata.SlotMainHand: "war_hammer"},
			Rotation:   []string{"power_strike", "hamstring", "battle_cry"},
			AttackType: gamedata.Physical,
		},
		OpponentName: "Varek the Butcher",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// exerciseStore runs the behavior every ChallengeStore must share.
func exerciseStore(t *testing.T, s game.ChallengeStore) {
	t.Helper()
	ctx := context.Background()
	c := testChallenge()

	require.NoError(t, s.Create(ctx, c))
	assert.ErrorIs(t, s.Create(ctx, c), ErrExists)

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Opponent, got.Opponent)
	assert.Equal(t, c.OpponentName, got.OpponentName)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.Update(ctx, c.ID, func(ch *game.Challenge) error {
		ch.Round++
		ch.Losses++
		ch.Memory = ch.Memory.Record(ch.Opponent, 10)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Round)
	require.Len(t, updated.Memory, 1)

	boom := errors.New("boom")
	_, err = s.Update(ctx, c.ID, func(ch *game.Challenge) error {
		ch.Round = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err = s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Round, "failed update is not persisted")
	assert.Equal(t, 1, got.Losses)
	assert.Equal(t, c.Opponent.Rotation, got.Memory[0].Rotation)

	_, err = s.Update(ctx, uuid.NewString(), func(*game.Challenge) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	// Concurrent read-modify-write cycles must not lose increments.
	const writers = 8
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, c.ID, func(ch *game.Challenge) error {
				ch.Wins++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err = s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.Wins)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", "a/b", "dot.json"} {
		c := testChallenge()
		c.ID = id
		assert.ErrorIs(t, s.Create(context.Background(), c), ErrInvalidID, fmt.Sprintf("id %q", id))
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	c := testChallenge()
	require.NoError(t, s1.Create(ctx, c))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := s2.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.PlayerID, got.PlayerID)
}
