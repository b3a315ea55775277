package game

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/evolution"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

var (
	quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	errMissing  = errors.New("missing")
)

// memStore keeps challenges as JSON so callers never share state with it.
type memStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemStore() *memStore { return &memStore{docs: map[string][]byte{}} }

func (s *memStore) Create(_ context.Context, c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.docs[c.ID] = data
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

func (s *memStore) load(id string) (*Challenge, error) {
	data, ok := s.docs[id]
	if !ok {
		return nil, errMissing
	}
	var c Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *memStore) Update(_ context.Context, id string, fn func(*Challenge) error) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	s.docs[id] = data
	return c, nil
}

// racingStore advances the round before every update, as a concurrent
// writer would.
type racingStore struct {
	*memStore
}

func (s racingStore) Update(ctx context.Context, id string, fn func(*Challenge) error) (*Challenge, error) {
	if _, err := s.memStore.Update(ctx, id, func(c *Challenge) error { c.Round++; return nil }); err != nil {
		return nil, err
	}
	return s.memStore.Update(ctx, id, fn)
}

func testPlayer() entity.Character {
	return entity.Character{
		ID:         "hero",
		Name:       "Hero",
		Level:      3,
		Attributes: stats.Attributes{Strength: 6, Agility: 5, Stamina: 5, Intellect: 1, Wisdom: 2},
		Equipment:  entity.Equipment{gamedata.SlotMainHand: "short_sword"},
		Rotation:   []string{"power_strike", "battle_cry", "poison_blade"},
		AttackType: gamedata.Physical,
	}
}

func newTestArena(store ChallengeStore, cfg Config) *Arena {
	resolver := combat.NewResolver(gamedata.MustLoadCatalog(), combat.WithLogger(quietLogger))
	manager := evolution.NewManager(resolver, evolution.Config{
		PopulationSize: 6,
		CrossoverRate:  0.7,
		MutationRate:   0.1,
		SimCount:       1,
		MemorySize:     10,
		Workers:        2,
	}, quietLogger)
	return NewArena(resolver, manager, store, cfg, quietLogger)
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
	}{
		{OutcomeDraw, "draw"},
		{OutcomeVictory, "victory"},
		{OutcomeDefeat, "defeat"},
		{Outcome(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.outcome.String()
		if got != tt.expected {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.expected)
		}
	}
}

func TestOutcomeFor(t *testing.T) {
	hero := "hero"
	if got := OutcomeFor(&combat.Result{Winner: &hero}, "hero"); got != OutcomeVictory {
		t.Errorf("OutcomeFor(hero wins) = %v, want victory", got)
	}
	villain := "villain"
	if got := OutcomeFor(&combat.Result{Winner: &villain}, "hero"); got != OutcomeDefeat {
		t.Errorf("OutcomeFor(villain wins) = %v, want defeat", got)
	}
	if got := OutcomeFor(&combat.Result{}, "hero"); got != OutcomeDraw {
		t.Errorf("OutcomeFor(no winner) = %v, want draw", got)
	}
}

func TestStartChallenge(t *testing.T) {
	store := newMemStore()
	arena := newTestArena(store, Config{Seed: 7})
	player := testPlayer()

	ch, err := arena.StartChallenge(context.Background(), player)
	require.NoError(t, err)
	assert.NotEmpty(t, ch.ID)
	assert.Equal(t, 1, ch.Round)
	assert.Equal(t, player.ID, ch.PlayerID)
	assert.NotEmpty(t, ch.OpponentName)
	assert.Equal(t, player.TotalPoints(), ch.Opponent.Attributes.Total())
	assert.Empty(t, ch.Memory)

	opp := ch.OpponentCharacter()
	assert.Equal(t, ch.ID+"-r1", opp.ID)
	require.NoError(t, opp.Validate(gamedata.MustLoadCatalog()))

	stored, err := arena.Challenge(context.Background(), ch.ID)
	require.NoError(t, err)
	assert.Equal(t, ch.Opponent.Rotation, stored.Opponent.Rotation)
}

func TestStartChallengeRejectsInvalidPlayer(t *testing.T) {
	arena := newTestArena(newMemStore(), Config{Seed: 7})
	player := testPlayer()
	player.Rotation = []string{"does_not_exist"}

	_, err := arena.StartChallenge(context.Background(), player)
	assert.ErrorIs(t, err, gamedata.ErrUnknownAbility)
}

func TestPlayRoundsAdvanceChallenge(t *testing.T) {
	store := newMemStore()
	arena := newTestArena(store, Config{Seed: 11})
	player := testPlayer()
	ctx := context.Background()

	ch, err := arena.StartChallenge(ctx, player)
	require.NoError(t, err)

	const rounds = 4
	for i := 1; i <= rounds; i++ {
		before := ch.OpponentCharacter().ID
		res, err := arena.PlayRound(ctx, ch.ID, player)
		require.NoError(t, err)

		ch = res.Challenge
		assert.Equal(t, i+1, ch.Round)
		assert.Equal(t, i, ch.Wins+ch.Losses+ch.Draws)
		assert.Equal(t, min(ch.Losses, 10), len(ch.Memory), "memory holds the opponents that won")
		assert.Equal(t, player.TotalPoints(), ch.Opponent.Attributes.Total())
		assert.NotEqual(t, before, ch.OpponentCharacter().ID)

		require.Len(t, ch.History, i)
		last := ch.History[i-1]
		assert.Equal(t, i, last.Round)
		assert.Equal(t, res.Battle.ID, last.BattleID)
		assert.Equal(t, res.Outcome.String(), last.Outcome)
		assert.Equal(t, OutcomeFor(res.Battle, player.ID), res.Outcome)
	}
}

func TestPlayRoundHistoryLimit(t *testing.T) {
	arena := newTestArena(newMemStore(), Config{Seed: 3, HistoryLimit: 2})
	player := testPlayer()
	ctx := context.Background()

	ch, err := arena.StartChallenge(ctx, player)
	require.NoError(t, err)
	for range 3 {
		res, err := arena.PlayRound(ctx, ch.ID, player)
		require.NoError(t, err)
		ch = res.Challenge
	}
	require.Len(t, ch.History, 2)
	assert.Equal(t, 2, ch.History[0].Round)
	assert.Equal(t, 3, ch.History[1].Round)
}

func TestPlayRoundWrongPlayer(t *testing.T) {
	arena := newTestArena(newMemStore(), Config{Seed: 5})
	ctx := context.Background()

	ch, err := arena.StartChallenge(ctx, testPlayer())
	require.NoError(t, err)

	other := testPlayer()
	other.ID = "intruder"
	_, err = arena.PlayRound(ctx, ch.ID, other)
	assert.ErrorIs(t, err, ErrWrongPlayer)
}

func TestPlayRoundDetectsConcurrentAdvance(t *testing.T) {
	store := racingStore{newMemStore()}
	arena := newTestArena(store, Config{Seed: 5})
	ctx := context.Background()

	ch, err := arena.StartChallenge(ctx, testPlayer())
	require.NoError(t, err)

	_, err = arena.PlayRound(ctx, ch.ID, testPlayer())
	require.ErrorIs(t, err, ErrRoundConflict)

	stored, err := store.Get(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Round, "only the concurrent writer advanced the round")
	assert.Empty(t, stored.History)
}

func TestPlayRoundUnknownChallenge(t *testing.T) {
	arena := newTestArena(newMemStore(), Config{Seed: 5})
	_, err := arena.PlayRound(context.Background(), "nope", testPlayer())
	assert.ErrorIs(t, err, errMissing)
}

func TestArenaDuel(t *testing.T) {
	arena := newTestArena(newMemStore(), Config{Seed: 5})
	opponent := testPlayer()
	opponent.ID = "rival"

	res, err := arena.Duel(context.Background(), testPlayer(), opponent)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Log)
	assert.Equal(t, "hero", res.Character.ID)
	assert.Equal(t, "rival", res.Opponent.ID)
}
