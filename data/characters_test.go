package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

func TestLoadCharacters(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()
	chars, err := LoadCharacters(catalog)
	require.NoError(t, err)
	require.NotEmpty(t, chars)

	seen := map[string]bool{}
	for _, c := range chars {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.Equal(t, stats.PointsForLevel(c.Level), c.TotalPoints(), c.ID)
		assert.NotEmpty(t, c.Rotation, c.ID)
	}
}

func TestCharacterLookup(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()

	c, err := Character(catalog, "mage")
	require.NoError(t, err)
	assert.Equal(t, gamedata.Magic, c.AttackType)

	_, err = Character(catalog, "bard")
	assert.Error(t, err)
}
