package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samdwyer/duelsim/data"
	"github.com/samdwyer/duelsim/internal/entity"
)

// loadCharacter resolves a sample character ID or a path to a character
// JSON file.
func loadCharacter(ref string) (entity.Character, error) {
	if !strings.HasSuffix(ref, ".json") {
		return data.Character(app.catalog, ref)
	}
	raw, err := os.ReadFile(ref)
	if err != nil {
		return entity.Character{}, fmt.Errorf("reading character %s: %w", ref, err)
	}
	var c entity.Character
	if err := json.Unmarshal(raw, &c); err != nil {
		return entity.Character{}, fmt.Errorf("parsing character %s: %w", ref, err)
	}
	if err := c.Validate(app.catalog); err != nil {
		return entity.Character{}, err
	}
	return c, nil
}

// opponentFor returns opponent with an ID distinct from the player's, so a
// character can duel a copy of itself.
func opponentFor(player, opponent entity.Character) entity.Character {
	if opponent.ID == player.ID {
		opponent = opponent.Clone()
		opponent.ID += "-mirror"
	}
	return opponent
}
