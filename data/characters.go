package data

import (
	"fmt"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// CharactersFile represents the structure of characters.json.
type CharactersFile struct {
	Characters []entity.Character `json:"characters"`
}

// LoadCharacters loads the sample characters and validates them against the
// catalog.
func LoadCharacters(catalog *gamedata.Catalog) ([]entity.Character, error) {
	file, err := gamedata.LoadFS[CharactersFile](dataFS, "characters.json")
	if err != nil {
		return nil, err
	}
	for i := range file.Characters {
		if err := file.Characters[i].Validate(catalog); err != nil {
			return nil, err
		}
	}
	return file.Characters, nil
}

// Character returns the sample character with the given ID.
func Character(catalog *gamedata.Catalog, id string) (entity.Character, error) {
	chars, err := LoadCharacters(catalog)
	if err != nil {
		return entity.Character{}, err
	}
	for _, c := range chars {
		if c.ID == id {
			return c, nil
		}
	}
	return entity.Character{}, fmt.Errorf("unknown sample character %q", id)
}
