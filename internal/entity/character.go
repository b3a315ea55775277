// Package entity provides the persisted character records the simulator
// consumes: attributes, equipment and ability rotation.
package entity

import (
	"errors"
	"fmt"

	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

// ErrInvalidCharacter is returned when a character record cannot be simulated.
var ErrInvalidCharacter = errors.New("invalid character")

// Equipment maps a slot to an item ID. A missing or empty entry is an empty slot.
type Equipment map[gamedata.Slot]string

// Count returns the number of non-empty slots.
func (e Equipment) Count() int {
	n := 0
	for _, id := range e {
		if id != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (e Equipment) Clone() Equipment {
	out := make(Equipment, len(e))
	for slot, id := range e {
		if id != "" {
			out[slot] = id
		}
	}
	return out
}

// Items resolves every equipped item against the catalog.
func (e Equipment) Items(items *gamedata.ItemRegistry) ([]*gamedata.ItemDef, error) {
	out := make([]*gamedata.ItemDef, 0, len(e))
	for _, slot := range gamedata.Slots {
		id := e[slot]
		if id == "" {
			continue
		}
		item := items.GetByID(id)
		if item == nil {
			return nil, fmt.Errorf("%w: %q in slot %s", gamedata.ErrUnknownItem, id, slot)
		}
		if item.Slot != slot {
			return nil, fmt.Errorf("%w: %q does not fit slot %s", ErrInvalidCharacter, id, slot)
		}
		out = append(out, item)
	}
	return out, nil
}

// Character is a persisted player character or generated opponent.
type Character struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Level      int                 `json:"level"`
	Attributes stats.Attributes    `json:"attributes"`
	Equipment  Equipment           `json:"equipment"`
	Rotation   []string            `json:"rotation"`
	AttackType gamedata.DamageKind `json:"attackType"`
}

// Validate checks everything the combat resolver relies on, failing fast on
// records that would otherwise need defaults substituted mid-battle.
func (c *Character) Validate(catalog *gamedata.Catalog) error {
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("%w: missing id or name", ErrInvalidCharacter)
	}
	if err := c.Attributes.Validate(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidCharacter, c.ID, err)
	}
	if !c.AttackType.Valid() {
		return fmt.Errorf("%w %q: unknown attack type %q", ErrInvalidCharacter, c.ID, c.AttackType)
	}
	for _, id := range c.Rotation {
		if _, err := catalog.Ability(id); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidCharacter, c.ID, err)
		}
	}
	if _, err := c.Equipment.Items(catalog.Items); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidCharacter, c.ID, err)
	}
	return nil
}

// Stats derives the character's stats and folds in equipment bonuses.
func (c *Character) Stats(catalog *gamedata.Catalog) (stats.Stats, error) {
	items, err := c.Equipment.Items(catalog.Items)
	if err != nil {
		return stats.Stats{}, err
	}
	bonuses := make([]stats.Bonuses, 0, len(items))
	for _, item := range items {
		bonuses = append(bonuses, item.Stats)
	}
	return stats.Apply(stats.Derive(c.Attributes), bonuses...), nil
}

// TotalPoints returns the character's attribute total.
func (c Character) TotalPoints() int {
	return c.Attributes.Total()
}

// Clone returns a deep copy so callers can hand records to the simulator
// without sharing slices or maps.
func (c Character) Clone() Character {
	out := c
	out.Equipment = c.Equipment.Clone()
	out.Rotation = append([]string(nil), c.Rotation...)
	return out
}
