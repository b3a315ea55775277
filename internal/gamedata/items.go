package gamedata

import (
	"errors"
	"fmt"

	"github.com/samdwyer/duelsim/internal/stats"
)

// ErrInvalidItem is returned when an item entry is malformed.
var ErrInvalidItem = errors.New("invalid item")

// Slot is an equipment slot.
type Slot string

const (
	SlotHead     Slot = "head"
	SlotChest    Slot = "chest"
	SlotLegs     Slot = "legs"
	SlotFeet     Slot = "feet"
	SlotHands    Slot = "hands"
	SlotMainHand Slot = "mainHand"
	SlotOffHand  Slot = "offHand"
	SlotTrinket  Slot = "trinket"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotHead, SlotChest, SlotLegs, SlotFeet, SlotHands, SlotMainHand, SlotOffHand, SlotTrinket}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// Weapon proc types.
const (
	WeaponStun      = "stun"
	WeaponPoison    = "poison"
	WeaponBurning   = "burning"
	WeaponManaDrain = "manaDrain"
)

// WeaponEffectDef is a chance-based proc on a landed basic attack.
type WeaponEffectDef struct {
	Type     string  `json:"type"`
	Chance   float64 `json:"chance"` // Percent, 0-100
	Damage   int     `json:"damage,omitempty"`
	Amount   int     `json:"amount,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Interval float64 `json:"interval,omitempty"`
}

func (e *WeaponEffectDef) validate() error {
	if e.Chance < 0 || e.Chance > 100 {
		return errors.New("proc chance out of range")
	}
	switch e.Type {
	case WeaponStun:
		if e.Duration <= 0 {
			return errors.New("stun proc needs a positive duration")
		}
	case WeaponPoison, WeaponBurning:
		if e.Damage <= 0 || e.Duration <= 0 || e.Interval <= 0 {
			return fmt.Errorf("%s proc needs damage, duration and interval", e.Type)
		}
	case WeaponManaDrain:
		if e.Amount <= 0 {
			return errors.New("mana drain proc needs a positive amount")
		}
	default:
		return fmt.Errorf("unknown proc type %q", e.Type)
	}
	return nil
}

// ItemDef defines a piece of equipment loaded from JSON.
type ItemDef struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Slot      Slot             `json:"slot"`
	TwoHanded bool             `json:"twoHanded,omitempty"`
	Stats     stats.Bonuses    `json:"stats"`
	Effect    *WeaponEffectDef `json:"effect,omitempty"`
	Color     string           `json:"color,omitempty"`
	Weight    int              `json:"weight"` // Relative frequency for random rolls
}

// Validate checks slot, stat names and proc parameters.
func (i *ItemDef) Validate() error {
	if i.ID == "" || i.Name == "" {
		return fmt.Errorf("%w: missing id or name", ErrInvalidItem)
	}
	if !i.Slot.Valid() {
		return fmt.Errorf("%w %q: unknown slot %q", ErrInvalidItem, i.ID, i.Slot)
	}
	if i.TwoHanded && i.Slot != SlotMainHand {
		return fmt.Errorf("%w %q: only main hand items can be two-handed", ErrInvalidItem, i.ID)
	}
	for name := range i.Stats {
		if !stats.KnownStat(name) {
			return fmt.Errorf("%w %q: unknown stat %q", ErrInvalidItem, i.ID, name)
		}
	}
	if i.Effect != nil {
		if err := i.Effect.validate(); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidItem, i.ID, err)
		}
	}
	if i.Weight < 0 {
		return fmt.Errorf("%w %q: negative weight", ErrInvalidItem, i.ID)
	}
	return nil
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}
