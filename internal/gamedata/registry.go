package gamedata

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrUnknownAbility is returned when a rotation references a missing ability.
var ErrUnknownAbility = errors.New("unknown ability")

// ErrUnknownItem is returned when equipment references a missing item.
var ErrUnknownItem = errors.New("unknown item")

// Rand is the random source registries draw from.
type Rand interface {
	IntN(n int) int
}

// =============================================================================
// ItemRegistry
// =============================================================================

// ItemRegistry holds loaded item definitions and provides lookup and random rolls.
type ItemRegistry struct {
	items  map[string]*ItemDef
	bySlot map[Slot][]*ItemDef
	weight map[Slot]int
	all    []ItemDef
}

// NewItemRegistry creates a registry from loaded item definitions.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	r := &ItemRegistry{
		items:  make(map[string]*ItemDef, len(items)),
		bySlot: make(map[Slot][]*ItemDef),
		weight: make(map[Slot]int),
		all:    items,
	}
	for i := range items {
		item := &items[i]
		r.items[item.ID] = item
		r.bySlot[item.Slot] = append(r.bySlot[item.Slot], item)
		r.weight[item.Slot] += item.Weight
	}
	return r
}

// GetByID returns the item definition with the given ID, or nil if not found.
func (r *ItemRegistry) GetByID(id string) *ItemDef {
	return r.items[id]
}

// ForSlot returns all items that fit the given slot.
func (r *ItemRegistry) ForSlot(slot Slot) []*ItemDef {
	return r.bySlot[slot]
}

// RandomForSlot selects a random item for a slot using weighted probability.
// Items with a higher weight are more likely to be selected. Returns nil when
// the slot has no items.
func (r *ItemRegistry) RandomForSlot(rng Rand, slot Slot) *ItemDef {
	candidates := r.bySlot[slot]
	if len(candidates) == 0 {
		return nil
	}
	total := r.weight[slot]
	if total <= 0 {
		return candidates[rng.IntN(len(candidates))]
	}

	roll := rng.IntN(total)
	cumulative := 0
	for _, item := range candidates {
		cumulative += item.Weight
		if roll < cumulative {
			return item
		}
	}

	// Fallback (shouldn't happen)
	return candidates[0]
}

// All returns all item definitions.
func (r *ItemRegistry) All() []ItemDef {
	return r.all
}

// Count returns the number of items in the registry.
func (r *ItemRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// AbilityRegistry
// =============================================================================

// AbilityRegistry holds loaded ability definitions and provides lookup utilities.
type AbilityRegistry struct {
	abilities map[string]*AbilityDef
	all       []AbilityDef
}

// NewAbilityRegistry creates a registry from loaded ability definitions.
func NewAbilityRegistry(abilities []AbilityDef) *AbilityRegistry {
	registry := &AbilityRegistry{
		abilities: make(map[string]*AbilityDef),
		all:       abilities,
	}
	for i := range abilities {
		registry.abilities[abilities[i].ID] = &abilities[i]
	}
	return registry
}

// GetByID returns the ability definition with the given ID, or nil if not found.
func (r *AbilityRegistry) GetByID(id string) *AbilityDef {
	return r.abilities[id]
}

// GetMultiple returns ability definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *AbilityRegistry) GetMultiple(ids []string) []*AbilityDef {
	result := make([]*AbilityDef, 0, len(ids))
	for _, id := range ids {
		if ability := r.abilities[id]; ability != nil {
			result = append(result, ability)
		}
	}
	return result
}

// IDs returns every ability ID in catalog order.
func (r *AbilityRegistry) IDs() []string {
	ids := make([]string, len(r.all))
	for i := range r.all {
		ids[i] = r.all[i].ID
	}
	return ids
}

// All returns all ability definitions.
func (r *AbilityRegistry) All() []AbilityDef {
	return r.all
}

// Count returns the number of abilities in the registry.
func (r *AbilityRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog bundles the read-only registries the simulator needs.
type Catalog struct {
	Abilities *AbilityRegistry
	Items     *ItemRegistry
}

// NewCatalog builds a catalog from already-loaded definitions, validating each.
func NewCatalog(abilities []AbilityDef, items []ItemDef) (*Catalog, error) {
	for i := range abilities {
		if err := abilities[i].Validate(); err != nil {
			return nil, err
		}
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &Catalog{
		Abilities: NewAbilityRegistry(abilities),
		Items:     NewItemRegistry(items),
	}, nil
}

// LoadCatalog loads both embedded registries.
func LoadCatalog() (*Catalog, error) {
	return LoadCatalogFS(dataFS)
}

// LoadCatalogFS loads abilities.json and items.json from fsys. It lets the
// CLI point at a catalog directory on disk instead of the embedded one.
func LoadCatalogFS(fsys fs.FS) (*Catalog, error) {
	abilities, err := LoadFS[AbilitiesFile](fsys, "abilities.json")
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	if len(abilities.Abilities) == 0 {
		return nil, errors.New("no abilities loaded from abilities.json")
	}
	items, err := LoadFS[ItemsFile](fsys, "items.json")
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	return NewCatalog(abilities.Abilities, items.Items)
}

// MustLoadCatalog loads the catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Ability looks up an ability, returning ErrUnknownAbility when absent.
func (c *Catalog) Ability(id string) (*AbilityDef, error) {
	a := c.Abilities.GetByID(id)
	if a == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, id)
	}
	return a, nil
}

// Item looks up an item, returning ErrUnknownItem when absent.
func (c *Catalog) Item(id string) (*ItemDef, error) {
	i := c.Items.GetByID(id)
	if i == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return i, nil
}
