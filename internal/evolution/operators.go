package evolution

import (
	"math"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/stats"
)

// Genetic operator tuning.
const (
	MinRotation = 3
	MaxRotation = 6

	equipmentFillChance     = 0.5
	equipmentMutationChance = 0.3
	attackTypeFlipChance    = 0.2
	minInheritChance        = 0.2
	maxInheritChance        = 0.9
)

// Operators implements genome generation, crossover and mutation over a
// catalog. All operators preserve the requested attribute total.
type Operators struct {
	catalog *gamedata.Catalog
}

// NewOperators creates operators drawing abilities and items from catalog.
func NewOperators(catalog *gamedata.Catalog) *Operators {
	return &Operators{catalog: catalog}
}

// Random generates a uniformly random genome with the given attribute total.
func (o *Operators) Random(rng Rand, totalPoints int) Genome {
	var values [stats.AttributeCount]int
	for i := range values {
		values[i] = 1
	}
	for spent := stats.AttributeCount; spent < totalPoints; spent++ {
		values[rng.IntN(stats.AttributeCount)]++
	}

	attackType := gamedata.Physical
	if rng.IntN(2) == 1 {
		attackType = gamedata.Magic
	}

	equipment := make(entity.Equipment)
	for _, slot := range gamedata.Slots {
		if rng.Float64() >= equipmentFillChance {
			continue
		}
		if item := o.catalog.Items.RandomForSlot(rng, slot); item != nil {
			equipment[slot] = item.ID
		}
	}
	o.fixHands(equipment)

	ids := o.catalog.Abilities.IDs()
	size := MinRotation + rng.IntN(MaxRotation-MinRotation+1)
	rotation := make([]string, 0, size)
	for _, i := range rng.Perm(len(ids)) {
		if len(rotation) == size {
			break
		}
		rotation = append(rotation, ids[i])
	}

	return Genome{
		Attributes: stats.FromValues(values),
		Equipment:  equipment,
		Rotation:   rotation,
		AttackType: attackType,
	}
}

// Renormalize returns attrs adjusted by random single-point increments or
// decrements until the total equals totalPoints. No attribute drops below 1.
func Renormalize(rng Rand, attrs stats.Attributes, totalPoints int) stats.Attributes {
	values := attrs.Values()
	sum := 0
	for i := range values {
		values[i] = max(1, values[i])
		sum += values[i]
	}
	totalPoints = max(totalPoints, stats.AttributeCount)

	for sum < totalPoints {
		values[rng.IntN(stats.AttributeCount)]++
		sum++
	}
	for sum > totalPoints {
		i := rng.IntN(stats.AttributeCount)
		if values[i] > 1 {
			values[i]--
			sum--
		}
	}
	return stats.FromValues(values)
}

// Crossover combines two parents into a child with the given attribute total.
func (o *Operators) Crossover(rng Rand, p1, p2 Genome, totalPoints int) Genome {
	v1, v2 := p1.Attributes.Values(), p2.Attributes.Values()
	var avg [stats.AttributeCount]int
	for i := range avg {
		avg[i] = int(math.Round(float64(v1[i]+v2[i]) / 2))
	}
	attrs := Renormalize(rng, stats.FromValues(avg), totalPoints)

	// Fitter parents pass their gear on more often.
	inherit := math.Max(minInheritChance, math.Min(maxInheritChance, (p1.Fitness+p2.Fitness)/2/1000))
	equipment := make(entity.Equipment)
	for _, slot := range gamedata.Slots {
		if rng.Float64() >= inherit {
			continue
		}
		parent := p1
		if rng.IntN(2) == 1 {
			parent = p2
		}
		if id := parent.Equipment[slot]; id != "" {
			equipment[slot] = id
		}
	}
	o.fixHands(equipment)

	rotation := make([]string, 0, MaxRotation)
	rotation = append(rotation, p1.Rotation[:len(p1.Rotation)/2]...)
	rotation = append(rotation, p2.Rotation[len(p2.Rotation)/2:]...)
	rotation = dedupe(rotation)
	if len(rotation) > MaxRotation {
		rotation = rotation[:MaxRotation]
	}
	pool := dedupe(append(append([]string(nil), p1.Rotation...), p2.Rotation...))
	rotation = o.padRotation(rng, rotation, pool)

	attackType := p1.AttackType
	if rng.IntN(2) == 1 {
		attackType = p2.AttackType
	}

	return Genome{
		Attributes: attrs,
		Equipment:  equipment,
		Rotation:   rotation,
		AttackType: attackType,
	}
}

// Mutate applies one round of mutation to g in place.
func (o *Operators) Mutate(rng Rand, g *Genome) {
	// Move one point between two attributes.
	values := g.Attributes.Values()
	from := rng.IntN(stats.AttributeCount)
	to := (from + 1 + rng.IntN(stats.AttributeCount-1)) % stats.AttributeCount
	if values[from] > 1 {
		values[from]--
		values[to]++
		g.Attributes = stats.FromValues(values)
	}

	if rng.Float64() < equipmentMutationChance {
		if g.Equipment == nil {
			g.Equipment = make(entity.Equipment)
		}
		slot := gamedata.Slots[rng.IntN(len(gamedata.Slots))]
		switch {
		case g.Equipment[slot] == "":
			if item := o.catalog.Items.RandomForSlot(rng, slot); item != nil {
				g.Equipment[slot] = item.ID
			}
		case rng.IntN(2) == 0:
			delete(g.Equipment, slot)
		default:
			if item := o.catalog.Items.RandomForSlot(rng, slot); item != nil {
				g.Equipment[slot] = item.ID
			}
		}
		o.fixHands(g.Equipment)
	}

	if len(g.Rotation) >= 2 && rng.IntN(2) == 0 {
		i, j := rng.IntN(len(g.Rotation)), rng.IntN(len(g.Rotation))
		g.Rotation[i], g.Rotation[j] = g.Rotation[j], g.Rotation[i]
	} else if len(g.Rotation) > 0 {
		if id, ok := o.unusedAbility(rng, g.Rotation); ok {
			g.Rotation[rng.IntN(len(g.Rotation))] = id
		}
	}

	if rng.Float64() < attackTypeFlipChance {
		if g.AttackType == gamedata.Magic {
			g.AttackType = gamedata.Physical
		} else {
			g.AttackType = gamedata.Magic
		}
	}
}

// padRotation fills rotation up to MinRotation, first from pool then from
// the whole catalog.
func (o *Operators) padRotation(rng Rand, rotation, pool []string) []string {
	for _, candidates := range [][]string{pool, o.catalog.Abilities.IDs()} {
		for _, i := range rng.Perm(len(candidates)) {
			if len(rotation) >= MinRotation {
				return rotation
			}
			if !contains(rotation, candidates[i]) {
				rotation = append(rotation, candidates[i])
			}
		}
	}
	return rotation
}

// unusedAbility picks a random catalog ability not already in rotation.
func (o *Operators) unusedAbility(rng Rand, rotation []string) (string, bool) {
	var free []string
	for _, id := range o.catalog.Abilities.IDs() {
		if !contains(rotation, id) {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return "", false
	}
	return free[rng.IntN(len(free))], true
}

// fixHands empties the off hand behind a two-handed main hand.
func (o *Operators) fixHands(e entity.Equipment) {
	main := o.catalog.Items.GetByID(e[gamedata.SlotMainHand])
	if main != nil && main.TwoHanded {
		delete(e, gamedata.SlotOffHand)
	}
}

func dedupe(ids []string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
