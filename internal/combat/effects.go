package combat

import (
	"fmt"
	"time"

	"github.com/samdwyer/duelsim/internal/gamedata"
)

// Ready reports whether the ability is off cooldown at time t.
func (c *Combatant) Ready(abilityID string, t time.Duration) bool {
	readyAt, ok := c.Cooldowns[abilityID]
	return !ok || t >= readyAt
}

// SetCooldown marks the ability unusable until t + cooldown.
func (c *Combatant) SetCooldown(ability *gamedata.AbilityDef, t time.Duration) {
	c.Cooldowns[ability.ID] = t + ability.CooldownDuration()
}

// AddBuff adds b, or refreshes the end time of an existing buff of the same
// type. Magnitudes never stack. Reports whether it was a refresh.
func (c *Combatant) AddBuff(b Buff) bool {
	if existing := c.Buff(b.Type); existing != nil {
		existing.EndTime = b.EndTime
		return true
	}
	c.Buffs = append(c.Buffs, b)
	return false
}

// AddPeriodic adds p, or refreshes the end time of an existing effect of the
// same type. Reports whether it was a refresh.
func (c *Combatant) AddPeriodic(p PeriodicEffect) bool {
	for i := range c.Periodic {
		if c.Periodic[i].Type == p.Type {
			c.Periodic[i].EndTime = p.EndTime
			return true
		}
	}
	c.Periodic = append(c.Periodic, p)
	return false
}

// consumeStun removes an active stun and reports whether there was one.
func (c *Combatant) consumeStun() bool {
	for i := range c.Buffs {
		if c.Buffs[i].Type == gamedata.BuffStun {
			c.Buffs = append(c.Buffs[:i], c.Buffs[i+1:]...)
			return true
		}
	}
	return false
}

// applyBuff attaches a buff to target and logs the application or refresh.
func (bt *battle) applyBuff(source, target *Combatant, b Buff) {
	action := ActionBuffApplied
	verb := "is affected by"
	if target.AddBuff(b) {
		action = ActionBuffRefreshed
		verb = "has refreshed"
	}
	bt.log(LogEntry{
		Message:    fmt.Sprintf("%s %s %s", target.Name, verb, b.Name),
		SourceID:   source.ID,
		TargetID:   target.ID,
		ActionType: action,
		EffectType: b.Type,
	})
}

// applyPeriodic attaches a periodic effect to target and logs it.
func (bt *battle) applyPeriodic(source, target *Combatant, p PeriodicEffect) {
	action := ActionEffectApplied
	verb := "is afflicted by"
	if target.AddPeriodic(p) {
		action = ActionEffectRefreshed
		verb = "has refreshed"
	}
	bt.log(LogEntry{
		Message:    fmt.Sprintf("%s %s %s", target.Name, verb, p.Name),
		SourceID:   source.ID,
		TargetID:   target.ID,
		ActionType: action,
		EffectType: p.Type,
	})
}

// tick processes periodic effects and buff expiry on c at the current time.
func (bt *battle) tick(c *Combatant) {
	t := bt.now

	kept := c.Periodic[:0]
	for _, p := range c.Periodic {
		if t >= p.EndTime {
			bt.log(LogEntry{
				Message:    fmt.Sprintf("%s on %s wears off", p.Name, c.Name),
				SourceID:   p.SourceID,
				TargetID:   c.ID,
				ActionType: ActionEffectExpired,
				EffectType: p.Type,
			})
			continue
		}
		if t >= p.LastProc+p.Interval {
			bt.proc(c, p)
			p.LastProc = t
		}
		kept = append(kept, p)
	}
	c.Periodic = kept

	buffs := c.Buffs[:0]
	for _, b := range c.Buffs {
		if t >= b.EndTime {
			bt.log(LogEntry{
				Message:    fmt.Sprintf("%s fades from %s", b.Name, c.Name),
				SourceID:   b.SourceID,
				TargetID:   c.ID,
				ActionType: ActionBuffExpired,
				EffectType: b.Type,
			})
			continue
		}
		buffs = append(buffs, b)
	}
	c.Buffs = buffs
}

// proc applies one interval of a periodic effect to its bearer.
func (bt *battle) proc(c *Combatant, p PeriodicEffect) {
	entry := LogEntry{
		SourceID:   p.SourceID,
		TargetID:   c.ID,
		ActionType: ActionEffectTick,
		EffectType: p.Type,
	}

	switch p.Type {
	case gamedata.EffectPoison, gamedata.EffectBurning, gamedata.EffectBleed:
		entry.Damage = c.TakeDamage(p.Amount)
		entry.Message = fmt.Sprintf("%s takes %d %s damage", c.Name, entry.Damage, p.Type)
	case gamedata.EffectManaDrain:
		source := bt.byID(p.SourceID)
		drained := bt.drainMana(source, c, p.Amount)
		entry.ManaChange = drained
		entry.Message = fmt.Sprintf("%s loses %d mana to %s", c.Name, drained, p.Name)
	case gamedata.EffectRegen:
		entry.HealAmount = c.Heal(p.Amount)
		entry.Message = fmt.Sprintf("%s regenerates %d health", c.Name, entry.HealAmount)
	case gamedata.EffectManaRegen:
		entry.ManaChange = c.RestoreMana(p.Amount)
		entry.Message = fmt.Sprintf("%s regenerates %d mana", c.Name, entry.ManaChange)
	default:
		bt.logger.Warn("unknown periodic effect type", "type", p.Type, "effect", p.Name)
		return
	}
	bt.log(entry)
}

// drainMana moves up to amount mana from target to source. A nil source
// (e.g. an effect whose caster is unknown) only drains.
func (bt *battle) drainMana(source, target *Combatant, amount int) int {
	drained := target.DrainMana(amount)
	if source != nil && source != target {
		source.RestoreMana(drained)
	}
	return drained
}
