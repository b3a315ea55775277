package combat

import (
	"fmt"
	"math"
	"time"

	"github.com/samdwyer/duelsim/internal/gamedata"
)

// act runs one turn for actor: stun skip, the next rotation ability if it is
// ready and affordable, otherwise a basic attack.
func (bt *battle) act(actor, target *Combatant) {
	bt.actions++

	if actor.consumeStun() {
		bt.log(LogEntry{
			Message:    fmt.Sprintf("%s is stunned and loses a turn", actor.Name),
			SourceID:   actor.ID,
			TargetID:   actor.ID,
			ActionType: ActionStunSkip,
			EffectType: gamedata.BuffStun,
		})
		if len(actor.Rotation) > 0 {
			actor.NextAbilityIndex = (actor.NextAbilityIndex + 1) % len(actor.Rotation)
		}
		return
	}

	if len(actor.Rotation) > 0 {
		ability := bt.abilities.GetByID(actor.Rotation[actor.NextAbilityIndex])
		if ability != nil && actor.Ready(ability.ID, bt.now) && actor.Mana >= ability.ManaCost {
			actor.Mana -= ability.ManaCost
			actor.SetCooldown(ability, bt.now)
			bt.execute(ability, actor, target)
			actor.NextAbilityIndex = (actor.NextAbilityIndex + 1) % len(actor.Rotation)
			return
		}
	}

	bt.basicAttack(actor, target)
}

func (bt *battle) basicAttack(actor, target *Combatant) {
	name := BasicAttack
	if actor.AttackType == gamedata.Magic {
		name = BasicMagicAttack
	}
	bt.strike(actor, target, Attack{Name: name, Kind: actor.AttackType, Multiplier: 1}, "", 0)
}

// execute dispatches an ability to its effect branch.
func (bt *battle) execute(ability *gamedata.AbilityDef, actor, target *Combatant) {
	switch ability.Kind() {
	case gamedata.KindBuff:
		bt.executeBuff(ability, actor, target)
	case gamedata.KindHeal:
		healed := actor.Heal(ResolveHeal(actor, ability.HealEffect.Multiplier))
		bt.log(LogEntry{
			Message:    fmt.Sprintf("%s casts %s and heals for %d", actor.Name, ability.Name, healed),
			SourceID:   actor.ID,
			TargetID:   actor.ID,
			ActionType: ActionHeal,
			AbilityID:  ability.ID,
			HealAmount: healed,
			ManaChange: -ability.ManaCost,
		})
	case gamedata.KindDot:
		bt.strike(actor, target, abilityAttack(ability, false), ability.ID, ability.ManaCost)
		if !target.Alive() {
			return
		}
		dot := ability.DotEffect
		bt.applyPeriodic(actor, target, PeriodicEffect{
			Name:     ability.Name,
			Type:     dot.Type,
			Amount:   dot.Damage,
			Interval: gamedata.Seconds(dot.Interval),
			LastProc: bt.now,
			EndTime:  bt.now + gamedata.Seconds(dot.Duration),
			SourceID: actor.ID,
		})
	case gamedata.KindPeriodic:
		bt.executePeriodic(ability, actor, target)
	case gamedata.KindGuaranteedCrit:
		mult := ability.GuaranteedCrit.Multiplier
		if mult == 0 {
			mult = gamedata.DefaultGuaranteedCritMultiplier
		}
		bt.strike(actor, target, Attack{Name: ability.Name, Kind: gamedata.Physical, Multiplier: mult, GuaranteedCrit: true}, ability.ID, ability.ManaCost)
	case gamedata.KindMultiAttack:
		bt.executeMultiAttack(ability, actor, target)
	case gamedata.KindStun:
		se := ability.StunEffect
		atk := abilityAttack(ability, false)
		atk.Multiplier = se.Multiplier
		if atk.Multiplier == 0 {
			atk.Multiplier = gamedata.DefaultStunMultiplier
		}
		res := bt.strike(actor, target, atk, ability.ID, ability.ManaCost)
		if res.Result == ResultDodge || res.Damage <= 0 || !target.Alive() {
			return
		}
		bt.applyBuff(actor, target, Buff{
			Name:     ability.Name,
			Type:     gamedata.BuffStun,
			EndTime:  bt.now + gamedata.Seconds(se.Duration),
			SourceID: actor.ID,
		})
	default:
		bt.executeDamage(ability, actor, target)
	}
}

func abilityAttack(ability *gamedata.AbilityDef, crit bool) Attack {
	return Attack{Name: ability.Name, Kind: ability.Type, Multiplier: ability.DamageMultiplier, GuaranteedCrit: crit}
}

func (bt *battle) executeBuff(ability *gamedata.AbilityDef, actor, target *Combatant) {
	be := ability.BuffEffect
	amount := be.Amount
	if sc := be.Scaling; sc != nil {
		amount = clampFloat(math.Round(actor.Stats.AverageMagicDamage()*sc.Multiplier), sc.Min, sc.Max)
	}
	recipient := target
	if be.TargetsSelf {
		recipient = actor
	}

	var msg string
	switch be.Type {
	case gamedata.BuffDamageIncrease:
		msg = fmt.Sprintf("%s uses %s, increasing damage by %g%%", actor.Name, ability.Name, amount)
	case gamedata.BuffDamageReduction:
		msg = fmt.Sprintf("%s uses %s, reducing damage taken by %g%%", actor.Name, ability.Name, amount)
	case gamedata.BuffAttackSpeedReduction:
		msg = fmt.Sprintf("%s uses %s, slowing %s's attacks by %g%%", actor.Name, ability.Name, recipient.Name, amount)
	case gamedata.BuffStun:
		msg = fmt.Sprintf("%s uses %s, stunning %s", actor.Name, ability.Name, recipient.Name)
	default:
		bt.logger.Warn("unknown buff type", "type", be.Type, "ability", ability.ID)
		msg = fmt.Sprintf("%s uses %s on %s", actor.Name, ability.Name, recipient.Name)
	}
	bt.log(LogEntry{
		Message:    msg,
		SourceID:   actor.ID,
		TargetID:   recipient.ID,
		ActionType: ActionAbility,
		AbilityID:  ability.ID,
		EffectType: be.Type,
		ManaChange: -ability.ManaCost,
	})
	bt.applyBuff(actor, recipient, Buff{
		Name:     ability.Name,
		Type:     be.Type,
		Amount:   amount,
		EndTime:  bt.now + gamedata.Seconds(be.Duration),
		SourceID: actor.ID,
	})
}

func (bt *battle) executePeriodic(ability *gamedata.AbilityDef, actor, target *Combatant) {
	pe := ability.PeriodicEffect
	recipient := target
	if pe.TargetsSelf {
		recipient = actor
	}
	bt.log(LogEntry{
		Message:    fmt.Sprintf("%s casts %s on %s", actor.Name, ability.Name, recipient.Name),
		SourceID:   actor.ID,
		TargetID:   recipient.ID,
		ActionType: ActionAbility,
		AbilityID:  ability.ID,
		EffectType: pe.Type,
		ManaChange: -ability.ManaCost,
	})
	bt.applyPeriodic(actor, recipient, PeriodicEffect{
		Name:     ability.Name,
		Type:     pe.Type,
		Amount:   pe.Amount,
		Interval: gamedata.Seconds(pe.Interval),
		LastProc: bt.now,
		EndTime:  bt.now + gamedata.Seconds(pe.Duration),
		SourceID: actor.ID,
	})

	if pe.Type == gamedata.EffectManaDrain {
		drained := bt.drainMana(actor, recipient, pe.Amount)
		bt.log(LogEntry{
			Message:    fmt.Sprintf("%s drains %d mana from %s", actor.Name, drained, recipient.Name),
			SourceID:   actor.ID,
			TargetID:   recipient.ID,
			ActionType: ActionManaDrain,
			AbilityID:  ability.ID,
			EffectType: pe.Type,
			ManaChange: drained,
		})
	}
}

func (bt *battle) executeMultiAttack(ability *gamedata.AbilityDef, actor, target *Combatant) {
	ma := ability.MultiAttack
	bt.log(LogEntry{
		Message:    fmt.Sprintf("%s unleashes %s (%d hits)", actor.Name, ability.Name, ma.Count),
		SourceID:   actor.ID,
		TargetID:   target.ID,
		ActionType: ActionAbility,
		AbilityID:  ability.ID,
		ManaChange: -ability.ManaCost,
	})
	delay := gamedata.Seconds(ma.Delay)
	at := bt.now + multiHitLead
	for i := 0; i < ma.Count; i++ {
		bt.schedule(scheduledHit{at: at, attacker: actor, defender: target, ability: ability})
		at += delay
	}
}

// multiHitLead is the gap between using a multi-attack and its first hit.
const multiHitLead = 100 * time.Millisecond

func (bt *battle) executeDamage(ability *gamedata.AbilityDef, actor, target *Combatant) {
	res := bt.strike(actor, target, abilityAttack(ability, false), ability.ID, ability.ManaCost)
	if ability.Type != gamedata.Magic || res.Result == ResultDodge {
		return
	}

	if ability.SelfDamagePercent > 0 {
		self := actor.TakeDamage(int(math.Round(float64(res.Damage) * ability.SelfDamagePercent / 100)))
		bt.log(LogEntry{
			Message:    fmt.Sprintf("%s takes %d backlash damage from %s", actor.Name, self, ability.Name),
			SourceID:   actor.ID,
			TargetID:   actor.ID,
			ActionType: ActionSelfDamage,
			AbilityID:  ability.ID,
			Damage:     self,
		})
	}

	if ce := ability.CriticalEffect; ce != nil && res.IsCritical && target.Alive() {
		tickDamage := max(1, int(math.Round(actor.Stats.AverageMagicDamage()*ce.DamagePercent/100)))
		effectType := ce.Type
		if effectType == "" {
			effectType = gamedata.EffectBurning
		}
		bt.applyPeriodic(actor, target, PeriodicEffect{
			Name:     ability.Name,
			Type:     effectType,
			Amount:   tickDamage,
			Interval: gamedata.Seconds(ce.Interval),
			LastProc: bt.now,
			EndTime:  bt.now + gamedata.Seconds(ce.Duration),
			SourceID: actor.ID,
		})
	}
}

// strike resolves an attack, applies its damage, logs it and applies any
// weapon proc it returned. The returned Damage is the resolved amount before
// it is capped by the target's remaining health; the log carries what was dealt.
func (bt *battle) strike(actor, target *Combatant, atk Attack, abilityID string, manaCost int) AttackResult {
	res := ResolveAttack(bt.rng, actor, target, atk)

	entry := LogEntry{
		SourceID:   actor.ID,
		TargetID:   target.ID,
		ActionType: ActionAttack,
		AbilityID:  abilityID,
		Result:     res.Result,
		IsCritical: res.IsCritical,
	}
	if abilityID != "" {
		entry.ActionType = ActionAbility
		entry.ManaChange = -manaCost
	}

	switch res.Result {
	case ResultDodge:
		entry.Message = fmt.Sprintf("%s dodges %s's %s", target.Name, actor.Name, atk.Name)
	default:
		entry.Damage = target.TakeDamage(res.Damage)
		crit := ""
		if res.IsCritical {
			crit = " critically"
		}
		blocked := ""
		if res.Result == ResultBlocked {
			blocked = " (blocked)"
		}
		entry.Message = fmt.Sprintf("%s's %s%s hits %s for %d%s", actor.Name, atk.Name, crit, target.Name, entry.Damage, blocked)
	}
	bt.log(entry)

	if res.WeaponEffect != nil && target.Alive() {
		bt.applyWeaponEffect(actor, target, res.WeaponEffect)
	}
	return res
}

// applyWeaponEffect turns a weapon proc into a buff, periodic effect or drain.
func (bt *battle) applyWeaponEffect(actor, target *Combatant, we *WeaponEffect) {
	entry := LogEntry{
		SourceID:   actor.ID,
		TargetID:   target.ID,
		ActionType: ActionWeaponProc,
		EffectType: we.Type,
	}

	switch we.Type {
	case gamedata.WeaponStun:
		entry.Message = fmt.Sprintf("%s's %s stuns %s", actor.Name, we.Source, target.Name)
		bt.log(entry)
		bt.applyBuff(actor, target, Buff{
			Name:     we.Source,
			Type:     gamedata.BuffStun,
			EndTime:  bt.now + gamedata.Seconds(we.Duration),
			SourceID: actor.ID,
		})
	case gamedata.WeaponPoison, gamedata.WeaponBurning:
		entry.Message = fmt.Sprintf("%s's %s inflicts %s on %s", actor.Name, we.Source, we.Type, target.Name)
		bt.log(entry)
		bt.applyPeriodic(actor, target, PeriodicEffect{
			Name:     we.Source,
			Type:     we.Type,
			Amount:   we.Damage,
			Interval: gamedata.Seconds(we.Interval),
			LastProc: bt.now,
			EndTime:  bt.now + gamedata.Seconds(we.Duration),
			SourceID: actor.ID,
		})
	case gamedata.WeaponManaDrain:
		entry.ManaChange = bt.drainMana(actor, target, we.Amount)
		entry.Message = fmt.Sprintf("%s's %s drains %d mana from %s", actor.Name, we.Source, entry.ManaChange, target.Name)
		bt.log(entry)
	default:
		bt.logger.Warn("unknown weapon effect type", "type", we.Type, "item", we.Source)
	}
}
