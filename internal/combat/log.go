package combat

import (
	"math"
	"time"
)

// ActionType tags a log entry for renderers and fitness evaluation.
type ActionType string

const (
	ActionBattleStart     ActionType = "battle-start"
	ActionBattleEnd       ActionType = "battle-end"
	ActionFinalState      ActionType = "final-state"
	ActionAttack          ActionType = "attack"
	ActionAbility         ActionType = "ability"
	ActionHeal            ActionType = "heal"
	ActionSelfDamage      ActionType = "self-damage"
	ActionStunSkip        ActionType = "stun-skip"
	ActionWeaponProc      ActionType = "weapon-proc"
	ActionManaDrain       ActionType = "mana-drain"
	ActionBuffApplied     ActionType = "buff-applied"
	ActionBuffRefreshed   ActionType = "buff-refreshed"
	ActionBuffExpired     ActionType = "buff-expired"
	ActionEffectApplied   ActionType = "effect-applied"
	ActionEffectRefreshed ActionType = "effect-refreshed"
	ActionEffectTick      ActionType = "effect-tick"
	ActionEffectExpired   ActionType = "effect-expired"
)

// Attack outcomes.
const (
	ResultHit     = "hit"
	ResultDodge   = "dodge"
	ResultBlocked = "blocked"
)

// LogEntry is one line of the battle log. Time is in seconds, rounded to a
// tenth. CurrentHealth and CurrentMana are only set on final-state entries.
type LogEntry struct {
	Time          float64    `json:"time"`
	Message       string     `json:"message"`
	SourceID      string     `json:"sourceId,omitempty"`
	TargetID      string     `json:"targetId,omitempty"`
	ActionType    ActionType `json:"actionType"`
	AbilityID     string     `json:"abilityId,omitempty"`
	EffectType    string     `json:"effectType,omitempty"`
	Result        string     `json:"result,omitempty"`
	Damage        int        `json:"damage,omitempty"`
	HealAmount    int        `json:"healAmount,omitempty"`
	ManaChange    int        `json:"manaChange,omitempty"`
	IsCritical    bool       `json:"isCritical,omitempty"`
	IsSystem      bool       `json:"isSystem,omitempty"`
	CurrentHealth *int       `json:"currentHealth,omitempty"`
	CurrentMana   *int       `json:"currentMana,omitempty"`
	MaxHealth     int        `json:"maxHealth,omitempty"`
	MaxMana       int        `json:"maxMana,omitempty"`
}

// logSeconds converts sim time to the log's one-decimal seconds.
func logSeconds(t time.Duration) float64 {
	return math.Round(t.Seconds()*10) / 10
}

// ptr returns a pointer to a copy of v.
func ptr(v int) *int { return &v }
