package army

import "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"

// AbilityTarget declares which attacks an ability affects
type AbilityTarget string

const (
	// TargetAttacksMade affects attacks the unit makes
	TargetAttacksMade AbilityTarget = "attacksMade"
	// TargetAttacksReceived affects attacks made against the unit
	TargetAttacksReceived AbilityTarget = "attacksReceived"
	// TargetBoth affects both directions
	TargetBoth AbilityTarget = "both"
)

// OrDefault substitutes def when no target was declared
func (t AbilityTarget) OrDefault(def AbilityTarget) AbilityTarget {
	if t == "" {
		return def
	}
	return t
}

// AffectsAttacksMade reports whether the ability applies when its owner attacks
func (t AbilityTarget) AffectsAttacksMade() bool {
	return t == TargetAttacksMade || t == TargetBoth
}

// AffectsAttacksReceived reports whether the ability applies when its owner is attacked
func (t AbilityTarget) AffectsAttacksReceived() bool {
	return t == TargetAttacksReceived || t == TargetBoth
}

// Ability is a named rule on a unit, army, or piece of wargear.
// An ability with no embedded mechanics is a core ability resolved through the
// core-ability registry, with Parameter substituted into the registry template.
type Ability struct {
	Name      string               `json:"name" yaml:"name"`
	Parameter string               `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Target    AbilityTarget        `json:"target,omitempty" yaml:"target,omitempty"`
	Mechanics []mechanics.Mechanic `json:"mechanics,omitempty" yaml:"mechanics,omitempty"`
	// GrantedBy names the attached leader that confers this ability
	GrantedBy string `json:"grantedBy,omitempty" yaml:"grantedBy,omitempty"`
}

// IsCore reports whether the ability must be expanded from the core-ability registry
func (a Ability) IsCore() bool {
	return len(a.Mechanics) == 0
}

// Army holds the army-wide rules of one side
type Army struct {
	Faction          string    `json:"faction" yaml:"faction"`
	FactionAbilities []Ability `json:"factionAbilities,omitempty" yaml:"factionAbilities,omitempty"`
	Detachment       string    `json:"detachment,omitempty" yaml:"detachment,omitempty"`
	DetachmentRules  []Ability `json:"detachmentRules,omitempty" yaml:"detachmentRules,omitempty"`
}

// Stratagem is an active stratagem whose mechanics apply to this resolution
type Stratagem struct {
	Name      string               `json:"name" yaml:"name"`
	Mechanics []mechanics.Mechanic `json:"mechanics,omitempty" yaml:"mechanics,omitempty"`
}
