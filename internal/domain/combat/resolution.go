package combat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// Step is one of the resolvable combat sub-rolls
type Step string

const (
	StepAttacks    Step = "attacks"
	StepHit        Step = "hit"
	StepWound      Step = "wound"
	StepSave       Step = "save"
	StepFeelNoPain Step = "feelNoPain"
	StepDamage     Step = "damage"
)

// Steps lists every step in resolution order
var Steps = []Step{StepAttacks, StepHit, StepWound, StepSave, StepFeelNoPain, StepDamage}

// Attribute returns the attribute code mechanics use to target the step
func (s Step) Attribute() mechanics.Attribute {
	switch s {
	case StepAttacks:
		return mechanics.AttributeAttacks
	case StepHit:
		return mechanics.AttributeHitRoll
	case StepWound:
		return mechanics.AttributeWoundRoll
	case StepSave:
		return mechanics.AttributeSaveRoll
	case StepFeelNoPain:
		return mechanics.AttributeFeelNoPain
	case StepDamage:
		return mechanics.AttributeDamage
	}
	return ""
}

// IsCapped reports whether the step's net modifier is clamped to [-1, +1]
func (s Step) IsCapped() bool {
	return s == StepHit || s == StepWound
}

// AttributedModifier is one qualifying bonus or penalty and where it came from
type AttributedModifier struct {
	Value  int                    `json:"value"`
	Source mechanics.EffectSource `json:"source"`
}

// DisplayModifier is a labelled modifier ready for rendering. Bonuses are
// positive and penalties negative, except on the save step where magnitudes are shown.
type DisplayModifier struct {
	Label  string                 `json:"label"`
	Value  int                    `json:"value"`
	Source mechanics.EffectSource `json:"source"`
}

// StepModifiers is the aggregated modifier breakdown of one step
type StepModifiers struct {
	Step        Step                 `json:"step"`
	Bonuses     []AttributedModifier `json:"bonuses"`
	Penalties   []AttributedModifier `json:"penalties"`
	RawTotal    int                  `json:"rawTotal"`
	CappedTotal int                  `json:"cappedTotal"`
	IsCapped    bool                 `json:"isCapped"`
	Display     []DisplayModifier    `json:"display"`
}

// Modifiers groups the six step breakdowns
type Modifiers struct {
	Attacks    StepModifiers `json:"attacks"`
	Hit        StepModifiers `json:"hit"`
	Wound      StepModifiers `json:"wound"`
	Save       StepModifiers `json:"save"`
	FeelNoPain StepModifiers `json:"feelNoPain"`
	Damage     StepModifiers `json:"damage"`
}

// ForStep returns the breakdown of one step
func (m *Modifiers) ForStep(step Step) StepModifiers {
	switch step {
	case StepAttacks:
		return m.Attacks
	case StepHit:
		return m.Hit
	case StepWound:
		return m.Wound
	case StepSave:
		return m.Save
	case StepFeelNoPain:
		return m.FeelNoPain
	case StepDamage:
		return m.Damage
	}
	return StepModifiers{Step: step}
}

// Set stores the breakdown of one step
func (m *Modifiers) Set(sm StepModifiers) {
	switch sm.Step {
	case StepAttacks:
		m.Attacks = sm
	case StepHit:
		m.Hit = sm
	case StepWound:
		m.Wound = sm
	case StepSave:
		m.Save = sm
	case StepFeelNoPain:
		m.FeelNoPain = sm
	case StepDamage:
		m.Damage = sm
	}
}

const autoToken = "auto"

// RollTarget is a roll target such as 3+, or an automatic success
type RollTarget struct {
	Auto  bool
	Value int
}

// AutoTarget is an automatic success
func AutoTarget() RollTarget {
	return RollTarget{Auto: true}
}

// Target is a plain N+ roll target
func Target(n int) RollTarget {
	return RollTarget{Value: n}
}

// String renders "auto" or "N+"
func (r RollTarget) String() string {
	if r.Auto {
		return autoToken
	}
	return fmt.Sprintf("%d+", r.Value)
}

// MarshalJSON renders the literal token "auto" or the number
func (r RollTarget) MarshalJSON() ([]byte, error) {
	if r.Auto {
		return json.Marshal(autoToken)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *RollTarget) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		if !strings.EqualFold(token, autoToken) {
			return fmt.Errorf("unknown roll target token %q", token)
		}
		*r = AutoTarget()
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode roll target: %w", err)
	}
	*r = Target(n)
	return nil
}

// BaseValues are the unmodified stats a resolution starts from
type BaseValues struct {
	Attacks     string `json:"attacks"`
	Skill       int    `json:"skill"`
	Strength    int    `json:"strength"`
	AP          int    `json:"ap"`
	Damage      string `json:"damage"`
	Toughness   int    `json:"toughness"`
	Save        int    `json:"save"`
	InvulnSave  int    `json:"invulnSave,omitempty"`
	FeelNoPain  int    `json:"feelNoPain,omitempty"`
	Wounds      int    `json:"wounds"`
	ToWound     int    `json:"toWound"`
	WeaponCount int    `json:"weaponCount"`
}

// FinalValues are the published roll targets and qualifiers
type FinalValues struct {
	ToHit     RollTarget `json:"toHit"`
	ToWound   int        `json:"toWound"`
	ToSave    int        `json:"toSave"`
	UseInvuln bool       `json:"useInvuln"`
	// InvulnSave and FeelNoPain are zero when the target has none
	InvulnSave       int    `json:"invulnSave,omitempty"`
	FeelNoPain       int    `json:"feelNoPain,omitempty"`
	CritHit          int    `json:"critHit"`
	CritWound        int    `json:"critWound"`
	CritWoundKeyword string `json:"critWoundKeyword,omitempty"`
	BlastBonus       int    `json:"blastBonus"`
	Attacks          string `json:"attacks"`
	Damage           string `json:"damage"`
	// Rerolls maps an attribute code to the source granting the reroll
	Rerolls map[mechanics.Attribute]mechanics.EffectSource `json:"rerolls,omitempty"`
}

// Resolution is the computed outcome of one attack pairing
type Resolution struct {
	Base           BaseValues      `json:"base"`
	Modifiers      Modifiers       `json:"modifiers"`
	Final          FinalValues     `json:"final"`
	SpecialEffects []SpecialEffect `json:"specialEffects"`
}
