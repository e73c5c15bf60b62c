package engine

import (
	"strings"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// GrantedKeywords holds keywords conferred by addsKeyword mechanics, per side
type GrantedKeywords struct {
	Attacker []string
	Defender []string
}

// Evaluator decides whether conditions hold against one context snapshot.
// Entities resolve attacker-relative: every "this" entity is the attacker and
// every target, opposing or opponent entity is the defender.
type Evaluator struct {
	ctx      *combat.Context
	attacker keywordSet
	defender keywordSet
	weapon   keywordSet
	model    keywordSet
}

type keywordSet map[string]struct{}

func newKeywordSet(groups ...[]string) keywordSet {
	set := make(keywordSet)
	for _, g := range groups {
		for _, k := range g {
			if k = normalizeKeyword(k); k != "" {
				set[k] = struct{}{}
			}
		}
	}
	return set
}

func (s keywordSet) has(keyword string) bool {
	_, ok := s[normalizeKeyword(keyword)]
	return ok
}

func normalizeKeyword(k string) string {
	return strings.Join(strings.Fields(strings.ToUpper(k)), " ")
}

// NewEvaluator builds an evaluator whose keyword checks see base keywords
// plus the granted ones
func NewEvaluator(ctx *combat.Context, granted GrantedKeywords) *Evaluator {
	e := &Evaluator{ctx: ctx}

	if u := ctx.Attacker.Unit; u != nil {
		e.attacker = newKeywordSet(u.Keywords, granted.Attacker)
	}
	if w := ctx.Attacker.Weapon; w != nil {
		e.weapon = newKeywordSet(w.Keywords)
	}
	if u := ctx.Defender.Unit; u != nil {
		e.defender = newKeywordSet(u.Keywords, granted.Defender)
	}
	if tm := ctx.Defender.TargetModel; tm != nil {
		e.model = newKeywordSet(tm.Keywords)
	}
	return e
}

// Holds reports whether every condition of a collected mechanic is satisfied
func (e *Evaluator) Holds(cm CollectedMechanic) bool {
	for _, c := range cm.Mechanic.Conditions {
		if !e.Evaluate(c, cm.LeaderName) {
			return false
		}
	}
	return true
}

// HasKeyword checks one side's effective keyword set
func (e *Evaluator) HasKeyword(entity m.Entity, keyword string) bool {
	switch entity {
	case m.EntityThisWeapon:
		return e.weapon.has(keyword) || e.attacker.has(keyword)
	case m.EntityTargetModel:
		return e.model.has(keyword) || e.defender.has(keyword)
	}
	if entity.IsAttackerSide() {
		return e.attacker.has(keyword)
	}
	return e.defender.has(keyword)
}

// Evaluate decides one condition. leaderName scopes isLeadingUnit checks to
// the leader that granted the mechanic.
func (e *Evaluator) Evaluate(c m.Condition, leaderName string) bool {
	switch {
	case c.State != "":
		return e.evaluateState(c, leaderName)
	case len(c.Keywords) > 0:
		return e.evaluateKeywords(c)
	case c.Attribute != "":
		return e.evaluateAttribute(c)
	}
	return false
}

func (e *Evaluator) unitFor(entity m.Entity) *army.Unit {
	if entity.IsAttackerSide() {
		return e.ctx.Attacker.Unit
	}
	return e.ctx.Defender.Unit
}

func (e *Evaluator) evaluateState(c m.Condition, leaderName string) bool {
	unit := e.unitFor(c.Entity)
	if unit == nil {
		return false
	}

	expected := c.Value
	var actual bool

	switch c.State {
	case m.StateStationary:
		actual = unit.State.IsStationary()
	case m.StateBattleShocked:
		actual = unit.State.BattleShocked
	case m.StateInCover:
		actual = unit.State.InCover
	case m.StateInEngagementRange:
		actual = unit.State.InEngagementRange
	case m.StateChargedThisTurn:
		actual = unit.State.ChargedThisTurn
	case m.StateBelowHalfStrength:
		actual = unit.BelowHalfStrength()
	case m.StateBelowStartingStrength:
		actual = unit.BelowStartingStrength()
	case m.StateDamaged:
		actual = unit.State.Damaged
	case m.StateShootingPhase:
		actual = e.ctx.Phase == m.PhaseShooting
	case m.StateFightPhase:
		actual = e.ctx.Phase == m.PhaseFight
	case m.StateLeadingUnit:
		name := leaderName
		if text, ok := c.Value.Text(); ok {
			// A named leader scopes the check to that leader
			name = text
			expected = m.BoolValue(true)
		}
		if name != "" {
			actual = unit.LeaderAlive(name)
		} else {
			actual = unit.IsLeading()
		}
	default:
		flag, ok := unit.State.Flag(string(c.State))
		if !ok {
			flag = m.BoolValue(false)
		}
		if expected.IsZero() {
			expected = m.BoolValue(true)
		}
		return compare(flag, c.Operator, expected)
	}

	if expected.IsZero() {
		expected = m.BoolValue(true)
	}
	return compare(m.BoolValue(actual), c.Operator, expected)
}

func (e *Evaluator) evaluateKeywords(c m.Condition) bool {
	switch c.Operator {
	case m.OperatorIncludes:
		for _, k := range c.Keywords {
			if e.HasKeyword(c.Entity, k) {
				return true
			}
		}
		return false
	case m.OperatorNotIncludes:
		for _, k := range c.Keywords {
			if e.HasKeyword(c.Entity, k) {
				return false
			}
		}
		return true
	}
	return false
}

func (e *Evaluator) evaluateAttribute(c m.Condition) bool {
	actual, ok := e.attributeValue(c.Entity, c.Attribute)
	if !ok {
		return false
	}
	return compare(actual, c.Operator, c.Value)
}

// attributeValue reads weapon stats on the attacking side and model
// characteristics on either side
func (e *Evaluator) attributeValue(entity m.Entity, attr m.Attribute) (m.Value, bool) {
	if entity.IsAttackerSide() {
		if w := e.ctx.Attacker.Weapon; w != nil {
			switch attr {
			case m.AttributeRange:
				return m.NumberValue(w.Range), true
			case m.AttributeAttacks:
				return m.StringValue(w.Attacks), true
			case m.AttributeSkill:
				return m.NumberValue(w.Skill), true
			case m.AttributeStrength:
				return m.NumberValue(w.Strength), true
			case m.AttributeAP:
				return m.NumberValue(w.AP), true
			case m.AttributeDamage:
				return m.StringValue(w.Damage), true
			}
		}
		if u := e.ctx.Attacker.Unit; u != nil {
			if alive := u.AliveModels(); len(alive) > 0 {
				return characteristic(alive[0].Characteristics, attr)
			}
		}
		return m.Value{}, false
	}

	if tm := e.ctx.Defender.TargetModel; tm != nil {
		return characteristic(tm.Characteristics, attr)
	}
	return m.Value{}, false
}

func characteristic(c army.Characteristics, attr m.Attribute) (m.Value, bool) {
	switch attr {
	case m.AttributeMovement:
		return m.NumberValue(c.Movement), true
	case m.AttributeToughness:
		return m.NumberValue(c.Toughness), true
	case m.AttributeSave:
		return m.NumberValue(c.Save), true
	case m.AttributeInvulnSave:
		return m.NumberValue(c.InvulnSave), true
	case m.AttributeWounds:
		return m.NumberValue(c.Wounds), true
	case m.AttributeLeadership:
		return m.NumberValue(c.Leadership), true
	case m.AttributeObjectiveControl:
		return m.NumberValue(c.ObjectiveControl), true
	case m.AttributeFeelNoPain:
		return m.NumberValue(c.FeelNoPain), true
	}
	return m.Value{}, false
}

// compare applies a relational operator. Operator and value shapes that do not
// fit together are false.
func compare(actual m.Value, op m.Operator, expected m.Value) bool {
	switch op {
	case m.OperatorEquals, "":
		return actual.Equal(expected)
	case m.OperatorNotEquals:
		if actual.IsZero() || expected.IsZero() {
			return false
		}
		return !actual.Equal(expected)
	}

	a, okA := actual.Int()
	b, okB := expected.Int()
	if !okA || !okB {
		return false
	}

	switch op {
	case m.OperatorGreaterThan:
		return a > b
	case m.OperatorGreaterThanOrEqualTo:
		return a >= b
	case m.OperatorLessThan:
		return a < b
	case m.OperatorLessThanOrEqualTo:
		return a <= b
	}
	return false
}
