package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/engine"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

func rollModifier(effect mechanics.Effect, attr mechanics.Attribute, v mechanics.Value) mechanics.Mechanic {
	return mechanics.NewBuilder(mechanics.EntityThisUnit, effect).OnAttribute(attr).WithValue(v).Build()
}

func TestAggregate(t *testing.T) {
	eval := engine.NewEvaluator(scenario{}.context(t), engine.GrantedKeywords{})

	list := []engine.CollectedMechanic{
		collected(rollModifier(mechanics.EffectRollBonus, mechanics.AttributeWoundRoll, mechanics.NumberValue(1)), "A"),
		collected(rollModifier(mechanics.EffectRollPenalty, mechanics.AttributeWoundRoll, mechanics.NumberValue(1)), "B"),
		collected(rollModifier(mechanics.EffectRollPenalty, mechanics.AttributeWoundRoll, mechanics.NumberValue(1)), "C"),
		collected(rollModifier(mechanics.EffectRollPenalty, mechanics.AttributeWoundRoll, mechanics.NumberValue(1)), "D"),
		// Not numeric
		collected(rollModifier(mechanics.EffectRollBonus, mechanics.AttributeWoundRoll, mechanics.StringValue("D3")), "E"),
		// Other attribute
		collected(rollModifier(mechanics.EffectRollBonus, mechanics.AttributeHitRoll, mechanics.NumberValue(1)), "F"),
		// Not a modifier
		collected(rollModifier(mechanics.EffectReroll, mechanics.AttributeWoundRoll, mechanics.BoolValue(true)), "G"),
	}

	wound := engine.Aggregate(combat.StepWound, list, eval)
	assert.Equal(t, combat.StepWound, wound.Step)
	assert.Len(t, wound.Bonuses, 1)
	assert.Len(t, wound.Penalties, 3)
	assert.Equal(t, -2, wound.RawTotal)
	assert.Equal(t, -1, wound.CappedTotal)
	assert.True(t, wound.IsCapped)
	require.Len(t, wound.Display, 4)
	assert.Equal(t, "A", wound.Display[0].Label)
	assert.Equal(t, 1, wound.Display[0].Value)
	assert.Equal(t, -1, wound.Display[1].Value)
}

func TestAggregate_UncappedSteps(t *testing.T) {
	eval := engine.NewEvaluator(scenario{}.context(t), engine.GrantedKeywords{})
	list := []engine.CollectedMechanic{
		collected(rollModifier(mechanics.EffectRollBonus, mechanics.AttributeAttacks, mechanics.NumberValue(2)), "A"),
		collected(rollModifier(mechanics.EffectRollBonus, mechanics.AttributeAttacks, mechanics.NumberValue(1)), "B"),
	}

	attacks := engine.Aggregate(combat.StepAttacks, list, eval)
	assert.Equal(t, 3, attacks.RawTotal)
	assert.Equal(t, 3, attacks.CappedTotal)
	assert.False(t, attacks.IsCapped)

	empty := engine.Aggregate(combat.StepDamage, list, eval)
	assert.Zero(t, empty.RawTotal)
	assert.NotNil(t, empty.Bonuses)
	assert.NotNil(t, empty.Display)
}

func TestAggregateAll(t *testing.T) {
	eval := engine.NewEvaluator(scenario{}.context(t), engine.GrantedKeywords{})
	list := []engine.CollectedMechanic{
		collected(rollModifier(mechanics.EffectRollBonus, mechanics.AttributeFeelNoPain, mechanics.NumberValue(1)), "A"),
	}

	mods := engine.AggregateAll(list, eval)
	for _, step := range combat.Steps {
		assert.Equal(t, step, mods.ForStep(step).Step)
	}
	assert.Equal(t, 1, mods.FeelNoPain.RawTotal)
}

func TestDeriveStatic(t *testing.T) {
	eval := engine.NewEvaluator(scenario{}.context(t), engine.GrantedKeywords{})
	static := func(attr mechanics.Attribute, n int, name string) engine.CollectedMechanic {
		return collected(mechanics.NewBuilder(mechanics.EntityTargetModel, mechanics.EffectStaticNumber).
			OnAttribute(attr).
			WithNumber(n).
			Build(), name)
	}

	list := []engine.CollectedMechanic{
		static(mechanics.AttributeInvulnSave, 5, "Storm Shield"),
		static(mechanics.AttributeInvulnSave, 4, "Iron Halo"),
		static(mechanics.AttributeInvulnSave, 4, "Rosarius"),
		static(mechanics.AttributeLeadership, 6, "Banner"),
		static(mechanics.AttributeLeadership, 7, "Chaplain"),
	}

	invuln, ok := engine.DeriveStatic(mechanics.AttributeInvulnSave, list, eval)
	require.True(t, ok)
	assert.Equal(t, 4, invuln.Value)
	assert.Equal(t, "Iron Halo", invuln.Source.Name)

	ld, ok := engine.DeriveStatic(mechanics.AttributeLeadership, list, eval)
	require.True(t, ok)
	assert.Equal(t, 7, ld.Value)

	_, ok = engine.DeriveStatic(mechanics.AttributeFeelNoPain, list, eval)
	assert.False(t, ok)
}

func TestFinalHelpers(t *testing.T) {
	t.Run("hit target", func(t *testing.T) {
		assert.Equal(t, combat.Target(2), engine.HitTarget(3, 1, false, false))
		assert.Equal(t, combat.Target(2), engine.HitTarget(2, 1, false, false))
		assert.Equal(t, combat.Target(6), engine.HitTarget(6, -1, false, false))
		assert.Equal(t, combat.Target(6), engine.HitTarget(3, 1, false, true))
		assert.Equal(t, combat.AutoTarget(), engine.HitTarget(3, 0, true, true))
	})

	t.Run("save target", func(t *testing.T) {
		save, invuln := engine.SaveTarget(3, -2, 0, 0)
		assert.Equal(t, 5, save)
		assert.False(t, invuln)

		save, invuln = engine.SaveTarget(2, 0, 1, 0)
		assert.Equal(t, 2, save)
		assert.False(t, invuln)

		save, invuln = engine.SaveTarget(3, -4, 0, 5)
		assert.Equal(t, 5, save)
		assert.True(t, invuln)
	})

	t.Run("feel no pain", func(t *testing.T) {
		assert.Zero(t, engine.FeelNoPainTarget(0, 1))
		assert.Equal(t, 4, engine.FeelNoPainTarget(5, 1))
		assert.Equal(t, 6, engine.FeelNoPainTarget(6, -1))
	})

	t.Run("expressions", func(t *testing.T) {
		tests := []struct {
			expr     string
			modifier int
			expected string
		}{
			{expr: "D6", modifier: 1, expected: "D6+1"},
			{expr: "d6+1", modifier: 1, expected: "D6+2"},
			{expr: "2D6+1", modifier: -1, expected: "2D6"},
			{expr: "D3", modifier: -2, expected: "D3-2"},
			{expr: "2", modifier: 2, expected: "4"},
			{expr: "1", modifier: -1, expected: "1"},
			{expr: "D6", modifier: 0, expected: "D6"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, engine.ApplyToExpression(tt.expr, tt.modifier), tt.expr)
		}
	})
}

func TestBlastBonus(t *testing.T) {
	blast := []combat.SpecialEffect{{Name: combat.EffectBlast}}
	assert.Equal(t, 0, engine.BlastBonus(blast, 4))
	assert.Equal(t, 1, engine.BlastBonus(blast, 5))
	assert.Equal(t, 2, engine.BlastBonus(blast, 10))
	assert.Equal(t, 0, engine.BlastBonus(nil, 10))
}
