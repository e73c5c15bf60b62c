package engine

import (
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

const (
	minCap = -1
	maxCap = 1
)

// Aggregate sums the qualifying bonuses and penalties of one step. Hit and
// wound totals are clamped to [-1, +1].
func Aggregate(step combat.Step, list []CollectedMechanic, eval *Evaluator) combat.StepModifiers {
	attr := step.Attribute()
	out := combat.StepModifiers{
		Step:      step,
		Bonuses:   []combat.AttributedModifier{},
		Penalties: []combat.AttributedModifier{},
		Display:   []combat.DisplayModifier{},
	}

	bonusSum, penaltySum := 0, 0
	for _, cm := range list {
		mech := cm.Mechanic
		if mech.Attribute != attr {
			continue
		}
		if mech.Effect != m.EffectRollBonus && mech.Effect != m.EffectRollPenalty {
			continue
		}
		n, ok := mech.Value.Int()
		if !ok {
			continue
		}
		if !eval.Holds(cm) {
			continue
		}

		modifier := combat.AttributedModifier{Value: n, Source: cm.Source}
		shown := n
		if mech.Effect == m.EffectRollBonus {
			out.Bonuses = append(out.Bonuses, modifier)
			bonusSum += n
		} else {
			out.Penalties = append(out.Penalties, modifier)
			penaltySum += n
			shown = -n
		}

		if step == combat.StepSave && shown < 0 {
			shown = -shown
		}
		out.Display = append(out.Display, combat.DisplayModifier{
			Label:  cm.Source.Label(),
			Value:  shown,
			Source: cm.Source,
		})
	}

	out.RawTotal = bonusSum - penaltySum
	out.CappedTotal = out.RawTotal
	if step.IsCapped() {
		out.CappedTotal = clamp(minCap, maxCap, out.RawTotal)
	}
	out.IsCapped = out.CappedTotal != out.RawTotal
	return out
}

// AggregateAll builds the breakdown of every step
func AggregateAll(list []CollectedMechanic, eval *Evaluator) combat.Modifiers {
	var out combat.Modifiers
	for _, step := range combat.Steps {
		out.Set(Aggregate(step, list, eval))
	}
	return out
}

func clamp(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
