package engine

import (
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

const (
	defaultCritical = 6
	blastModelsPer  = 5
)

// StaticValue is the best qualifying override for a characteristic
type StaticValue struct {
	Value  int
	Source m.EffectSource
}

// DeriveStatic finds the best qualifying staticNumber override for an
// attribute: lowest for save-like characteristics, highest otherwise. The
// first candidate wins ties.
func DeriveStatic(attr m.Attribute, list []CollectedMechanic, eval *Evaluator) (StaticValue, bool) {
	var best StaticValue
	found := false

	for _, cm := range list {
		if cm.Mechanic.Effect != m.EffectStaticNumber || cm.Mechanic.Attribute != attr {
			continue
		}
		n, ok := cm.Mechanic.Value.Int()
		if !ok || !eval.Holds(cm) {
			continue
		}
		if !found || better(attr, n, best.Value) {
			best = StaticValue{Value: n, Source: cm.Source}
			found = true
		}
	}
	return best, found
}

func better(attr m.Attribute, candidate, current int) bool {
	if attr.LowerIsBetter() {
		return candidate < current
	}
	return candidate > current
}

// bestRollTarget combines a derived override with a base value where zero
// means none, keeping the lower. The result is a roll between 2+ and 6+.
func bestRollTarget(derived StaticValue, ok bool, base int) int {
	value := base
	if ok && derived.Value > 0 && (base <= 0 || derived.Value < base) {
		value = derived.Value
	}
	if value <= 0 {
		return 0
	}
	return clamp(bestRoll, worstRoll, value)
}

// CriticalWound returns the critical wound threshold and the keyword that
// lowered it. ANTI effects whose keyword the defender has lower it to the
// lowest matching threshold.
func CriticalWound(effects []combat.SpecialEffect, eval *Evaluator) (int, string) {
	threshold, keyword := defaultCritical, ""
	for _, e := range effects {
		if e.Name != combat.EffectAnti || e.Keyword == "" {
			continue
		}
		n, ok := e.Value.Int()
		if !ok || n >= threshold {
			continue
		}
		if eval.HasKeyword(m.EntityTargetModel, e.Keyword) {
			threshold, keyword = n, e.Keyword
		}
	}
	return threshold, keyword
}

// BlastBonus is one extra attack per five models in the target unit when the
// weapon carries BLAST
func BlastBonus(effects []combat.SpecialEffect, defenderModels int) int {
	for _, e := range effects {
		if e.Name == combat.EffectBlast {
			return defenderModels / blastModelsPer
		}
	}
	return 0
}
