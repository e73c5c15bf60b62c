package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

const (
	bestRoll     = 2
	worstRoll    = 6
	noSave       = 7
	overwatchHit = 6
)

// WoundTarget is the roll needed to wound from strength against toughness
func WoundTarget(strength, toughness int) int {
	switch {
	case strength >= 2*toughness:
		return 2
	case strength > toughness:
		return 3
	case strength == toughness:
		return 4
	case 2*strength <= toughness:
		return 6
	}
	return 5
}

// HitTarget resolves the to-hit roll. An auto-success hit mechanic beats
// everything, then overwatch forces 6+.
func HitTarget(skill, capped int, auto, overwatch bool) combat.RollTarget {
	if auto {
		return combat.AutoTarget()
	}
	if overwatch {
		return combat.Target(overwatchHit)
	}
	return combat.Target(clamp(bestRoll, worstRoll, skill-capped))
}

// SaveTarget resolves the armour save against AP and the save modifier, where
// a positive modifier improves the save. 7 means no armour save. An
// invulnerable save, never better than 2+, is used only when strictly better.
func SaveTarget(save, ap, modifier, invuln int) (int, bool) {
	armour := clamp(bestRoll, noSave, save-ap-modifier)
	if invuln <= 0 {
		return armour, false
	}
	if invuln = clamp(bestRoll, worstRoll, invuln); invuln < armour {
		return invuln, true
	}
	return armour, false
}

// FeelNoPainTarget applies the feel-no-pain step total. Zero means none.
func FeelNoPainTarget(fnp, modifier int) int {
	if fnp <= 0 {
		return 0
	}
	return clamp(bestRoll, worstRoll, fnp-modifier)
}

var dicePattern = regexp.MustCompile(`^(\d*D\d+)([+-]\d+)?$`)

// ApplyToExpression adds a flat modifier to an attacks or damage expression:
// "D6" with 1 gives "D6+1" and "2" with 1 gives "3". Flat values never drop below 1.
func ApplyToExpression(expr string, modifier int) string {
	expr = strings.ToUpper(strings.ReplaceAll(expr, " ", ""))
	if modifier == 0 || expr == "" {
		return expr
	}

	if n, err := strconv.Atoi(expr); err == nil {
		return strconv.Itoa(max(1, n+modifier))
	}

	match := dicePattern.FindStringSubmatch(expr)
	if match == nil {
		return fmt.Sprintf("%s%+d", expr, modifier)
	}

	constant := 0
	if match[2] != "" {
		constant, _ = strconv.Atoi(match[2])
	}
	constant += modifier
	if constant == 0 {
		return match[1]
	}
	return fmt.Sprintf("%s%+d", match[1], constant)
}

func autoHit(list []CollectedMechanic, eval *Evaluator) bool {
	for _, cm := range list {
		if cm.Mechanic.Effect != m.EffectAutoSuccess || cm.Mechanic.Attribute != m.AttributeHitRoll {
			continue
		}
		if v, ok := cm.Mechanic.Value.Bool(); ok && !v {
			continue
		}
		if eval.Holds(cm) {
			return true
		}
	}
	return false
}
