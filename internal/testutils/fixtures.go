package testutils

import (
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// CreateTestModels creates n identical models belonging to sourceUnit
func CreateTestModels(prefix, sourceUnit string, n int, c army.Characteristics) []army.Model {
	out := make([]army.Model, n)
	for i := range out {
		out[i] = army.Model{
			ID:              fmt.Sprintf("%s-%d", prefix, i+1),
			Name:            sourceUnit,
			SourceUnit:      sourceUnit,
			Characteristics: c,
		}
	}
	return out
}

// CreateTestUnit creates a five model infantry unit
func CreateTestUnit(id, name string, toughness, save int) *army.Unit {
	return &army.Unit{
		ID:       id,
		Name:     name,
		Keywords: []string{"INFANTRY"},
		Models: CreateTestModels(id, name, 5, army.Characteristics{
			Movement: 6, Toughness: toughness, Save: save, Wounds: 2, Leadership: 6, ObjectiveControl: 2,
		}),
	}
}

// CreateTestWeapon creates a ranged weapon profile
func CreateTestWeapon(name string, strength, ap int, keywords ...string) *army.Weapon {
	return &army.Weapon{
		Name:     name,
		Type:     army.WeaponTypeRanged,
		Range:    24,
		Attacks:  "2",
		Skill:    3,
		Strength: strength,
		AP:       ap,
		Damage:   "1",
		Keywords: keywords,
	}
}

// CreateTestContext assembles a shooting context targeting the first defender model
func CreateTestContext(t require.TestingT, attacker *army.Unit, weapon *army.Weapon, defender *army.Unit) *combat.Context {
	ctx, ok := combat.NewContext(&combat.ContextConfig{
		Phase:       mechanics.PhaseShooting,
		Attacker:    attacker,
		Weapon:      weapon,
		Defender:    defender,
		TargetModel: &defender.Models[0],
	})
	require.True(t, ok)
	return ctx
}

// CreateTestHitModifier creates an unconditional hit roll bonus, or a penalty
// when n is negative
func CreateTestHitModifier(n int) mechanics.Mechanic {
	if n < 0 {
		return mechanics.NewBuilder(mechanics.EntityThisUnit, mechanics.EffectRollPenalty).
			OnAttribute(mechanics.AttributeHitRoll).
			WithNumber(-n).
			Build()
	}
	return mechanics.NewBuilder(mechanics.EntityThisUnit, mechanics.EffectRollBonus).
		OnAttribute(mechanics.AttributeHitRoll).
		WithNumber(n).
		Build()
}
