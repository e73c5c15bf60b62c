package engine_test

import (
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/engine"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/coreabilities"
)

func newResolver(t require.TestingT) engine.Resolver {
	registry, err := coreabilities.Default()
	require.NoError(t, err)
	return engine.NewResolver(&engine.ResolverConfig{Registry: registry})
}

func newCollector(t require.TestingT) *engine.Collector {
	registry, err := coreabilities.Default()
	require.NoError(t, err)
	return engine.NewCollector(registry, nil)
}

func models(prefix, sourceUnit string, n int, c army.Characteristics, keywords ...string) []army.Model {
	out := make([]army.Model, n)
	for i := range out {
		out[i] = army.Model{
			ID:              fmt.Sprintf("%s-%d", prefix, i+1),
			Name:            sourceUnit,
			SourceUnit:      sourceUnit,
			Characteristics: c,
			Keywords:        keywords,
		}
	}
	return out
}

func intercessors() *army.Unit {
	return &army.Unit{
		ID:       "intercessors",
		Name:     "Intercessor Squad",
		Keywords: []string{"INFANTRY", "IMPERIUM", "ADEPTUS ASTARTES"},
		Models: models("int", "Intercessor Squad", 5, army.Characteristics{
			Movement: 6, Toughness: 4, Save: 3, Wounds: 2, Leadership: 6, ObjectiveControl: 2,
		}),
		State: army.CombatState{Movement: army.MovementNormal},
	}
}

func boltRifle(keywords ...string) *army.Weapon {
	return &army.Weapon{
		Name:     "Bolt rifle",
		Type:     army.WeaponTypeRanged,
		Range:    24,
		Attacks:  "2",
		Skill:    3,
		Strength: 4,
		AP:       -1,
		Damage:   "1",
		Keywords: keywords,
	}
}

func targetUnit(toughness, save, invuln int, count int, keywords ...string) *army.Unit {
	return &army.Unit{
		ID:       "target",
		Name:     "Target Unit",
		Keywords: keywords,
		Models: models("tgt", "Target Unit", count, army.Characteristics{
			Movement: 6, Toughness: toughness, Save: save, InvulnSave: invuln, Wounds: 3, Leadership: 7, ObjectiveControl: 1,
		}),
	}
}

type scenario struct {
	phase        mechanics.Phase
	overwatch    bool
	attacker     *army.Unit
	weapon       *army.Weapon
	defender     *army.Unit
	attackerArmy *army.Army
	stratagems   []army.Stratagem
}

func (s scenario) context(t require.TestingT) *combat.Context {
	phase := s.phase
	if phase == "" {
		phase = mechanics.PhaseShooting
	}
	attacker := s.attacker
	if attacker == nil {
		attacker = intercessors()
	}
	defender := s.defender
	if defender == nil {
		defender = targetUnit(4, 3, 0, 5)
	}
	weapon := s.weapon
	if weapon == nil {
		weapon = boltRifle()
	}

	ctx, ok := combat.NewContext(&combat.ContextConfig{
		Phase:        phase,
		Overwatch:    s.overwatch,
		Attacker:     attacker,
		Weapon:       weapon,
		AttackerArmy: s.attackerArmy,
		Defender:     defender,
		TargetModel:  &defender.Models[0],
		Stratagems:   s.stratagems,
	})
	require.True(t, ok)
	return ctx
}

func (s scenario) resolve(t require.TestingT) *combat.Resolution {
	res, ok := newResolver(t).Resolve(s.context(t))
	require.True(t, ok)
	require.NotNil(t, res)
	return res
}

func hitAbility(name string, n int, conditions ...mechanics.Condition) army.Ability {
	b := mechanics.NewBuilder(mechanics.EntityThisUnit, mechanics.EffectRollBonus).
		OnAttribute(mechanics.AttributeHitRoll).
		WithNumber(n)
	for _, c := range conditions {
		b.When(c)
	}
	return army.Ability{
		Name:      name,
		Target:    army.TargetAttacksMade,
		Mechanics: []mechanics.Mechanic{b.Build()},
	}
}

func collected(mech mechanics.Mechanic, name string) engine.CollectedMechanic {
	return engine.CollectedMechanic{
		Mechanic: mech,
		Source:   mechanics.NewSource(mechanics.SourceUnitAbility, name),
	}
}
