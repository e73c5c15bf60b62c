package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/coreabilities"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/weapons"
)

// CollectedMechanic is a mechanic with its attribution. LeaderName is set when
// an attached leader confers the mechanic.
type CollectedMechanic struct {
	Mechanic   m.Mechanic
	Source     m.EffectSource
	LeaderName string
}

// Collection is everything gathered for one attacker and defender pairing
type Collection struct {
	Mechanics []CollectedMechanic
	// WeaponEffects are the tags weapon attributes translate to
	WeaponEffects []combat.SpecialEffect
	// Abilities are the recognised ability grants
	Abilities []combat.SpecialEffect
	// Rerolls are reroll effects, one per attribute
	Rerolls       []combat.SpecialEffect
	RerollSources map[m.Attribute]m.EffectSource
	Granted       GrantedKeywords
	Evaluator     *Evaluator
}

// SpecialEffects lists weapon tags, then ability grants, then rerolls
func (c *Collection) SpecialEffects() []combat.SpecialEffect {
	out := make([]combat.SpecialEffect, 0, len(c.WeaponEffects)+len(c.Abilities)+len(c.Rerolls))
	out = append(out, c.WeaponEffects...)
	out = append(out, c.Abilities...)
	out = append(out, c.Rerolls...)
	return out
}

// recognisedGrants are the ability grants with a special-effect form
var recognisedGrants = map[string]struct{}{
	combat.EffectLethalHits:        {},
	combat.EffectSustainedHits:     {},
	combat.EffectDevastatingWounds: {},
	combat.EffectPrecision:         {},
}

// Collector gathers mechanics from every rule source touching a pairing
type Collector struct {
	registry *coreabilities.Registry
	logger   *zap.Logger
}

// NewCollector creates a collector. Core abilities are expanded through the registry.
func NewCollector(registry *coreabilities.Registry, logger *zap.Logger) *Collector {
	if registry == nil {
		panic("registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		registry: registry,
		logger:   logger,
	}
}

// Collect gathers, phase-filters and post-processes the mechanics of a pairing
func (c *Collector) Collect(ctx *combat.Context) *Collection {
	out := &Collection{
		RerollSources: make(map[m.Attribute]m.EffectSource),
	}

	var gathered []CollectedMechanic

	// Weapon attributes
	for _, tr := range weapons.TranslateAll(ctx.Attacker.Weapon.Keywords) {
		if tr.Mechanic != nil {
			gathered = append(gathered, CollectedMechanic{Mechanic: *tr.Mechanic, Source: tr.Source()})
		}
		if tr.Effect != nil {
			out.WeaponEffects = append(out.WeaponEffects, *tr.Effect)
		}
	}

	attacker := ctx.Attacker.Unit
	defender := ctx.Defender.Unit

	// Unit and leader abilities
	gathered = append(gathered, c.unitAbilities(attacker, army.AbilityTarget.AffectsAttacksMade)...)
	gathered = append(gathered, c.unitAbilities(defender, army.AbilityTarget.AffectsAttacksReceived)...)

	// Wargear
	gathered = append(gathered, c.wargearAbilities(attacker, army.AbilityTarget.AffectsAttacksMade)...)
	gathered = append(gathered, c.wargearAbilities(defender, army.AbilityTarget.AffectsAttacksReceived)...)

	// Enhancements
	gathered = append(gathered, enhancement(attacker, army.AbilityTarget.AffectsAttacksMade)...)
	gathered = append(gathered, enhancement(defender, army.AbilityTarget.AffectsAttacksReceived)...)

	// Damaged profile, attacker only
	if attacker.DamagedProfile != nil && attacker.State.Damaged {
		source := m.NewSource(m.SourceUnitAbility, "Damaged").
			WithUnit(attacker.Name).
			WithCharacteristic(attacker.DamagedProfile.Description)
		for _, mech := range attacker.DamagedProfile.Mechanics {
			gathered = append(gathered, CollectedMechanic{Mechanic: mech.Clone(), Source: source})
		}
	}

	var armyWide []CollectedMechanic
	if a := ctx.Attacker.Army; a != nil {
		armyWide = append(armyWide, c.abilities(a.FactionAbilities, m.SourceFactionAbility, "", army.AbilityTarget.AffectsAttacksMade)...)
		armyWide = append(armyWide, c.abilities(a.DetachmentRules, m.SourceDetachmentRule, "", army.AbilityTarget.AffectsAttacksMade)...)
	}
	for _, s := range ctx.Stratagems {
		source := m.NewSource(m.SourceStratagem, s.Name)
		for _, mech := range s.Mechanics {
			armyWide = append(armyWide, CollectedMechanic{Mechanic: mech.Clone(), Source: source})
		}
	}

	// Benefit of cover
	if defender.State.InCover && ctx.Phase == m.PhaseShooting &&
		!ignoresCover(gathered) && !ignoresCover(armyWide) {
		gathered = append(gathered, c.coverRule()...)
	}
	gathered = append(gathered, armyWide...)

	for _, cm := range gathered {
		if cm.Mechanic.AppliesInPhase(ctx.Phase) {
			out.Mechanics = append(out.Mechanics, cm)
		}
	}

	out.Granted = grantedKeywords(ctx, out.Mechanics)
	out.Evaluator = NewEvaluator(ctx, out.Granted)
	c.deriveEffects(out)

	c.logger.Debug("collected mechanics",
		zap.String("attacker", attacker.Name),
		zap.String("weapon", ctx.Attacker.Weapon.Name),
		zap.String("defender", defender.Name),
		zap.Int("gathered", len(gathered)),
		zap.Int("applicable", len(out.Mechanics)),
	)

	return out
}

func (c *Collector) unitAbilities(unit *army.Unit, applies func(army.AbilityTarget) bool) []CollectedMechanic {
	var out []CollectedMechanic
	for _, a := range unit.Abilities {
		if a.GrantedBy != "" {
			out = append(out, c.ability(a, m.SourceLeaderAbility, a.GrantedBy, a.GrantedBy, applies)...)
			continue
		}
		out = append(out, c.ability(a, m.SourceUnitAbility, unit.Name, "", applies)...)
	}
	return out
}

func (c *Collector) wargearAbilities(unit *army.Unit, applies func(army.AbilityTarget) bool) []CollectedMechanic {
	var out []CollectedMechanic
	for _, w := range unit.Wargear {
		for _, a := range w.Abilities {
			for _, cm := range c.ability(a, m.SourceWeaponAbility, unit.Name, "", applies) {
				cm.Source = cm.Source.WithCharacteristic(w.Name)
				out = append(out, cm)
			}
		}
	}
	return out
}

func (c *Collector) abilities(list []army.Ability, sourceType m.SourceType, unitName string, applies func(army.AbilityTarget) bool) []CollectedMechanic {
	var out []CollectedMechanic
	for _, a := range list {
		out = append(out, c.ability(a, sourceType, unitName, "", applies)...)
	}
	return out
}

// ability expands one ability. Abilities without mechanics come from the core
// ability registry and take its declared target when they declare none.
func (c *Collector) ability(a army.Ability, sourceType m.SourceType, unitName, leader string, applies func(army.AbilityTarget) bool) []CollectedMechanic {
	mechs := a.Mechanics
	target := a.Target.OrDefault(army.TargetAttacksMade)

	if a.IsCore() {
		resolved, entry, ok := c.registry.Resolve(a.Name, a.Parameter)
		if !ok {
			c.logger.Debug("unknown core ability", zap.String("ability", a.Name))
			return nil
		}
		mechs = resolved
		target = a.Target.OrDefault(entry.Target.OrDefault(army.TargetAttacksMade))
		if sourceType == m.SourceUnitAbility {
			sourceType = m.SourceCoreRule
		}
	}

	if !applies(target) {
		return nil
	}

	source := m.NewSource(sourceType, abilityLabel(a)).WithUnit(unitName)
	out := make([]CollectedMechanic, 0, len(mechs))
	for _, mech := range mechs {
		out = append(out, CollectedMechanic{
			Mechanic:   mech.Clone(),
			Source:     source,
			LeaderName: leader,
		})
	}
	return out
}

func abilityLabel(a army.Ability) string {
	if a.Parameter == "" {
		return a.Name
	}
	return a.Name + " " + a.Parameter
}

// enhancement applies while a model of its bearer is alive
func enhancement(unit *army.Unit, applies func(army.AbilityTarget) bool) []CollectedMechanic {
	enh := unit.Enhancement
	if enh == nil || !applies(enh.Target.OrDefault(army.TargetAttacksMade)) {
		return nil
	}

	bearer := enh.Bearer
	if bearer == "" {
		bearer = unit.Name
	}
	if !unit.BearerAlive(bearer) {
		return nil
	}

	var leader string
	for _, l := range unit.Leaders {
		if strings.EqualFold(l.Name, bearer) {
			leader = l.Name
		}
	}

	source := m.NewSource(m.SourceEnhancement, enh.Name).WithUnit(bearer)
	out := make([]CollectedMechanic, 0, len(enh.Mechanics))
	for _, mech := range enh.Mechanics {
		out = append(out, CollectedMechanic{Mechanic: mech.Clone(), Source: source, LeaderName: leader})
	}
	return out
}

func (c *Collector) coverRule() []CollectedMechanic {
	source := m.NewSource(m.SourceCoreRule, coreabilities.BenefitOfCover)
	if resolved, _, ok := c.registry.Resolve(coreabilities.BenefitOfCover, ""); ok {
		out := make([]CollectedMechanic, 0, len(resolved))
		for _, mech := range resolved {
			out = append(out, CollectedMechanic{Mechanic: mech, Source: source})
		}
		return out
	}
	return []CollectedMechanic{{Mechanic: m.BuildCoverBonus(), Source: source}}
}

// ignoresCover checks for the presence of a cover-ignoring mechanic. Its
// conditions are not evaluated.
func ignoresCover(list []CollectedMechanic) bool {
	for _, cm := range list {
		if cm.Mechanic.Effect != m.EffectIgnoresModifier {
			continue
		}
		if text, ok := cm.Mechanic.Value.Text(); ok && strings.EqualFold(text, m.ModifierCover) {
			return true
		}
	}
	return false
}

// grantedKeywords harvests addsKeyword mechanics. Their conditions see base
// keywords only.
func grantedKeywords(ctx *combat.Context, list []CollectedMechanic) GrantedKeywords {
	base := NewEvaluator(ctx, GrantedKeywords{})

	var granted GrantedKeywords
	seen := make(map[string]struct{})
	for _, cm := range list {
		if cm.Mechanic.Effect != m.EffectAddsKeyword || !base.Holds(cm) {
			continue
		}
		attacker := cm.Mechanic.Entity.IsAttackerSide()
		for _, k := range cm.Mechanic.Keywords {
			k = normalizeKeyword(k)
			key := k
			if attacker {
				key = "a:" + k
			} else {
				key = "d:" + k
			}
			if _, dup := seen[key]; dup || k == "" {
				continue
			}
			seen[key] = struct{}{}
			if attacker {
				granted.Attacker = append(granted.Attacker, k)
			} else {
				granted.Defender = append(granted.Defender, k)
			}
		}
	}
	return granted
}

// deriveEffects turns ability grants and rerolls into special effects. The
// first grant of each ability and the first reroll of each attribute win.
func (c *Collector) deriveEffects(out *Collection) {
	grants := make(map[string]struct{})

	for _, cm := range out.Mechanics {
		switch cm.Mechanic.Effect {
		case m.EffectAddsAbility:
			if !out.Evaluator.Holds(cm) {
				continue
			}
			for _, name := range cm.Mechanic.Abilities {
				name = normalizeKeyword(name)
				if _, ok := recognisedGrants[name]; !ok {
					continue
				}
				if _, dup := grants[name]; dup {
					continue
				}
				grants[name] = struct{}{}
				out.Abilities = append(out.Abilities, combat.SpecialEffect{
					Name:   name,
					Value:  cm.Mechanic.Value,
					Source: cm.Source,
				})
			}
		case m.EffectReroll:
			attr := cm.Mechanic.Attribute
			if attr == "" || !out.Evaluator.Holds(cm) {
				continue
			}
			if _, dup := out.RerollSources[attr]; dup {
				continue
			}
			out.RerollSources[attr] = cm.Source
			out.Rerolls = append(out.Rerolls, combat.SpecialEffect{
				Name:      combat.EffectReroll,
				Value:     cm.Mechanic.Value,
				Attribute: attr,
				Source:    cm.Source,
			})
		}
	}
}
