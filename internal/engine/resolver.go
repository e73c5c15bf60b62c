package engine

//go:generate mockgen -destination=mock/mock_resolver.go -package=mockengine -source=resolver.go

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/coreabilities"
)

// Resolver computes combat resolutions
type Resolver interface {
	// Resolve computes the resolution of one attack pairing. It returns false
	// when the context lacks an attacker, weapon, defender or target model.
	Resolve(ctx *combat.Context) (*combat.Resolution, bool)
}

// resolver implements the Resolver interface
type resolver struct {
	collector *Collector
	logger    *zap.Logger
}

// ResolverConfig holds configuration for the resolver
type ResolverConfig struct {
	Registry *coreabilities.Registry // Required
	Logger   *zap.Logger             // Optional, defaults to a no-op logger
}

// NewResolver creates a new resolver
func NewResolver(cfg *ResolverConfig) Resolver {
	if cfg.Registry == nil {
		panic("registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &resolver{
		collector: NewCollector(cfg.Registry, logger),
		logger:    logger,
	}
}

// Resolve is a pure function of the context: it never mutates its input and
// repeated calls give identical results.
func (r *resolver) Resolve(ctx *combat.Context) (*combat.Resolution, bool) {
	if !ctx.IsComplete() {
		return nil, false
	}

	collection := r.collector.Collect(ctx)
	list := collection.Mechanics
	eval := collection.Evaluator

	weapon := ctx.Attacker.Weapon
	target := ctx.Defender.TargetModel.Characteristics

	base := combat.BaseValues{
		Attacks:     weapon.Attacks,
		Skill:       weapon.Skill,
		Strength:    weapon.Strength,
		AP:          weapon.AP,
		Damage:      weapon.Damage,
		Toughness:   target.Toughness,
		Save:        target.Save,
		InvulnSave:  target.InvulnSave,
		FeelNoPain:  target.FeelNoPain,
		Wounds:      target.Wounds,
		ToWound:     WoundTarget(weapon.Strength, target.Toughness),
		WeaponCount: ctx.Attacker.WeaponCount,
	}

	mods := AggregateAll(list, eval)

	invuln, invulnOK := DeriveStatic(m.AttributeInvulnSave, list, eval)
	fnp, fnpOK := DeriveStatic(m.AttributeFeelNoPain, list, eval)
	invulnSave := bestRollTarget(invuln, invulnOK, target.InvulnSave)
	feelNoPain := bestRollTarget(fnp, fnpOK, target.FeelNoPain)

	toSave, useInvuln := SaveTarget(target.Save, weapon.AP, mods.Save.CappedTotal, invulnSave)
	critWound, critKeyword := CriticalWound(collection.WeaponEffects, eval)

	final := combat.FinalValues{
		ToHit:            HitTarget(weapon.Skill, mods.Hit.CappedTotal, autoHit(list, eval), ctx.Overwatch),
		ToWound:          clamp(bestRoll, worstRoll, base.ToWound-mods.Wound.CappedTotal),
		ToSave:           toSave,
		UseInvuln:        useInvuln,
		InvulnSave:       invulnSave,
		FeelNoPain:       FeelNoPainTarget(feelNoPain, mods.FeelNoPain.CappedTotal),
		CritHit:          defaultCritical,
		CritWound:        critWound,
		CritWoundKeyword: critKeyword,
		BlastBonus:       BlastBonus(collection.WeaponEffects, ctx.Defender.ModelCount),
		Attacks:          ApplyToExpression(weapon.Attacks, mods.Attacks.CappedTotal),
		Damage:           ApplyToExpression(weapon.Damage, mods.Damage.CappedTotal),
	}
	if len(collection.RerollSources) > 0 {
		final.Rerolls = collection.RerollSources
	}

	r.logger.Debug("resolved attack",
		zap.String("weapon", weapon.Name),
		zap.String("defender", ctx.Defender.Unit.Name),
		zap.String("toHit", final.ToHit.String()),
		zap.Int("toWound", final.ToWound),
		zap.Int("toSave", final.ToSave),
		zap.Bool("useInvuln", final.UseInvuln),
	)

	return &combat.Resolution{
		Base:           base,
		Modifiers:      mods,
		Final:          final,
		SpecialEffects: collection.SpecialEffects(),
	}, true
}
