package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/engine"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

func TestProperty_HitAndWoundCapping(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		eval := engine.NewEvaluator(scenario{}.context(rt), engine.GrantedKeywords{})
		step := rapid.SampledFrom([]combat.Step{combat.StepHit, combat.StepWound}).Draw(rt, "step")

		var list []engine.CollectedMechanic
		for i, n := range rapid.SliceOfN(rapid.IntRange(-3, 3), 0, 8).Draw(rt, "modifiers") {
			effect := mechanics.EffectRollBonus
			if n < 0 {
				effect, n = mechanics.EffectRollPenalty, -n
			}
			mech := rollModifier(effect, step.Attribute(), mechanics.NumberValue(n))
			list = append(list, collected(mech, fmt.Sprintf("m%d", i)))
		}

		sm := engine.Aggregate(step, list, eval)
		if sm.CappedTotal < -1 || sm.CappedTotal > 1 {
			rt.Fatalf("capped total %d out of range", sm.CappedTotal)
		}
		if sm.IsCapped != (sm.RawTotal != sm.CappedTotal) {
			rt.Fatalf("isCapped %v with raw %d capped %d", sm.IsCapped, sm.RawTotal, sm.CappedTotal)
		}
	})
}

func TestProperty_SaveSelection(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		save := rapid.IntRange(2, 7).Draw(rt, "save")
		ap := rapid.IntRange(-5, 0).Draw(rt, "ap")
		modifier := rapid.IntRange(-2, 2).Draw(rt, "modifier")
		invuln := rapid.IntRange(0, 6).Draw(rt, "invuln")

		result, useInvuln := engine.SaveTarget(save, ap, modifier, invuln)

		armour := save - ap - modifier
		armour = max(2, min(7, armour))
		effective := max(2, invuln)
		expectInvuln := invuln > 0 && effective < armour
		if useInvuln != expectInvuln {
			rt.Fatalf("useInvuln %v, armour %d invuln %d", useInvuln, armour, invuln)
		}
		if useInvuln && result != effective {
			rt.Fatalf("expected invulnerable %d, got %d", effective, result)
		}
		if result < 2 || result > 7 {
			rt.Fatalf("save %d out of range", result)
		}
		if !useInvuln && result != armour {
			rt.Fatalf("expected armour %d, got %d", armour, result)
		}
	})
}

func TestProperty_StaticOverrideMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		eval := engine.NewEvaluator(scenario{}.context(rt), engine.GrantedKeywords{})
		static := func(n int, name string) engine.CollectedMechanic {
			return collected(mechanics.NewBuilder(mechanics.EntityTargetModel, mechanics.EffectStaticNumber).
				OnAttribute(mechanics.AttributeInvulnSave).
				WithNumber(n).
				Build(), name)
		}

		var list []engine.CollectedMechanic
		for i, n := range rapid.SliceOfN(rapid.IntRange(2, 6), 1, 6).Draw(rt, "values") {
			list = append(list, static(n, fmt.Sprintf("s%d", i)))
		}
		before, ok := engine.DeriveStatic(mechanics.AttributeInvulnSave, list, eval)
		if !ok {
			rt.Fatal("expected a derived value")
		}

		extra := rapid.IntRange(2, 6).Draw(rt, "extra")
		after, ok := engine.DeriveStatic(mechanics.AttributeInvulnSave, append(list, static(extra, "extra")), eval)
		if !ok {
			rt.Fatal("expected a derived value")
		}
		if after.Value > before.Value {
			rt.Fatalf("adding %d worsened %d to %d", extra, before.Value, after.Value)
		}
	})
}

func TestProperty_KeywordUnion(t *testing.T) {
	keyword := rapid.SampledFrom([]string{"INFANTRY", "VEHICLE", "MONSTER", "CHAOS", "FLY", "character", "Psyker"})

	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.SliceOfN(keyword, 0, 5).Draw(rt, "base")
		granted := rapid.SliceOfN(keyword, 0, 5).Draw(rt, "granted")

		ctx := scenario{defender: targetUnit(4, 3, 0, 5, base...)}.context(rt)
		eval := engine.NewEvaluator(ctx, engine.GrantedKeywords{Defender: granted})

		for _, k := range base {
			if !eval.HasKeyword(mechanics.EntityTargetUnit, k) {
				rt.Fatalf("base keyword %s missing", k)
			}
		}
		for _, k := range granted {
			if !eval.HasKeyword(mechanics.EntityTargetUnit, k) {
				rt.Fatalf("granted keyword %s missing", k)
			}
		}
	})
}

func TestProperty_Determinism(t *testing.T) {
	resolver := newResolver(t)
	keywords := []string{"HEAVY", "TORRENT", "LANCE", "BLAST", "TWIN-LINKED", "LETHAL HITS", "SUSTAINED HITS 2", "ANTI-INFANTRY 4+", "MELTA 2", "IGNORES COVER"}

	rapid.Check(t, func(rt *rapid.T) {
		weapon := boltRifle(rapid.SliceOfNDistinct(rapid.SampledFrom(keywords), 0, 4, rapid.ID[string]).Draw(rt, "keywords")...)
		weapon.Strength = rapid.IntRange(1, 16).Draw(rt, "strength")
		weapon.AP = rapid.IntRange(-4, 0).Draw(rt, "ap")

		defender := targetUnit(
			rapid.IntRange(1, 14).Draw(rt, "toughness"),
			rapid.IntRange(2, 6).Draw(rt, "save"),
			rapid.IntRange(0, 6).Draw(rt, "invuln"),
			rapid.IntRange(1, 20).Draw(rt, "models"),
			"INFANTRY",
		)
		defender.State.InCover = rapid.Bool().Draw(rt, "cover")
		attacker := intercessors()
		if rapid.Bool().Draw(rt, "stationary") {
			attacker.State.Movement = army.MovementHold
		}

		ctx := scenario{attacker: attacker, weapon: weapon, defender: defender}.context(rt)
		first, ok := resolver.Resolve(ctx)
		require.True(rt, ok)
		second, ok := resolver.Resolve(ctx)
		require.True(rt, ok)
		assert.Equal(rt, first, second)

		if first.Final.ToWound < 2 || first.Final.ToWound > 6 {
			rt.Fatalf("to-wound %d out of range", first.Final.ToWound)
		}
		if first.Final.ToSave < 2 || first.Final.ToSave > 7 {
			rt.Fatalf("to-save %d out of range", first.Final.ToSave)
		}
	})
}
