package coreabilities_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/coreabilities"
	"github.com/KirkDiggler/wargame-mechanics/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r, err := coreabilities.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"BENEFIT OF COVER",
		"DEADLY DEMISE",
		"DEVASTATING WOUNDS",
		"FEEL NO PAIN",
		"INVULNERABLE SAVE",
		"LETHAL HITS",
		"PRECISION",
		"STEALTH",
		"SUSTAINED HITS",
		"TWIN-LINKED",
	}, r.Keys())

	stealth, ok := r.Get("stealth")
	require.True(t, ok)
	assert.Equal(t, coreabilities.KindStatic, stealth.Kind)
	assert.Equal(t, army.TargetAttacksReceived, stealth.Target)
	require.Len(t, stealth.Mechanics, 1)
	assert.Equal(t, mechanics.EffectRollPenalty, stealth.Mechanics[0].Effect)
	assert.Equal(t, []mechanics.Phase{mechanics.PhaseShooting}, stealth.Mechanics[0].Phases)
}

func TestResolve(t *testing.T) {
	r, err := coreabilities.Default()
	require.NoError(t, err)

	tests := []struct {
		name      string
		ability   string
		parameter string
		expectOK  bool
		expected  mechanics.Value
	}{
		{name: "numeric parameter", ability: "FEEL NO PAIN", parameter: "5+", expectOK: true, expected: mechanics.NumberValue(5)},
		{name: "plain number", ability: "INVULNERABLE SAVE", parameter: "4", expectOK: true, expected: mechanics.NumberValue(4)},
		{name: "dice pass through", ability: "SUSTAINED HITS", parameter: "d3", expectOK: true, expected: mechanics.StringValue("D3")},
		{name: "parameter in name", ability: "feel no pain 6+", expectOK: true, expected: mechanics.NumberValue(6)},
		{name: "missing parameter", ability: "FEEL NO PAIN", expectOK: false},
		{name: "unknown ability", ability: "OATH OF MOMENT", expectOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, ok := r.Resolve(tt.ability, tt.parameter)
			require.Equal(t, tt.expectOK, ok)
			if !ok {
				assert.Empty(t, out)
				return
			}
			require.Len(t, out, 1)
			assert.True(t, tt.expected.Equal(out[0].Value), "got %s", out[0].Value)
			assert.Equal(t, tt.expected.Kind(), out[0].Value.Kind())
		})
	}
}

func TestResolve_StaticIgnoresParameter(t *testing.T) {
	r, err := coreabilities.Default()
	require.NoError(t, err)

	out, entry, ok := r.Resolve("LETHAL HITS", "")
	require.True(t, ok)
	assert.Equal(t, army.TargetAttacksMade, entry.Target)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"LETHAL HITS"}, out[0].Abilities)
}

func TestResolve_DoesNotMutateTemplate(t *testing.T) {
	r, err := coreabilities.Default()
	require.NoError(t, err)

	first, _, ok := r.Resolve("FEEL NO PAIN", "5+")
	require.True(t, ok)
	first[0].Attribute = mechanics.AttributeSave

	second, _, ok := r.Resolve("FEEL NO PAIN", "6+")
	require.True(t, ok)
	assert.Equal(t, mechanics.AttributeFeelNoPain, second[0].Attribute)
	assert.True(t, mechanics.NumberValue(6).Equal(second[0].Value))

	entry, ok := r.Get("FEEL NO PAIN")
	require.True(t, ok)
	text, _ := entry.Mechanics[0].Value.Text()
	assert.Equal(t, coreabilities.Placeholder, text)
}

func TestSubstitute_Conditions(t *testing.T) {
	template := mechanics.NewBuilder(mechanics.EntityThisUnit, mechanics.EffectRollBonus).
		OnAttribute(mechanics.AttributeHitRoll).
		WithNumber(1).
		When(mechanics.Condition{
			Entity:    mechanics.EntityTargetModel,
			Attribute: mechanics.AttributeToughness,
			Operator:  mechanics.OperatorGreaterThanOrEqualTo,
			Value:     mechanics.StringValue(coreabilities.Placeholder),
		}).
		Build()

	out := coreabilities.Substitute(template, "8")
	assert.True(t, mechanics.NumberValue(8).Equal(out.Conditions[0].Value))

	text, ok := template.Conditions[0].Value.Text()
	require.True(t, ok)
	assert.Equal(t, coreabilities.Placeholder, text)
}

func TestSubstitute_Embedded(t *testing.T) {
	template := mechanics.NewBuilder(mechanics.EntityThisWeapon, mechanics.EffectMortalWounds).
		WithToken("D" + coreabilities.Placeholder).
		Build()

	out := coreabilities.Substitute(template, "6")
	assert.Equal(t, "D6", out.Value.String())
}

func TestSplitNameParameter(t *testing.T) {
	tests := []struct {
		in        string
		name      string
		parameter string
	}{
		{in: "FEEL NO PAIN 5+", name: "FEEL NO PAIN", parameter: "5+"},
		{in: "Sustained Hits D3", name: "SUSTAINED HITS", parameter: "D3"},
		{in: "DEADLY DEMISE D6+2", name: "DEADLY DEMISE", parameter: "D6+2"},
		{in: "SUSTAINED HITS 2", name: "SUSTAINED HITS", parameter: "2"},
		{in: "STEALTH", name: "STEALTH", parameter: ""},
		{in: "DEEP STRIKE", name: "DEEP STRIKE", parameter: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, parameter := coreabilities.SplitNameParameter(tt.in)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.parameter, parameter)
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	r := coreabilities.NewRegistry()

	err := r.Register("", coreabilities.Entry{})
	assert.True(t, errors.IsInvalidArgument(err))

	err = r.Register("EMPTY", coreabilities.Entry{Kind: coreabilities.KindStatic})
	assert.True(t, errors.IsValidation(err))

	err = r.Register("ODD", coreabilities.Entry{
		Kind:      "sometimes",
		Mechanics: []mechanics.Mechanic{testutils.CreateTestHitModifier(1)},
	})
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, r.Register("  oath   of moment ", coreabilities.Entry{
		Mechanics: []mechanics.Mechanic{testutils.CreateTestHitModifier(1)},
	}))
	entry, ok := r.Get("OATH OF MOMENT")
	require.True(t, ok)
	assert.Equal(t, coreabilities.KindStatic, entry.Kind)
}

func TestParse_Invalid(t *testing.T) {
	_, err := coreabilities.Parse([]byte(`{"STEALTH": [`))
	assert.True(t, errors.IsValidation(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abilities.json")
	doc := `{"OATH OF MOMENT": {"kind": "static", "target": "attacksMade", "mechanics": [
		{"entity": "thisUnit", "effect": "reroll", "attribute": "hitRoll", "value": true}
	]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	r, err := coreabilities.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	_, err = coreabilities.Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a, err := coreabilities.Default()
	require.NoError(t, err)
	b, err := coreabilities.Default()
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)

	stealth, ok := b.Get("STEALTH")
	require.True(t, ok)
	stealth.Mechanics[0].Phases = []mechanics.Phase{mechanics.PhaseFight}
	require.NoError(t, b.Register("STEALTH", stealth))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	assert.NotEqual(t, coreabilities.NewRegistry().Fingerprint(), a.Fingerprint())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r, err := coreabilities.Default()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, ok := r.Resolve("FEEL NO PAIN", "5+")
			assert.True(t, ok)
			_ = r.Keys()
		}()
	}
	wg.Wait()
}
