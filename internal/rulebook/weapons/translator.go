package weapons

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	m "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// Recognised weapon attributes
const (
	KeywordHeavy             = "HEAVY"
	KeywordTorrent           = "TORRENT"
	KeywordAssault           = "ASSAULT"
	KeywordRapidFire         = "RAPID FIRE"
	KeywordLance             = "LANCE"
	KeywordLethalHits        = "LETHAL HITS"
	KeywordSustainedHits     = "SUSTAINED HITS"
	KeywordDevastatingWounds = "DEVASTATING WOUNDS"
	KeywordIgnoresCover      = "IGNORES COVER"
	KeywordPrecision         = "PRECISION"
	KeywordMelta             = "MELTA"
	KeywordHazardous         = "HAZARDOUS"
	KeywordBlast             = "BLAST"
	KeywordIndirectFire      = "INDIRECT FIRE"
	KeywordTwinLinked        = "TWIN-LINKED"
	keywordAntiPrefix        = "ANTI-"
)

var antiPattern = regexp.MustCompile(`^ANTI-(.+)\s+(\d+)\+$`)

// Translation is what a single weapon attribute becomes. Either part may be nil;
// an unrecognised attribute translates to neither.
type Translation struct {
	Keyword  string
	Mechanic *m.Mechanic
	Effect   *combat.SpecialEffect
}

// IsEmpty reports whether the attribute was not recognised
func (t Translation) IsEmpty() bool {
	return t.Mechanic == nil && t.Effect == nil
}

// Source attributes a translated mechanic to its weapon attribute
func (t Translation) Source() m.EffectSource {
	return m.NewSource(m.SourceWeaponAttr, t.Keyword)
}

// Normalize upper-cases an attribute and collapses whitespace
func Normalize(keyword string) string {
	return strings.Join(strings.Fields(strings.ToUpper(keyword)), " ")
}

// TranslateAll translates a weapon's keyword list, dropping unrecognised entries
func TranslateAll(keywords []string) []Translation {
	out := make([]Translation, 0, len(keywords))
	for _, k := range keywords {
		if t := Translate(k); !t.IsEmpty() {
			out = append(out, t)
		}
	}
	return out
}

// Translate maps one weapon attribute to its mechanic and special-effect tag
func Translate(keyword string) Translation {
	kw := Normalize(keyword)
	t := Translation{Keyword: kw}

	switch kw {
	case KeywordHeavy:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectRollBonus).
			OnAttribute(m.AttributeHitRoll).
			WithNumber(1).
			WhenState(m.EntityThisUnit, m.StateStationary, true))
	case KeywordTorrent:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectAutoSuccess).
			OnAttribute(m.AttributeHitRoll).
			WithValue(m.BoolValue(true)))
	case KeywordAssault:
		t.Effect = tag(combat.EffectAssault, kw)
	case KeywordLance:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectRollBonus).
			OnAttribute(m.AttributeWoundRoll).
			WithNumber(1).
			WhenState(m.EntityThisUnit, m.StateChargedThisTurn, true))
	case KeywordLethalHits, KeywordDevastatingWounds, KeywordPrecision:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectAddsAbility).
			GrantingAbilities(kw))
	case KeywordIgnoresCover:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectIgnoresModifier).
			OnAttribute(m.AttributeSaveRoll).
			WithToken(m.ModifierCover))
	case KeywordHazardous:
		t.Effect = tag(combat.EffectHazardous, kw)
	case KeywordBlast:
		t.Effect = tag(combat.EffectBlast, kw)
	case KeywordIndirectFire:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectRollPenalty).
			OnAttribute(m.AttributeHitRoll).
			WithNumber(1).
			WhenState(m.EntityThisUnit, m.StateTargetNotVisible, true))
		t.Effect = tag(combat.EffectIndirectFire, kw)
	case KeywordTwinLinked:
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectReroll).
			OnAttribute(m.AttributeWoundRoll).
			WithValue(m.BoolValue(true)))
	default:
		translateParameterised(&t)
	}

	return t
}

func translateParameterised(t *Translation) {
	kw := t.Keyword

	if param, ok := parameterOf(kw, KeywordRapidFire); ok {
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectRollBonus).
			OnAttribute(m.AttributeAttacks).
			WithValue(param).
			WhenState(m.EntityThisUnit, m.StateWithinHalfRange, true))
		return
	}

	if param, ok := parameterOf(kw, KeywordSustainedHits); ok {
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectAddsAbility).
			GrantingAbilities(KeywordSustainedHits).
			WithValue(param))
		return
	}

	if param, ok := parameterOf(kw, KeywordMelta); ok {
		t.Mechanic = mechanic(m.NewBuilder(m.EntityThisWeapon, m.EffectRollBonus).
			OnAttribute(m.AttributeDamage).
			WithValue(param).
			WhenState(m.EntityThisUnit, m.StateWithinHalfRange, true))
		return
	}

	if strings.HasPrefix(kw, keywordAntiPrefix) {
		keyword, threshold, ok := ParseAnti(kw)
		if !ok {
			return
		}
		effect := tag(combat.EffectAnti, kw)
		effect.Keyword = keyword
		effect.Value = m.NumberValue(threshold)
		t.Effect = effect
	}
}

// ParseAnti reads "ANTI-<KEYWORD> <N>+" into the keyword and threshold
func ParseAnti(keyword string) (string, int, bool) {
	match := antiPattern.FindStringSubmatch(Normalize(keyword))
	if match == nil {
		return "", 0, false
	}
	threshold, err := strconv.Atoi(match[2])
	if err != nil || threshold < 2 || threshold > 6 {
		return "", 0, false
	}
	return strings.TrimSpace(match[1]), threshold, true
}

// parameterOf splits "SUSTAINED HITS 2" into its parameter. Numeric parameters
// become numbers and dice tokens stay strings.
func parameterOf(keyword, prefix string) (m.Value, bool) {
	if !strings.HasPrefix(keyword, prefix+" ") {
		return m.Value{}, false
	}
	param := strings.TrimSpace(strings.TrimPrefix(keyword, prefix))
	if param == "" {
		return m.Value{}, false
	}
	if n, ok := m.ParseNumber(param); ok {
		return m.NumberValue(n), true
	}
	return m.StringValue(param), true
}

func mechanic(b *m.Builder) *m.Mechanic {
	built := b.Build()
	return &built
}

func tag(name, keyword string) *combat.SpecialEffect {
	return &combat.SpecialEffect{
		Name:   name,
		Source: m.NewSource(m.SourceWeaponAttr, keyword),
	}
}
