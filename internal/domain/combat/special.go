package combat

import "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"

// Names of special effects
const (
	EffectLethalHits        = "LETHAL HITS"
	EffectSustainedHits     = "SUSTAINED HITS"
	EffectDevastatingWounds = "DEVASTATING WOUNDS"
	EffectPrecision         = "PRECISION"
	EffectReroll            = "REROLL"
	EffectAnti              = "ANTI"
	EffectBlast             = "BLAST"
	EffectAssault           = "ASSAULT"
	EffectHazardous         = "HAZARDOUS"
	EffectIndirectFire      = "INDIRECT FIRE"
)

// SpecialEffect is a named qualifier with no plain modifier form
type SpecialEffect struct {
	Name string `json:"name"`
	// Value carries N for SUSTAINED HITS N and ANTI-X N+
	Value mechanics.Value `json:"value"`
	// Keyword is the keyword an ANTI effect keys on
	Keyword string `json:"keyword,omitempty"`
	// Attribute is the roll a REROLL effect applies to
	Attribute mechanics.Attribute    `json:"attribute,omitempty"`
	Source    mechanics.EffectSource `json:"source"`
}
