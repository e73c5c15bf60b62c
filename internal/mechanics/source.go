package mechanics

import "fmt"

// SourceType represents where a mechanic comes from
type SourceType string

const (
	SourceCoreRule       SourceType = "coreRule"
	SourceFactionAbility SourceType = "factionAbility"
	SourceDetachmentRule SourceType = "detachmentRule"
	SourceUnitAbility    SourceType = "unitAbility"
	SourceLeaderAbility  SourceType = "leaderAbility"
	SourceEnhancement    SourceType = "enhancement"
	SourceWeaponAttr     SourceType = "weaponAttribute"
	SourceWeaponAbility  SourceType = "weaponAbility"
	SourceStratagem      SourceType = "stratagem"
)

// Priority is the fixed ordering class of a source type (lower = earlier).
// It orders attribution for display; conflicting overrides are settled by value.
func (t SourceType) Priority() int {
	switch t {
	case SourceCoreRule:
		return 1
	case SourceFactionAbility:
		return 2
	case SourceDetachmentRule:
		return 3
	case SourceUnitAbility:
		return 4
	case SourceLeaderAbility:
		return 5
	case SourceEnhancement:
		return 6
	case SourceWeaponAttr:
		return 7
	case SourceWeaponAbility:
		return 8
	case SourceStratagem:
		return 9
	}
	return 0
}

// EffectSource attributes a mechanic to the rule that produced it
type EffectSource struct {
	Type SourceType `json:"type"`
	Name string     `json:"name"`
	// UnitName is the originating unit for leader and enhancement attribution
	UnitName       string `json:"unitName,omitempty"`
	Characteristic string `json:"characteristic,omitempty"`
	Priority       int    `json:"priority"`
}

// NewSource creates a source with the priority of its type
func NewSource(sourceType SourceType, name string) EffectSource {
	return EffectSource{
		Type:     sourceType,
		Name:     name,
		Priority: sourceType.Priority(),
	}
}

// WithUnit returns a copy attributed to a unit
func (s EffectSource) WithUnit(unitName string) EffectSource {
	s.UnitName = unitName
	return s
}

// WithCharacteristic returns a copy labelled with a characteristic
func (s EffectSource) WithCharacteristic(characteristic string) EffectSource {
	s.Characteristic = characteristic
	return s
}

// Label renders the source for modifier lists
func (s EffectSource) Label() string {
	if s.UnitName != "" && (s.Type == SourceLeaderAbility || s.Type == SourceEnhancement) {
		return fmt.Sprintf("%s (%s)", s.Name, s.UnitName)
	}
	return s.Name
}
