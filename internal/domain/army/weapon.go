package army

import "strings"

// WeaponType separates ranged from melee profiles
type WeaponType string

const (
	WeaponTypeRanged WeaponType = "ranged"
	WeaponTypeMelee  WeaponType = "melee"
)

// Weapon is one weapon profile
type Weapon struct {
	Name  string     `json:"name" yaml:"name"`
	Type  WeaponType `json:"type" yaml:"type"`
	Range int        `json:"range,omitempty" yaml:"range,omitempty"`
	// Attacks and Damage are dice expressions such as "D6+1" or plain numbers
	Attacks  string `json:"a" yaml:"a"`
	Skill    int    `json:"skill" yaml:"skill"`
	Strength int    `json:"s" yaml:"s"`
	AP       int    `json:"ap" yaml:"ap"`
	Damage   string `json:"d" yaml:"d"`
	// Keywords are weapon attributes such as "HEAVY" or "ANTI-INFANTRY 4+"
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// HasKeyword checks for an exact weapon attribute, case-insensitively
func (w *Weapon) HasKeyword(keyword string) bool {
	for _, k := range w.Keywords {
		if strings.EqualFold(strings.TrimSpace(k), keyword) {
			return true
		}
	}
	return false
}
