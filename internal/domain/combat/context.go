package combat

import (
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// AttackerSide is the attacking half of a resolution
type AttackerSide struct {
	Unit   *army.Unit   `json:"unit"`
	Weapon *army.Weapon `json:"weapon"`
	// WeaponCount is how many models fire or swing this profile
	WeaponCount int        `json:"weaponCount"`
	ModelCount  int        `json:"modelCount"`
	Army        *army.Army `json:"army,omitempty"`
}

// DefenderSide is the defending half of a resolution
type DefenderSide struct {
	Unit        *army.Unit  `json:"unit"`
	TargetModel *army.Model `json:"targetModel"`
	ModelCount  int         `json:"modelCount"`
	Army        *army.Army  `json:"army,omitempty"`
}

// Context is the immutable snapshot one resolution is computed from
type Context struct {
	Phase      mechanics.Phase  `json:"phase"`
	Overwatch  bool             `json:"overwatch,omitempty"`
	Attacker   AttackerSide     `json:"attacker"`
	Defender   DefenderSide     `json:"defender"`
	Stratagems []army.Stratagem `json:"stratagems,omitempty"`
}

// ContextConfig holds the parts a context is assembled from
type ContextConfig struct {
	Phase        mechanics.Phase
	Overwatch    bool
	Attacker     *army.Unit
	Weapon       *army.Weapon
	WeaponCount  int // Optional, defaults to 1
	AttackerArmy *army.Army
	Defender     *army.Unit
	TargetModel  *army.Model
	DefenderArmy *army.Army
	Stratagems   []army.Stratagem
}

// NewContext assembles a context. It returns false when the attacker unit,
// weapon, defender unit, or target model is missing; callers should then ask
// for a target instead of resolving.
func NewContext(cfg *ContextConfig) (*Context, bool) {
	if cfg == nil || cfg.Attacker == nil || cfg.Weapon == nil || cfg.Defender == nil || cfg.TargetModel == nil {
		return nil, false
	}

	weaponCount := cfg.WeaponCount
	if weaponCount <= 0 {
		weaponCount = 1
	}

	return &Context{
		Phase:     cfg.Phase,
		Overwatch: cfg.Overwatch,
		Attacker: AttackerSide{
			Unit:        cfg.Attacker,
			Weapon:      cfg.Weapon,
			WeaponCount: weaponCount,
			ModelCount:  len(cfg.Attacker.AliveModels()),
			Army:        cfg.AttackerArmy,
		},
		Defender: DefenderSide{
			Unit:        cfg.Defender,
			TargetModel: cfg.TargetModel,
			ModelCount:  len(cfg.Defender.AliveModels()),
			Army:        cfg.DefenderArmy,
		},
		Stratagems: cfg.Stratagems,
	}, true
}

// IsComplete reports whether the required references are present
func (c *Context) IsComplete() bool {
	return c != nil && c.Attacker.Unit != nil && c.Attacker.Weapon != nil &&
		c.Defender.Unit != nil && c.Defender.TargetModel != nil
}
