package library

import (
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// UnitRef is either the name of a library unit file or an inline unit
type UnitRef struct {
	Name string
	Unit *army.Unit
}

// UnmarshalYAML accepts a scalar name or a unit mapping
func (r *UnitRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Name = node.Value
		return nil
	}
	doc := &unitDocument{}
	if err := decodeNodeStrict(node, doc); err != nil {
		return err
	}
	r.Unit = doc.build()
	return nil
}

// WeaponRef is either the name of one of the attacker's weapons or an inline profile
type WeaponRef struct {
	Name   string
	Weapon *army.Weapon
}

// UnmarshalYAML accepts a scalar name or a weapon mapping
func (r *WeaponRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Name = node.Value
		return nil
	}
	r.Weapon = &army.Weapon{}
	return decodeNodeStrict(node, r.Weapon)
}

// decodeNodeStrict decodes an inline mapping with unknown fields rejected.
// node.Decode does not inherit KnownFields from the outer decoder.
func decodeNodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	return decodeStrict(data, out)
}

// AttackerSpec is the attacking half of a scenario
type AttackerSpec struct {
	Unit        UnitRef    `yaml:"unit"`
	Weapon      WeaponRef  `yaml:"weapon"`
	WeaponCount int        `yaml:"weaponCount,omitempty"`
	ModelCount  int        `yaml:"modelCount,omitempty"`
	Army        *army.Army `yaml:"army,omitempty"`
}

// DefenderSpec is the defending half of a scenario
type DefenderSpec struct {
	Unit UnitRef `yaml:"unit"`
	// TargetModel is a model id; empty picks the first living model
	TargetModel string     `yaml:"targetModel,omitempty"`
	ModelCount  int        `yaml:"modelCount,omitempty"`
	Army        *army.Army `yaml:"army,omitempty"`
}

// Scenario is one attack described in a library file
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Phase       mechanics.Phase  `yaml:"phase"`
	Overwatch   bool             `yaml:"overwatch,omitempty"`
	Attacker    AttackerSpec     `yaml:"attacker"`
	Defender    DefenderSpec     `yaml:"defender"`
	Stratagems  []army.Stratagem `yaml:"stratagems,omitempty"`
}

// IsResolved reports whether every unit and weapon reference has been loaded
func (s *Scenario) IsResolved() bool {
	return s.Attacker.Unit.Unit != nil && s.Attacker.Weapon.Weapon != nil && s.Defender.Unit.Unit != nil
}

// Context assembles the combat context. It returns false when a reference is
// unresolved or the target model does not exist.
func (s *Scenario) Context() (*combat.Context, bool) {
	if !s.IsResolved() {
		return nil, false
	}

	defender := s.Defender.Unit.Unit
	target, ok := targetModel(defender, s.Defender.TargetModel)
	if !ok {
		return nil, false
	}

	phase := s.Phase
	if phase == "" {
		phase = mechanics.PhaseShooting
	}

	ctx, ok := combat.NewContext(&combat.ContextConfig{
		Phase:        phase,
		Overwatch:    s.Overwatch,
		Attacker:     s.Attacker.Unit.Unit,
		Weapon:       s.Attacker.Weapon.Weapon,
		WeaponCount:  s.Attacker.WeaponCount,
		AttackerArmy: s.Attacker.Army,
		Defender:     defender,
		TargetModel:  target,
		DefenderArmy: s.Defender.Army,
		Stratagems:   s.Stratagems,
	})
	if !ok {
		return nil, false
	}

	if s.Attacker.ModelCount > 0 {
		ctx.Attacker.ModelCount = s.Attacker.ModelCount
	}
	if s.Defender.ModelCount > 0 {
		ctx.Defender.ModelCount = s.Defender.ModelCount
	}
	return ctx, true
}

func targetModel(u *army.Unit, id string) (*army.Model, bool) {
	if id != "" {
		return u.FindModel(id)
	}
	for i := range u.Models {
		if !u.State.IsDead(u.Models[i].ID) {
			return &u.Models[i], true
		}
	}
	return nil, false
}
