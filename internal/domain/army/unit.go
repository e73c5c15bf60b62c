package army

import (
	"strings"

	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

// Characteristics is a model's datasheet profile. Zero InvulnSave or FeelNoPain means none.
type Characteristics struct {
	Movement         int `json:"m" yaml:"m"`
	Toughness        int `json:"t" yaml:"t"`
	Save             int `json:"sv" yaml:"sv"`
	InvulnSave       int `json:"invSv,omitempty" yaml:"invSv,omitempty"`
	Wounds           int `json:"w" yaml:"w"`
	Leadership       int `json:"ld" yaml:"ld"`
	ObjectiveControl int `json:"oc" yaml:"oc"`
	FeelNoPain       int `json:"fnp,omitempty" yaml:"fnp,omitempty"`
}

// Model is one model instance in a unit
type Model struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// SourceUnit is the datasheet the model came from. In a merged leader and
	// bodyguard unit it tells the leader's models apart from the bodyguard's.
	SourceUnit      string          `json:"sourceUnit,omitempty" yaml:"sourceUnit,omitempty"`
	Characteristics Characteristics `json:"characteristics" yaml:"characteristics"`
	Keywords        []string        `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// AttachedLeader records a leader merged into a bodyguard unit
type AttachedLeader struct {
	Name string `json:"name" yaml:"name"`
}

// Unit is a unit on the battlefield as seen by one resolution
type Unit struct {
	ID             string           `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	Keywords       []string         `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Abilities      []Ability        `json:"abilities,omitempty" yaml:"abilities,omitempty"`
	Models         []Model          `json:"models,omitempty" yaml:"models,omitempty"`
	Leaders        []AttachedLeader `json:"leaders,omitempty" yaml:"leaders,omitempty"`
	Enhancement    *Enhancement     `json:"enhancement,omitempty" yaml:"enhancement,omitempty"`
	DamagedProfile *DamagedProfile  `json:"damagedProfile,omitempty" yaml:"damagedProfile,omitempty"`
	Wargear        []Wargear        `json:"wargear,omitempty" yaml:"wargear,omitempty"`
	Weapons        []Weapon         `json:"weapons,omitempty" yaml:"weapons,omitempty"`
	State          CombatState      `json:"state" yaml:"state"`
	// StartingStrength defaults to the number of models when zero
	StartingStrength int `json:"startingStrength,omitempty" yaml:"startingStrength,omitempty"`
}

// HasKeyword checks the unit's own keywords, case-insensitively
func (u *Unit) HasKeyword(keyword string) bool {
	for _, k := range u.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// AliveModels returns models whose instance id is not in the dead list
func (u *Unit) AliveModels() []Model {
	alive := make([]Model, 0, len(u.Models))
	for _, m := range u.Models {
		if !u.State.IsDead(m.ID) {
			alive = append(alive, m)
		}
	}
	return alive
}

// Starting returns the unit's starting strength
func (u *Unit) Starting() int {
	if u.StartingStrength > 0 {
		return u.StartingStrength
	}
	return len(u.Models)
}

// BelowStartingStrength reports whether any model has been destroyed
func (u *Unit) BelowStartingStrength() bool {
	return len(u.AliveModels()) < u.Starting()
}

// BelowHalfStrength reports whether fewer than half the starting models remain.
// A single-model unit is below half strength once its damaged flag is set.
func (u *Unit) BelowHalfStrength() bool {
	if u.Starting() == 1 {
		return u.State.Damaged
	}
	return len(u.AliveModels())*2 < u.Starting()
}

// IsLeading reports whether any attached leader is still alive
func (u *Unit) IsLeading() bool {
	for _, l := range u.Leaders {
		if u.LeaderAlive(l.Name) {
			return true
		}
	}
	return false
}

// LeaderAlive reports whether the named leader is attached and has a living model
func (u *Unit) LeaderAlive(name string) bool {
	attached := false
	for _, l := range u.Leaders {
		if strings.EqualFold(l.Name, name) {
			attached = true
			break
		}
	}
	if !attached {
		return false
	}
	return u.hasLivingModelFrom(name)
}

// BearerAlive reports whether the bearer of an enhancement still has a living
// model. For a merged unit where the bearer is an attached leader only that
// leader's own models count.
func (u *Unit) BearerAlive(bearer string) bool {
	for _, l := range u.Leaders {
		if strings.EqualFold(l.Name, bearer) {
			return u.hasLivingModelFrom(bearer)
		}
	}
	if bearer == "" || strings.EqualFold(bearer, u.Name) {
		return len(u.AliveModels()) > 0
	}
	return u.hasLivingModelFrom(bearer)
}

func (u *Unit) hasLivingModelFrom(sourceUnit string) bool {
	for _, m := range u.Models {
		if strings.EqualFold(m.SourceUnit, sourceUnit) && !u.State.IsDead(m.ID) {
			return true
		}
	}
	return false
}

// FindModel returns the model with the given instance id
func (u *Unit) FindModel(id string) (*Model, bool) {
	for i := range u.Models {
		if u.Models[i].ID == id {
			return &u.Models[i], true
		}
	}
	return nil, false
}

// FindWeapon returns the weapon profile with the given name
func (u *Unit) FindWeapon(name string) (*Weapon, bool) {
	for i := range u.Weapons {
		if strings.EqualFold(u.Weapons[i].Name, name) {
			return &u.Weapons[i], true
		}
	}
	return nil, false
}

// Enhancement is an upgrade purchased for a character
type Enhancement struct {
	Name string `json:"name" yaml:"name"`
	// Bearer is the name of the unit that carries the enhancement
	Bearer string `json:"bearer" yaml:"bearer"`
	// Target defaults to attacks made
	Target    AbilityTarget        `json:"target,omitempty" yaml:"target,omitempty"`
	Mechanics []mechanics.Mechanic `json:"mechanics,omitempty" yaml:"mechanics,omitempty"`
}

// DamagedProfile is the mechanic set that applies once a unit crosses its wound bracket
type DamagedProfile struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Mechanics   []mechanics.Mechanic `json:"mechanics,omitempty" yaml:"mechanics,omitempty"`
}

// Wargear is equipment that is itself a named bundle of abilities
type Wargear struct {
	Name      string    `json:"name" yaml:"name"`
	Abilities []Ability `json:"abilities,omitempty" yaml:"abilities,omitempty"`
}
