package army

import "github.com/KirkDiggler/wargame-mechanics/internal/mechanics"

// Movement is what a unit did in its movement phase
type Movement string

const (
	MovementHold     Movement = "hold"
	MovementNormal   Movement = "normal"
	MovementAdvance  Movement = "advance"
	MovementFallBack Movement = "fallBack"
)

// CombatState is the battlefield state of a unit. A resolution treats it as
// read-only.
type CombatState struct {
	Movement          Movement `json:"movement,omitempty" yaml:"movement,omitempty"`
	BattleShocked     bool     `json:"battleShocked,omitempty" yaml:"battleShocked,omitempty"`
	InCover           bool     `json:"inCover,omitempty" yaml:"inCover,omitempty"`
	InEngagementRange bool     `json:"inEngagementRange,omitempty" yaml:"inEngagementRange,omitempty"`
	ChargedThisTurn   bool     `json:"chargedThisTurn,omitempty" yaml:"chargedThisTurn,omitempty"`
	// Damaged is set once the unit crosses its wound bracket
	Damaged      bool     `json:"damaged,omitempty" yaml:"damaged,omitempty"`
	DeadModelIDs []string `json:"deadModelIds,omitempty" yaml:"deadModelIds,omitempty"`
	// Flags holds faction or mission specific state read by name
	Flags map[string]mechanics.Value `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// IsStationary reports whether the unit remained stationary
func (s CombatState) IsStationary() bool {
	return s.Movement == MovementHold
}

// IsDead reports whether a model instance has been destroyed
func (s CombatState) IsDead(modelID string) bool {
	for _, id := range s.DeadModelIDs {
		if id == modelID {
			return true
		}
	}
	return false
}

// Flag looks up a generic state flag
func (s CombatState) Flag(name string) (mechanics.Value, bool) {
	v, ok := s.Flags[name]
	return v, ok
}
