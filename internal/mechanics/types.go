package mechanics

// Entity identifies which side of an interaction a mechanic or condition refers to
type Entity string

const (
	EntityThisArmy   Entity = "thisArmy"
	EntityThisUnit   Entity = "thisUnit"
	EntityThisModel  Entity = "thisModel"
	EntityThisWeapon Entity = "thisWeapon"

	EntityOpponentArmy Entity = "opponentArmy"
	EntityOpposingUnit Entity = "opposingUnit"
	EntityTargetUnit   Entity = "targetUnit"
	EntityTargetModel  Entity = "targetModel"
)

// IsAttackerSide reports whether the entity resolves to the attacking unit.
// Evaluation is always attacker-relative: every "this" tag is the attacker and
// every target/opposing/opponent tag is the defender.
func (e Entity) IsAttackerSide() bool {
	switch e {
	case EntityThisArmy, EntityThisUnit, EntityThisModel, EntityThisWeapon:
		return true
	}
	return false
}

// Effect describes what kind of rule effect a mechanic has
type Effect string

const (
	EffectRollBonus       Effect = "rollBonus"
	EffectRollPenalty     Effect = "rollPenalty"
	EffectStaticNumber    Effect = "staticNumber"
	EffectAddsKeyword     Effect = "addsKeyword"
	EffectAddsAbility     Effect = "addsAbility"
	EffectReroll          Effect = "reroll"
	EffectAutoSuccess     Effect = "autoSuccess"
	EffectMortalWounds    Effect = "mortalWounds"
	EffectIgnoresModifier Effect = "ignoresModifier"
	EffectHalveDamage     Effect = "halveDamage"
	EffectMinDamage       Effect = "minDamage"
)

// Attribute is the roll, characteristic or weapon stat a mechanic affects
type Attribute string

const (
	// Rolls
	AttributeHitRoll   Attribute = "hitRoll"
	AttributeWoundRoll Attribute = "woundRoll"
	AttributeSaveRoll  Attribute = "saveRoll"

	// Model characteristics
	AttributeMovement         Attribute = "m"
	AttributeToughness        Attribute = "t"
	AttributeSave             Attribute = "sv"
	AttributeInvulnSave       Attribute = "invSv"
	AttributeWounds           Attribute = "w"
	AttributeLeadership       Attribute = "ld"
	AttributeObjectiveControl Attribute = "oc"
	AttributeFeelNoPain       Attribute = "fnp"

	// Weapon stats
	AttributeRange    Attribute = "range"
	AttributeAttacks  Attribute = "a"
	AttributeSkill    Attribute = "skill"
	AttributeStrength Attribute = "s"
	AttributeAP       Attribute = "ap"
	AttributeDamage   Attribute = "d"
)

// LowerIsBetter reports whether a smaller value of the attribute is the better one.
// Save-like characteristics are roll targets, so 4+ beats 5+.
func (a Attribute) LowerIsBetter() bool {
	switch a {
	case AttributeSave, AttributeInvulnSave, AttributeFeelNoPain, AttributeSaveRoll:
		return true
	}
	return false
}

// Operator compares a condition's subject against its value
type Operator string

const (
	OperatorEquals               Operator = "equals"
	OperatorNotEquals            Operator = "notEquals"
	OperatorGreaterThan          Operator = "greaterThan"
	OperatorGreaterThanOrEqualTo Operator = "greaterThanOrEqualTo"
	OperatorLessThan             Operator = "lessThan"
	OperatorLessThanOrEqualTo    Operator = "lessThanOrEqualTo"
	OperatorIncludes             Operator = "includes"
	OperatorNotIncludes          Operator = "notIncludes"
)

// State names a boolean or categorical flag a condition can test
type State string

const (
	StateStationary            State = "isStationary"
	StateBattleShocked         State = "isBattleShocked"
	StateInCover               State = "inCover"
	StateInEngagementRange     State = "inEngagementRange"
	StateChargedThisTurn       State = "chargedThisTurn"
	StateBelowHalfStrength     State = "belowHalfStrength"
	StateBelowStartingStrength State = "belowStartingStrength"
	StateDamaged               State = "isDamaged"
	StateShootingPhase         State = "isShootingPhase"
	StateFightPhase            State = "isFightPhase"
	StateLeadingUnit           State = "isLeadingUnit"

	// Faction or weapon specific flags read from the generic flag bag
	StateWithinHalfRange  State = "withinHalfRange"
	StateTargetNotVisible State = "targetNotVisible"
)

// Phase of the battle round
type Phase string

const (
	PhaseCommand  Phase = "command"
	PhaseMovement Phase = "movement"
	PhaseShooting Phase = "shooting"
	PhaseCharge   Phase = "charge"
	PhaseFight    Phase = "fight"
)

// ModifierCover is the modifier type named by ignoresModifier mechanics that cancel cover
const ModifierCover = "cover"
