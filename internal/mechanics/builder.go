package mechanics

// Builder helps create mechanics
type Builder struct {
	mechanic Mechanic
}

// NewBuilder creates a new mechanic builder
func NewBuilder(entity Entity, effect Effect) *Builder {
	return &Builder{
		mechanic: Mechanic{
			Entity: entity,
			Effect: effect,
		},
	}
}

// OnAttribute sets the affected roll or characteristic
func (b *Builder) OnAttribute(attribute Attribute) *Builder {
	b.mechanic.Attribute = attribute
	return b
}

// WithValue sets the payload
func (b *Builder) WithValue(v Value) *Builder {
	b.mechanic.Value = v
	return b
}

// WithNumber sets a numeric payload
func (b *Builder) WithNumber(n int) *Builder {
	return b.WithValue(NumberValue(n))
}

// WithToken sets a string payload
func (b *Builder) WithToken(token string) *Builder {
	return b.WithValue(StringValue(token))
}

// GrantingAbilities sets the abilities an addsAbility mechanic grants
func (b *Builder) GrantingAbilities(names ...string) *Builder {
	b.mechanic.Abilities = append(b.mechanic.Abilities, names...)
	return b
}

// GrantingKeywords sets the keywords an addsKeyword mechanic grants
func (b *Builder) GrantingKeywords(keywords ...string) *Builder {
	b.mechanic.Keywords = append(b.mechanic.Keywords, keywords...)
	return b
}

// When adds a guard condition
func (b *Builder) When(condition Condition) *Builder {
	b.mechanic.Conditions = append(b.mechanic.Conditions, condition)
	return b
}

// WhenState adds a state-flag condition
func (b *Builder) WhenState(entity Entity, state State, value bool) *Builder {
	return b.When(StateCondition(entity, state, value))
}

// WhenKeyword adds a keyword existence condition
func (b *Builder) WhenKeyword(entity Entity, operator Operator, keywords ...string) *Builder {
	return b.When(KeywordCondition(entity, operator, keywords...))
}

// InPhases restricts the mechanic to phases
func (b *Builder) InPhases(phases ...Phase) *Builder {
	b.mechanic.Phases = append(b.mechanic.Phases, phases...)
	return b
}

// Build returns the constructed mechanic
func (b *Builder) Build() Mechanic {
	return b.mechanic.Clone()
}

// StateCondition tests a state flag for equality
func StateCondition(entity Entity, state State, value bool) Condition {
	return Condition{
		Entity:   entity,
		State:    state,
		Operator: OperatorEquals,
		Value:    BoolValue(value),
	}
}

// KeywordCondition tests keyword membership
func KeywordCondition(entity Entity, operator Operator, keywords ...string) Condition {
	return Condition{
		Entity:   entity,
		Keywords: keywords,
		Operator: operator,
	}
}

// Common mechanic builders

// BuildCoverBonus creates the core rule benefit of cover: the save roll
// improves by one against ranged attacks.
func BuildCoverBonus() Mechanic {
	return NewBuilder(EntityTargetUnit, EffectRollBonus).
		OnAttribute(AttributeSaveRoll).
		WithNumber(1).
		InPhases(PhaseShooting).
		Build()
}
