package mechanics

// Mechanic is one atomic, declarative rule effect
type Mechanic struct {
	Entity     Entity      `json:"entity" yaml:"entity"`
	Effect     Effect      `json:"effect" yaml:"effect"`
	Attribute  Attribute   `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Abilities  []string    `json:"abilities,omitempty" yaml:"abilities,omitempty"`
	Keywords   []string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Value      Value       `json:"value" yaml:"value"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	// Phases restricts the mechanic to the listed phases. Empty means any phase.
	Phases []Phase `json:"phases,omitempty" yaml:"phases,omitempty"`
}

// Condition is a guard clause attached to a mechanic
type Condition struct {
	Entity    Entity    `json:"entity" yaml:"entity"`
	State     State     `json:"state,omitempty" yaml:"state,omitempty"`
	Keywords  []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Attribute Attribute `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Operator  Operator  `json:"operator" yaml:"operator"`
	Value     Value     `json:"value" yaml:"value"`
}

// Clone returns a deep copy
func (m Mechanic) Clone() Mechanic {
	out := m
	out.Abilities = cloneStrings(m.Abilities)
	out.Keywords = cloneStrings(m.Keywords)
	out.Phases = append([]Phase(nil), m.Phases...)
	if m.Conditions != nil {
		out.Conditions = make([]Condition, len(m.Conditions))
		for i, c := range m.Conditions {
			out.Conditions[i] = c.Clone()
		}
	}
	return out
}

// WithValue returns a copy carrying a different value
func (m Mechanic) WithValue(v Value) Mechanic {
	out := m.Clone()
	out.Value = v
	return out
}

// AppliesInPhase reports whether the phase restriction admits the phase
func (m Mechanic) AppliesInPhase(phase Phase) bool {
	if len(m.Phases) == 0 {
		return true
	}
	for _, p := range m.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (c Condition) Clone() Condition {
	out := c
	out.Keywords = cloneStrings(c.Keywords)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
