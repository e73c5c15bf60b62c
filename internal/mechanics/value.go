package mechanics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind is the dynamic type held by a Value
type ValueKind int

const (
	KindNone ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// Value is the payload of a mechanic or condition: a boolean, a whole number,
// or a short string token such as a dice expression ("D3") or a name.
type Value struct {
	kind ValueKind
	b    bool
	n    int
	s    string
}

// BoolValue wraps a boolean
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue wraps a whole number
func NumberValue(n int) Value {
	return Value{kind: KindNumber, n: n}
}

// StringValue wraps a string token
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the dynamic type
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether no value was set
func (v Value) IsZero() bool { return v.kind == KindNone }

// Bool returns the boolean payload
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Int returns the numeric payload. Strings such as "5" or "5+" coerce to 5;
// dice tokens do not coerce.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		return ParseNumber(v.s)
	}
	return 0, false
}

// Text returns the string payload
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// String renders the value for display
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.Itoa(v.n)
	case KindString:
		return v.s
	}
	return ""
}

// Equal compares two values. Strings compare case-insensitively and a numeric
// string equals the number it coerces to.
func (v Value) Equal(other Value) bool {
	if v.kind == KindBool || other.kind == KindBool {
		a, okA := v.Bool()
		b, okB := other.Bool()
		return okA && okB && a == b
	}
	if a, ok := v.Int(); ok {
		if b, ok := other.Int(); ok {
			return a == b
		}
	}
	a, okA := v.Text()
	b, okB := other.Text()
	return okA && okB && strings.EqualFold(a, b)
}

// ParseNumber reads "5", "5+" or "-1" as an integer
func ParseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "+")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("failed to decode bool value: %w", err)
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode string value: %w", err)
		}
		*v = StringValue(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("unsupported value %s: %w", string(data), err)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("value %s is not a whole number", string(data))
		}
		*v = NumberValue(int(f))
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNumber:
		return v.n, nil
	case KindString:
		return v.s, nil
	}
	return nil, nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a scalar", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		*v = Value{}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case "!!int":
		var n int
		if err := node.Decode(&n); err != nil {
			return err
		}
		*v = NumberValue(n)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("line %d: value %s is not a whole number", node.Line, node.Value)
		}
		*v = NumberValue(int(f))
	default:
		*v = StringValue(node.Value)
	}
	return nil
}
