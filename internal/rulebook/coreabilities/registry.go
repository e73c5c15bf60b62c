package coreabilities

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
)

//go:embed registry.json
var defaultDocument []byte

// Placeholder is replaced with an ability instance's parameter
const Placeholder = "{parameter}"

// Well-known core abilities the engine looks up directly
const (
	BenefitOfCover = "BENEFIT OF COVER"
)

// Kind says whether an entry's mechanics need a parameter
type Kind string

const (
	KindStatic        Kind = "static"
	KindParameterized Kind = "parameterized"
)

// Entry is one core ability template
type Entry struct {
	Kind        Kind                 `json:"kind"`
	Target      army.AbilityTarget   `json:"target,omitempty"`
	Description string               `json:"description,omitempty"`
	Mechanics   []mechanics.Mechanic `json:"mechanics"`
}

// Registry maps uppercased ability names to templates. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Default returns a registry loaded from the built-in document
func Default() (*Registry, error) {
	return Parse(defaultDocument)
}

// Load reads a registry document from disk
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read core ability registry %s", path)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load core ability registry %s", path)
	}
	return r, nil
}

// Parse decodes a registry document
func Parse(data []byte) (*Registry, error) {
	var doc map[string]Entry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "invalid core ability document")
	}

	r := NewRegistry()
	for name, entry := range doc {
		if err := r.Register(name, entry); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds or replaces an entry
func (r *Registry) Register(name string, entry Entry) error {
	key := normalize(name)
	if key == "" {
		return errors.InvalidArgument("core ability name is required")
	}

	switch entry.Kind {
	case KindStatic, KindParameterized:
	case "":
		entry.Kind = KindStatic
	default:
		return errors.Validationf("core ability %s has unknown kind %q", key, entry.Kind).
			WithMeta("ability", key)
	}

	if len(entry.Mechanics) == 0 {
		return errors.Validationf("core ability %s has no mechanics", key).
			WithMeta("ability", key)
	}

	stored := entry
	stored.Mechanics = cloneAll(entry.Mechanics)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = stored
	return nil
}

// Get returns a copy of an entry
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[normalize(name)]
	if !ok {
		return Entry{}, false
	}
	entry.Mechanics = cloneAll(entry.Mechanics)
	return entry, true
}

// Keys returns the registered names in sorted order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint hashes the registered entries in key order. Registries with the
// same content share a fingerprint.
func (r *Registry) Fingerprint() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := xxhash.New()
	for _, k := range keys {
		data, err := json.Marshal(r.entries[k])
		if err != nil {
			data = []byte(fmt.Sprintf("%v", r.entries[k]))
		}
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(data)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Resolve returns the mechanics of a named core ability with the parameter
// substituted. A name carrying its own parameter ("FEEL NO PAIN 5+") is split
// when no explicit parameter is given. It returns false for unknown abilities
// and for parameterized abilities without a parameter.
func (r *Registry) Resolve(name, parameter string) ([]mechanics.Mechanic, Entry, bool) {
	entry, ok := r.Get(name)
	if !ok && strings.TrimSpace(parameter) == "" {
		base, param := SplitNameParameter(name)
		if param != "" {
			entry, ok = r.Get(base)
			parameter = param
		}
	}
	if !ok {
		return nil, Entry{}, false
	}

	if entry.Kind == KindStatic {
		return entry.Mechanics, entry, true
	}

	parameter = strings.TrimSpace(parameter)
	if parameter == "" {
		return nil, Entry{}, false
	}

	out := make([]mechanics.Mechanic, len(entry.Mechanics))
	for i, m := range entry.Mechanics {
		out[i] = Substitute(m, parameter)
	}
	return out, entry, true
}

// Substitute returns a copy of the template with every placeholder value
// replaced by the parameter. The template itself is left untouched.
func Substitute(template mechanics.Mechanic, parameter string) mechanics.Mechanic {
	out := template.Clone()
	out.Value = substituteValue(out.Value, parameter)
	for i := range out.Conditions {
		out.Conditions[i].Value = substituteValue(out.Conditions[i].Value, parameter)
	}
	return out
}

func substituteValue(v mechanics.Value, parameter string) mechanics.Value {
	text, ok := v.Text()
	if !ok || !strings.Contains(text, Placeholder) {
		return v
	}
	if strings.TrimSpace(text) == Placeholder {
		return Coerce(parameter)
	}
	return mechanics.StringValue(strings.ReplaceAll(text, Placeholder, parameter))
}

// Coerce turns "5" or "5+" into the number 5 and leaves dice tokens as strings
func Coerce(parameter string) mechanics.Value {
	if n, ok := mechanics.ParseNumber(parameter); ok {
		return mechanics.NumberValue(n)
	}
	return mechanics.StringValue(strings.ToUpper(strings.TrimSpace(parameter)))
}

var parameterPattern = regexp.MustCompile(`^(\d+\+?|\d*D\d+(\+\d+)?)$`)

// SplitNameParameter splits a trailing numeric or dice parameter off an
// ability name: "FEEL NO PAIN 5+" gives ("FEEL NO PAIN", "5+").
func SplitNameParameter(name string) (string, string) {
	fields := strings.Fields(strings.ToUpper(name))
	if len(fields) < 2 {
		return strings.Join(fields, " "), ""
	}

	last := fields[len(fields)-1]
	if !parameterPattern.MatchString(last) {
		return strings.Join(fields, " "), ""
	}
	return strings.Join(fields[:len(fields)-1], " "), last
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

func cloneAll(in []mechanics.Mechanic) []mechanics.Mechanic {
	out := make([]mechanics.Mechanic, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
