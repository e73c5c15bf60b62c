// Package library reads unit and scenario documents from YAML files laid out as
// <dir>/units/<name>.yaml and <dir>/scenarios/<name>.yaml.
package library

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

const (
	unitsDir     = "units"
	scenariosDir = "scenarios"
	extension    = ".yaml"
)

// Loader searches its directories in order; the first match wins
type Loader struct {
	dirs []string
}

// NewLoader creates a loader over the given library directories
func NewLoader(dirs ...string) *Loader {
	if len(dirs) == 0 {
		panic("at least one library directory is required")
	}
	return &Loader{dirs: dirs}
}

// Unit loads a unit by name
func (l *Loader) Unit(name string) (*army.Unit, error) {
	data, path, err := l.find(unitsDir, name)
	if err != nil {
		return nil, err
	}

	doc := &unitDocument{}
	if err := decodeStrict(data, doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "invalid unit file").WithMeta("path", path)
	}
	return doc.build(), nil
}

// Scenario loads a scenario by name, or from a file path ending in .yaml,
// and resolves its unit and weapon references
func (l *Loader) Scenario(name string) (*Scenario, error) {
	var (
		data []byte
		path string
		err  error
	)
	if strings.HasSuffix(name, extension) {
		path = name
		data, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("scenario file %s not found", path).WithMeta("path", path)
		}
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to read scenario").WithMeta("path", path)
		}
	} else if data, path, err = l.find(scenariosDir, name); err != nil {
		return nil, err
	}

	s := &Scenario{}
	if err := decodeStrict(data, s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "invalid scenario file").WithMeta("path", path)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), extension)
	}

	if err := l.Resolve(s); err != nil {
		return nil, errors.Wrapf(err, "scenario %s", s.Name)
	}
	return s, nil
}

// Resolve loads named units and looks up named weapons on the attacker
func (l *Loader) Resolve(s *Scenario) error {
	for _, ref := range []*UnitRef{&s.Attacker.Unit, &s.Defender.Unit} {
		if ref.Unit != nil {
			continue
		}
		if ref.Name == "" {
			return errors.Validation("unit reference is empty")
		}
		u, err := l.Unit(ref.Name)
		if err != nil {
			return err
		}
		ref.Unit = u
	}

	if s.Attacker.Weapon.Weapon == nil {
		w, ok := s.Attacker.Unit.Unit.FindWeapon(s.Attacker.Weapon.Name)
		if !ok {
			return errors.NotFoundf("weapon %q not found on %s", s.Attacker.Weapon.Name, s.Attacker.Unit.Unit.Name).
				WithMeta("weapon", s.Attacker.Weapon.Name)
		}
		s.Attacker.Weapon.Weapon = w
	}

	if id := s.Defender.TargetModel; id != "" {
		if _, ok := s.Defender.Unit.Unit.FindModel(id); !ok {
			return errors.NotFoundf("target model %s not found on %s", id, s.Defender.Unit.Unit.Name).WithMeta("model", id)
		}
	}
	return nil
}

// Units lists the unit names available across all directories
func (l *Loader) Units() ([]string, error) {
	return l.list(unitsDir)
}

// Scenarios lists the scenario names available across all directories
func (l *Loader) Scenarios() ([]string, error) {
	return l.list(scenariosDir)
}

func (l *Loader) find(kind, name string) ([]byte, string, error) {
	file := Slug(name) + extension
	for _, dir := range l.dirs {
		path := filepath.Join(dir, kind, file)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !os.IsNotExist(err) {
			return nil, path, errors.WrapWithCode(err, errors.CodeInternal, "failed to read library file").WithMeta("path", path)
		}
	}
	return nil, "", errors.NotFoundf("%s %q not found", strings.TrimSuffix(kind, "s"), name).
		WithMeta("dirs", l.dirs)
}

func (l *Loader) list(kind string) ([]string, error) {
	seen := make(map[string]bool)
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to list library").WithMeta("dir", dir)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), extension) {
				seen[strings.TrimSuffix(e.Name(), extension)] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
