package library

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/army"
)

// squad expands into Count identical models
type squad struct {
	Name            string               `yaml:"name"`
	Count           int                  `yaml:"count"`
	SourceUnit      string               `yaml:"sourceUnit,omitempty"`
	Characteristics army.Characteristics `yaml:"characteristics"`
	Keywords        []string             `yaml:"keywords,omitempty"`
}

// unitDocument is the on-disk unit form. Squads save listing every model of
// a large unit by hand.
type unitDocument struct {
	army.Unit `yaml:",inline"`
	Squads    []squad `yaml:"squads,omitempty"`
}

func (d *unitDocument) build() *army.Unit {
	u := d.Unit
	for _, sq := range d.Squads {
		source := sq.SourceUnit
		if source == "" {
			source = u.Name
		}
		prefix := Slug(sq.Name)
		for i := 0; i < sq.Count; i++ {
			u.Models = append(u.Models, army.Model{
				ID:              fmt.Sprintf("%s-%d", prefix, i+1),
				Name:            sq.Name,
				SourceUnit:      source,
				Characteristics: sq.Characteristics,
				Keywords:        sq.Keywords,
			})
		}
	}
	if u.ID == "" {
		u.ID = Slug(u.Name)
	}
	return &u
}

// Slug turns a display name into a file and id friendly form
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
