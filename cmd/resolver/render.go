package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/library"
	"github.com/KirkDiggler/wargame-mechanics/internal/mechanics"
	"github.com/KirkDiggler/wargame-mechanics/internal/services/resolution"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type scenarioOutput struct {
	Scenario   string             `json:"scenario"`
	ID         string             `json:"id"`
	Key        string             `json:"key"`
	Resolution *combat.Resolution `json:"resolution"`
}

func renderJSON(w io.Writer, scenarios []*library.Scenario, records []*resolution.Record) error {
	out := make([]scenarioOutput, len(records))
	for i, r := range records {
		out[i] = scenarioOutput{Scenario: scenarios[i].Name, ID: r.ID, Key: r.Key, Resolution: r.Resolution}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(out) == 1 {
		return enc.Encode(out[0])
	}
	return enc.Encode(out)
}

// renderText writes everything through one tabwriter; write errors surface from Flush.
func renderText(w io.Writer, s *library.Scenario, ctx *combat.Context, res *combat.Resolution) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", s.Name)
	fmt.Fprintf(tw, "%s (%s x%d) -> %s [%s]\n",
		ctx.Attacker.Unit.Name, ctx.Attacker.Weapon.Name, res.Base.WeaponCount,
		ctx.Defender.Unit.Name, ctx.Defender.TargetModel.ID)

	f := res.Final
	row(tw, "Attacks", f.Attacks, res.Modifiers.Attacks)
	row(tw, "Hit", f.ToHit.String(), res.Modifiers.Hit)
	row(tw, "Wound", fmt.Sprintf("%d+", f.ToWound), res.Modifiers.Wound)
	row(tw, "Save", saveText(f), res.Modifiers.Save)
	row(tw, "FNP", rollOrDash(f.FeelNoPain), res.Modifiers.FeelNoPain)
	row(tw, "Damage", f.Damage, res.Modifiers.Damage)
	fmt.Fprintf(tw, "Critical\thits %d+, wounds %d+%s\t\n", f.CritHit, f.CritWound, critKeyword(f.CritWoundKeyword))
	if f.BlastBonus > 0 {
		fmt.Fprintf(tw, "Blast\t+%d attacks\t\n", f.BlastBonus)
	}
	if len(f.Rerolls) > 0 {
		fmt.Fprintf(tw, "Rerolls\t%s\t\n", rerollText(f.Rerolls))
	}
	if len(res.SpecialEffects) > 0 {
		fmt.Fprintf(tw, "Special\t%s\t\n", specialText(res.SpecialEffects))
	}
	return tw.Flush()
}

func row(w io.Writer, label, value string, sm combat.StepModifiers) {
	fmt.Fprintf(w, "%s\t%s\t%s\n", label, value, modifierText(sm))
}

func modifierText(sm combat.StepModifiers) string {
	if len(sm.Display) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sm.Display))
	for _, d := range sm.Display {
		parts = append(parts, fmt.Sprintf("%s %+d", d.Label, d.Value))
	}
	text := strings.Join(parts, ", ")
	if sm.IsCapped {
		text += fmt.Sprintf(" (capped %+d)", sm.CappedTotal)
	}
	return text
}

func saveText(f combat.FinalValues) string {
	if f.ToSave >= 7 {
		return "none"
	}
	if f.UseInvuln {
		return fmt.Sprintf("%d++", f.ToSave)
	}
	return fmt.Sprintf("%d+", f.ToSave)
}

func rollOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d+", n)
}

func critKeyword(keyword string) string {
	if keyword == "" {
		return ""
	}
	return " (anti " + keyword + ")"
}

func rerollText(rerolls map[mechanics.Attribute]mechanics.EffectSource) string {
	attrs := make([]string, 0, len(rerolls))
	for attr := range rerolls {
		attrs = append(attrs, string(attr))
	}
	sort.Strings(attrs)

	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", attr, rerolls[mechanics.Attribute(attr)].Label()))
	}
	return strings.Join(parts, ", ")
}

func specialText(effects []combat.SpecialEffect) string {
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		name := e.Name
		switch {
		case e.Keyword != "":
			name = fmt.Sprintf("%s-%s %s+", e.Name, e.Keyword, e.Value)
		case e.Attribute != "":
			name = fmt.Sprintf("%s %s", e.Name, e.Attribute)
		case !e.Value.IsZero():
			name = fmt.Sprintf("%s %s", e.Name, e.Value)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func describeMechanic(m mechanics.Mechanic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", m.Entity, m.Effect)
	if m.Attribute != "" {
		fmt.Fprintf(&b, " %s", m.Attribute)
	}
	if len(m.Abilities) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(m.Abilities, ", "))
	}
	if !m.Value.IsZero() {
		fmt.Fprintf(&b, " = %s", m.Value)
	}
	for _, c := range m.Conditions {
		subject := string(c.State)
		if subject == "" {
			subject = string(c.Attribute)
		}
		if subject == "" {
			subject = strings.Join(c.Keywords, "|")
		}
		fmt.Fprintf(&b, " when %s.%s %s %s", c.Entity, subject, c.Operator, c.Value)
	}
	return b.String()
}
