package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/weapons"
)

func newTranslateCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:     "translate <keyword>...",
		Short:   "Show the mechanics a weapon keyword translates to",
		Example: `  resolver translate HEAVY "SUSTAINED HITS 2" "ANTI-INFANTRY 4+"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, keyword := range args {
				if err := renderTranslation(cmd.OutOrStdout(), weapons.Normalize(keyword), weapons.Translate(keyword)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func renderTranslation(w io.Writer, keyword string, t weapons.Translation) error {
	var parts []string
	if t.Mechanic != nil {
		parts = append(parts, "mechanic "+describeMechanic(*t.Mechanic))
	}
	if t.Effect != nil {
		effect := "tag " + t.Effect.Name
		if !t.Effect.Value.IsZero() {
			effect += " " + t.Effect.Value.String()
		}
		if t.Effect.Keyword != "" {
			effect += " vs " + t.Effect.Keyword
		}
		parts = append(parts, effect)
	}
	if len(parts) == 0 {
		parts = append(parts, "not recognised")
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", keyword, strings.Join(parts, "; "))
	return err
}
