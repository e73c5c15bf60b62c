package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
	"github.com/KirkDiggler/wargame-mechanics/internal/library"
	"github.com/KirkDiggler/wargame-mechanics/internal/services/resolution"
)

func newResolveCommand(a *app) *cobra.Command {
	var (
		format  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <scenario>...",
		Short: "Resolve one or more library scenarios",
		Long:  `Loads each scenario by name from the library directories, or from a path ending in .yaml, and prints the resolved roll targets.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return errors.InvalidArgumentf("unknown format %q", format).WithMeta("format", format)
			}

			ctx := cmd.Context()
			provider := a.provider(ctx)

			scenarios := make([]*library.Scenario, 0, len(args))
			contexts := make([]*combat.Context, 0, len(args))
			for _, name := range args {
				s, err := provider.Library.Scenario(name)
				if err != nil {
					return err
				}
				combatCtx, ok := s.Context()
				if !ok {
					return errors.InvalidArgumentf("scenario %s: select a target", s.Name)
				}
				if refresh {
					if err := provider.ResolutionService.Invalidate(ctx, combatCtx); err != nil {
						return err
					}
				}
				scenarios = append(scenarios, s)
				contexts = append(contexts, combatCtx)
			}

			var records []*resolution.Record
			if len(contexts) == 1 {
				record, err := provider.ResolutionService.Resolve(ctx, contexts[0])
				if err != nil {
					return err
				}
				records = []*resolution.Record{record}
			} else {
				var err error
				if records, err = provider.ResolutionService.ResolveBatch(ctx, contexts); err != nil {
					return err
				}
			}
			a.logger.Debug("resolved scenarios", zap.Int("count", len(records)))

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return renderJSON(out, scenarios, records)
			}
			for i, record := range records {
				if i > 0 {
					if _, err := out.Write([]byte("\n")); err != nil {
						return err
					}
				}
				if err := renderText(out, scenarios[i], contexts[i], record.Resolution); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or json")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop cached resolutions before resolving")
	return cmd
}
