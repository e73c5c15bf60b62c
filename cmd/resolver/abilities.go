package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAbilitiesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "abilities",
		Short: "List the core abilities known to the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tTARGET\tDESCRIPTION")
			for _, name := range a.registry.Keys() {
				entry, _ := a.registry.Get(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, entry.Kind, entry.Target, entry.Description)
			}
			return w.Flush()
		},
	}
}
