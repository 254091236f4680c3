package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dpinela/synlayout/internal/theme"
)

func newLangsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the known languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPANS\tTOKENS")
			for _, name := range a.langs.Names() {
				set, _ := a.langs.Lookup(name)
				fmt.Fprintf(w, "%s\t%d\t%d\n", name, len(set.Spans()), len(set.Tokens()))
			}
			return w.Flush()
		},
	}
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available color themes",
		Args:  cobra.NoArgs,
		// Listing themes needs neither settings nor definition files.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "default")
			for _, name := range theme.ChromaStyles() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
