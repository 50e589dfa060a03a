package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after defaults, the config file, SEQVEC_* environment variables and flags are applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			source := a.v.ConfigFileUsed()
			if source == "" {
				source = "(defaults and environment)"
			}
			fmt.Fprintln(w, faintStyle.Render("config file: "+source))
			return writeJSON(w, a.cfg)
		},
	}
}
