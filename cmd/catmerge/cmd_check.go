package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/catmerge/internal/integrity"
)

func newCheckCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Cross-check the artifacts of a catalog directory",
		Long: `Reads engines.json, feature-tree.json, tests-engine-dependent.json and
tests-engine-independent.json from <dir> and writes one text report per check
next to them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := integrity.NewChecker().Run(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, res := range rep.Results {
				fmt.Fprint(out, res.Text())
			}
			return nil
		},
	}
}
