package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/catmerge/internal/orchestrator"
)

func newMergeCmd(a *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "merge <older> <newer>",
		Short: "Merge two artifacts or two catalog directories",
		Long: `Merges an older and a newer artifact of the same kind, or every artifact found
in two catalog directories. Records of the newer side win; records only the
older side has are appended. The result is written as merged-<name> into the
older directory unless --target is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := orchestrator.Classify(args[0], args[1], target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, orchestrator.FormatHeader(plan))

			opts := a.options()
			opts.Target = plan.Target
			emit, stop := streamProgress(out)
			opts.OnProgress = emit
			outcomes, err := orchestrator.NewMerger(opts).Execute(cmd.Context(), plan)
			stop()

			for _, o := range outcomes {
				fmt.Fprint(out, orchestrator.FormatSummary(o))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "directory for merged-<name> output (default: older directory)")
	return cmd
}

func newMergeRunsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge-runs <root>",
		Short: "Concatenate the engine-dependent tests of several test runs",
		Long: `Every directory below <root> holding test/tests-engine-dependent.json is a run.
Each run is remapped, its files are gathered into <root>/files without
overwriting, and its tests are appended to <root>/tests-engine-dependent.json
in directory name order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			opts := a.options()
			emit, stop := streamProgress(out)
			opts.OnProgress = emit
			res, err := orchestrator.NewMerger(opts).MergeRuns(cmd.Context(), args[0])
			stop()

			if res != nil {
				fmt.Fprint(out, orchestrator.FormatRunsSummary(res))
			}
			return err
		},
	}
}
