package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/catmerge/internal/orchestrator"
	"github.com/dusk-indust/catmerge/internal/remap"
)

func newRemapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remap <artifact>...",
		Short: "Move the files referenced by test artifacts into the canonical layout",
		Long: `Rewrites every file reference of an engine-dependent or engine-independent
test artifact to files/<category>/[<engine>/]<shard>/<name> and copies the
files there. An artifact with a files directory next to it is left alone.
Other artifacts are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			remapper := orchestrator.NewMerger(a.options()).Remapper()

			var errs []error
			for _, path := range args {
				res, err := remapper.Remap(cmd.Context(), path)
				switch {
				case errors.Is(err, remap.ErrNoFileReferences):
					fmt.Fprintf(out, "%s: no file references, skipped\n", path)
					continue
				case err != nil:
					errs = append(errs, err)
					continue
				case res.Skipped:
					fmt.Fprintf(out, "%s: already remapped\n", res.Path)
					continue
				}

				failed := res.Failed()
				fmt.Fprintf(out, "%s: remapped %d records, copied %d files, %d failed\n",
					res.Path, res.Records, len(res.Copies)-len(failed), len(failed))
				for _, f := range failed {
					fmt.Fprintf(out, "  %s: %v\n", f.Src, f.Err)
				}
			}
			return errors.Join(errs...)
		},
	}
}
