package orchestrator

import (
	"fmt"
	"strings"
)

const rule = "------------------\n"

// FormatSummary renders the audit lists of one merged artifact.
func FormatSummary(o Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: read %d old, %d new, wrote %d to %s\n",
		o.Kind, o.OlderCount, o.NewerCount, o.Written, o.Output)

	b.WriteString(rule)
	fmt.Fprintf(&b, "Replaced %d objects:\n", len(o.Report.Replaced))
	writeLines(&b, o.Report.Replaced)

	b.WriteString(rule)
	fmt.Fprintf(&b, "Added %d objects:\n", len(o.Report.Added))
	writeLines(&b, o.Report.Added)

	if len(o.Report.Merged) > 0 {
		b.WriteString(rule)
		fmt.Fprintf(&b, "Merged %d nodes:\n", len(o.Report.Merged))
		writeLines(&b, o.Report.Merged)
	}

	if failed := o.Failed(); len(failed) > 0 {
		b.WriteString(rule)
		fmt.Fprintf(&b, "Failed %d copies:\n", len(failed))
		for _, f := range failed {
			fmt.Fprintf(&b, "%s: %v\n", f.Src, f.Err)
		}
	}
	return b.String()
}

// FormatRunsSummary renders the result of MergeRuns.
func FormatRunsSummary(o *RunsOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Wrote %d engine-dependent tests from %d runs to %s\n", o.Records, len(o.Runs), o.Output)

	if len(o.Failed) > 0 {
		b.WriteString(rule)
		fmt.Fprintf(&b, "Failed %d runs:\n", len(o.Failed))
		writeLines(&b, o.Failed)
	}

	b.WriteString(rule)
	b.WriteString("Skipped because no tests-engine-dependent.json exists:\n")
	writeLines(&b, o.Skipped)
	return b.String()
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}
