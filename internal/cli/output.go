package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/loadpatch/internal/audit"
	"github.com/mesh-intelligence/loadpatch/internal/pipeline"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

var (
	headerColor = color.New(color.Bold)
	insertColor = color.New(color.FgGreen)
	deleteColor = color.New(color.FgRed)
	warnColor   = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen, color.Bold)
)

// printSummary writes the counts of a finished run.
func printSummary(w io.Writer, mod types.ModKey, report *pipeline.Report, dryRun bool) {
	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}
	okColor.Fprintf(w, "%s %s: ", verb, mod)
	fmt.Fprintf(w, "patched %d units across %d records\n", report.UnitCount(), report.RecordCount())
	if skipped := report.Skipped(); len(skipped) > 0 {
		warnColor.Fprintf(w, "Skipped %d unresolvable records\n", len(skipped))
	}
}

// printDiffs writes each record diff, showing only changed records.
func printDiffs(w io.Writer, diffs []audit.RecordDiff) {
	for _, d := range diffs {
		if !d.Changed() {
			continue
		}
		title := d.FormKey.String()
		if d.EditorID != "" {
			title += " (" + d.EditorID + ")"
		}
		headerColor.Fprintln(w, title)
		for _, line := range d.Lines {
			switch {
			case strings.HasPrefix(line, audit.PrefixInsert):
				insertColor.Fprintln(w, line)
			case strings.HasPrefix(line, audit.PrefixDelete):
				deleteColor.Fprintln(w, line)
			default:
				fmt.Fprintln(w, line)
			}
		}
	}
}
