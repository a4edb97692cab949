package application

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"
)

// ReportRow summarizes one successfully extended (file, station) pair.
type ReportRow struct {
	File        string
	Station     string
	Rank        int
	Correlation float64
	Year        int
	BelowMin    int
	AboveMax    int
}

// Report is the run-level summary: one row per extended series plus the
// failures the batch skipped over.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Rows     []ReportRow
	Failures []string
}

// Render writes the report as an aligned text table.
func (r *Report) Render(w io.Writer) error {
	fmt.Fprintf(w, "run %s  %s -> %s\n\n", r.RunID,
		r.Started.Format(time.RFC3339), r.Finished.Format(time.RFC3339))

	rows := append([]ReportRow(nil), r.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].File < rows[j].File })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "arquivo\tposto\trank\tcorrelacao\tano\tlt_min\tgt_max")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.6f\t%d\t%d\t%d\n",
			row.File, row.Station, row.Rank, row.Correlation, row.Year, row.BelowMin, row.AboveMax)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "\nskipped (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	return nil
}
