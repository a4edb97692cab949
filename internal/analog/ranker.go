package analog

import (
	"fmt"
	"math"
	"sort"

	"github.com/hidrodata/vazex/internal/series"
)

// Candidate is one ranked historical window: the period its 12-month window
// ends on and its correlation against the reference window for the ranking
// station.
type Candidate struct {
	End         series.Period
	Correlation float64
}

// rank orders the correlation table's window-end months by the ranking
// station's correlation, descending. The reference window (the table's last
// row) is pinned at rank 0 so that an analog year duplicating the reference
// values exactly cannot displace it; remaining ties keep chronological order
// and NaN correlations sort last.
func rank(table *CorrelationTable, station int) ([]Candidate, error) {
	vals, err := table.StationValues(station)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: empty correlation table", ErrInsufficientHistory)
	}

	last := len(table.Rows) - 1
	ranked := make([]Candidate, 0, len(table.Rows))
	ranked = append(ranked, Candidate{End: table.Rows[last].End, Correlation: vals[last]})

	rest := make([]Candidate, 0, last)
	for i := 0; i < last; i++ {
		rest = append(rest, Candidate{End: table.Rows[i].End, Correlation: vals[i]})
	}
	sort.SliceStable(rest, func(a, b int) bool {
		ca, cb := rest[a].Correlation, rest[b].Correlation
		if math.IsNaN(cb) {
			return !math.IsNaN(ca)
		}
		if math.IsNaN(ca) {
			return false
		}
		return ca > cb
	})
	return append(ranked, rest...), nil
}
