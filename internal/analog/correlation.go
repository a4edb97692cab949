package analog

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/hidrodata/vazex/internal/series"
)

const window = 12

// CorrelationRow holds, for one candidate window-end month, the correlation of
// that 12-month window against the reference window, per station in column
// order.
type CorrelationRow struct {
	End    series.Period
	Values []float64
}

// CorrelationTable maps window-end months to per-station correlations against
// the reference window. Rows are in chronological order; the last row is the
// reference window itself, correlating at exactly 1.0.
type CorrelationTable struct {
	Stations []int
	Rows     []CorrelationRow
}

// StationValues returns the correlation of every row for one station code.
func (t *CorrelationTable) StationValues(code int) ([]float64, error) {
	col := -1
	for j, c := range t.Stations {
		if c == code {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("analog: station %d not in correlation table", code)
	}
	vals := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		vals[i] = r.Values[col]
	}
	return vals, nil
}

// Correlate12 computes the correlation between the last 12 observed months of
// s and every historical 12-month window ending on the same calendar month.
//
// The comparison is built by broadcasting the reference window across the full
// history month by month: each historical row is replaced by the reference
// row of the same calendar month, and a rolling 12-row Pearson correlation is
// taken between the original and the broadcast copy. Only window ends landing
// on the final calendar month are kept, so every retained window is a complete
// 12-month block directly comparable to the reference.
func Correlate12(s *series.Series) (*CorrelationTable, error) {
	n := s.Len()
	if n < 2*window {
		return nil, fmt.Errorf("%w: %d rows, need at least %d", ErrInsufficientHistory, n, 2*window)
	}

	finalMonth := s.End().Month

	// Reference value per calendar month, per station.
	refStart := n - window
	stations := s.Stations()
	ref := make([]map[time.Month]float64, len(stations))
	for j := range stations {
		ref[j] = make(map[time.Month]float64, window)
		col := s.Column(j)
		for i := refStart; i < n; i++ {
			ref[j][s.MonthAt(i)] = col[i]
		}
	}

	table := &CorrelationTable{Stations: stations}
	buf := make([]float64, window)
	for end := window - 1; end < n; end++ {
		if s.MonthAt(end) != finalMonth {
			continue
		}
		row := CorrelationRow{
			End:    s.PeriodAt(end),
			Values: make([]float64, len(stations)),
		}
		for j := range stations {
			col := s.Column(j)[end-window+1 : end+1]
			for k := range buf {
				buf[k] = ref[j][s.MonthAt(end-window+1+k)]
			}
			row.Values[j] = stat.Correlation(col, buf, nil)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
