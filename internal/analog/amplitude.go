package analog

import (
	"fmt"
	"math"

	"github.com/hidrodata/vazex/internal/series"
)

// Bounds holds, per station in column order, the historical minimum and
// maximum month-over-month ratio observed at the calendar-month boundary
// matching the series' final month.
type Bounds struct {
	Stations []int
	Min      []float64
	Max      []float64
}

// AmplitudeBounds computes the historical amplitude envelope for s.
//
// For every row t whose calendar month equals the final month of s, the ratio
// value[t] / value[t+1] is collected per station. Ratios that are zero,
// negative, infinite or NaN are discarded outright. A station with no
// retained ratio at all cannot be bounded and fails the calculation.
func AmplitudeBounds(s *series.Series) (*Bounds, error) {
	n := s.Len()
	finalMonth := s.End().Month
	stations := s.Stations()

	b := &Bounds{
		Stations: stations,
		Min:      make([]float64, len(stations)),
		Max:      make([]float64, len(stations)),
	}
	for j := range stations {
		b.Min[j] = math.Inf(1)
		b.Max[j] = math.Inf(-1)
	}

	counts := make([]int, len(stations))
	for t := 0; t < n-1; t++ {
		if s.MonthAt(t) != finalMonth {
			continue
		}
		for j := range stations {
			col := s.Column(j)
			r := col[t] / col[t+1]
			if !(r > 0) || math.IsInf(r, 1) {
				continue
			}
			counts[j]++
			if r < b.Min[j] {
				b.Min[j] = r
			}
			if r > b.Max[j] {
				b.Max[j] = r
			}
		}
	}
	for j, c := range counts {
		if c == 0 {
			return nil, fmt.Errorf("%w: station %d has no valid month-over-month ratio for month %d",
				ErrInsufficientHistory, stations[j], int(finalMonth))
		}
	}
	return b, nil
}
