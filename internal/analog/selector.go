// Package analog selects and applies historical analog years for extending
// incomplete monthly streamflow series.
//
// The model is a two-phase pipeline: Fit computes the correlation table,
// amplitude bounds and the accepted analog period for one series, returning
// an immutable Result; Extend slices the analog continuation out of the same
// series and re-indexes it onto the forecast horizon. A Result is built once
// per series and excluded-years set and never reused across inputs.
package analog

import (
	"fmt"
	"math"

	"github.com/hidrodata/vazex/internal/series"
)

// RejectionReason classifies why a ranked candidate was discarded.
type RejectionReason string

const (
	AmplitudeAboveMax RejectionReason = "amplitude_above_max"
	AmplitudeBelowMin RejectionReason = "amplitude_below_min"
	YearAlreadyUsed   RejectionReason = "year_already_used"
)

// Params configures one fit.
type Params struct {
	// Station is the reference station code used to rank candidates.
	Station int
	// MaxAboveMax bounds how many stations may exceed their historical
	// maximum ratio before a candidate is rejected.
	MaxAboveMax int
	// MaxBelowMin bounds how many stations may fall below their historical
	// minimum ratio before a candidate is rejected.
	MaxBelowMin int
	// ExcludedYears lists analog years already consumed by earlier series
	// in the same run.
	ExcludedYears map[int]bool
}

// Rejection records one discarded candidate.
type Rejection struct {
	Year        int
	Correlation float64
	Reason      RejectionReason
	Detail      string
}

// Selection describes the accepted analog candidate.
type Selection struct {
	// Rank is the candidate's position in the correlation ranking
	// (rank 0 is the reference window itself, so Rank is always >= 1).
	Rank int
	// Start is the first month of the forecast source: the month
	// immediately following the accepted window's end.
	Start series.Period
	// Year is the calendar year of Start.
	Year int
	// Correlation is the reference station's correlation at the accepted
	// window; Correlations holds every station's, in column order.
	Correlation  float64
	Correlations []float64
	// Ratios holds the per-station ratio the candidate implies between its
	// first forecast month and the series' final observed month.
	Ratios []float64
	// AboveMax and BelowMin count the stations whose implied ratio fell
	// outside the historical bounds at acceptance time.
	AboveMax int
	BelowMin int
}

// Result is the immutable output of one Fit call.
type Result struct {
	Table      *CorrelationTable
	Bounds     *Bounds
	Ranking    []Candidate
	Selection  *Selection
	Rejections []Rejection
}

// Fit runs the full selection pipeline on s: rolling correlations, amplitude
// bounds, candidate ranking, and the acceptance walk. On success the returned
// Result carries the accepted Selection; when every candidate is rejected it
// carries the complete rejection trace alongside ErrNoAcceptableAnalog.
func Fit(s *series.Series, params Params) (*Result, error) {
	if !s.HasStation(params.Station) {
		return nil, fmt.Errorf("analog: reference station %d not in series", params.Station)
	}

	table, err := Correlate12(s)
	if err != nil {
		return nil, err
	}
	bounds, err := AmplitudeBounds(s)
	if err != nil {
		return nil, err
	}
	ranking, err := rank(table, params.Station)
	if err != nil {
		return nil, err
	}

	res := &Result{Table: table, Bounds: bounds, Ranking: ranking}

	last := s.Row(s.Len() - 1)
	for pos := 1; pos < len(ranking); pos++ {
		cand := ranking[pos]
		start := cand.End.Next()
		row := s.Row(s.IndexOf(start))

		ratios := make([]float64, len(row))
		above, below := 0, 0
		for j := range row {
			ratios[j] = row[j] / last[j]
			if ratios[j] > bounds.Max[j] {
				above++
			}
			if ratios[j] < bounds.Min[j] {
				below++
			}
		}

		switch {
		case above > params.MaxAboveMax:
			res.Rejections = append(res.Rejections, Rejection{
				Year:        start.Year,
				Correlation: cand.Correlation,
				Reason:      AmplitudeAboveMax,
				Detail:      fmt.Sprintf("%d stations above max (limit %d)", above, params.MaxAboveMax),
			})
		case below > params.MaxBelowMin:
			res.Rejections = append(res.Rejections, Rejection{
				Year:        start.Year,
				Correlation: cand.Correlation,
				Reason:      AmplitudeBelowMin,
				Detail:      fmt.Sprintf("%d stations below min (limit %d)", below, params.MaxBelowMin),
			})
		case params.ExcludedYears[start.Year]:
			res.Rejections = append(res.Rejections, Rejection{
				Year:        start.Year,
				Correlation: cand.Correlation,
				Reason:      YearAlreadyUsed,
				Detail:      "year used by an earlier series in this run",
			})
		default:
			res.Selection = &Selection{
				Rank:         pos,
				Start:        start,
				Year:         start.Year,
				Correlation:  cand.Correlation,
				Correlations: correlationsAt(table, cand.End),
				Ratios:       ratios,
				AboveMax:     above,
				BelowMin:     below,
			}
			return res, nil
		}
	}

	return res, fmt.Errorf("%w: all %d candidates rejected", ErrNoAcceptableAnalog, len(res.Rejections))
}

// correlationsAt returns every station's correlation at the given window end.
func correlationsAt(table *CorrelationTable, end series.Period) []float64 {
	for _, r := range table.Rows {
		if r.End == end {
			return append([]float64(nil), r.Values...)
		}
	}
	vals := make([]float64, len(table.Stations))
	for j := range vals {
		vals[j] = math.NaN()
	}
	return vals
}
