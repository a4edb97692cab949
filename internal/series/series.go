// Package series provides the monthly multi-station time series value type
// shared by the analog model and the vazões file layer.
package series

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidIndex indicates a series whose shape or index cannot represent a
// contiguous monthly record.
var ErrInvalidIndex = errors.New("series: invalid monthly index")

// Series holds one value per station per calendar month. Rows are strictly
// contiguous months starting at Start(); the station set is fixed for the
// lifetime of the series. Storage is column-major: one []float64 per station.
type Series struct {
	start    Period
	stations []int
	cols     [][]float64
	byCode   map[int]int
}

// New builds a series starting at start with the given station codes and
// column data. All columns must share the same length.
func New(start Period, stations []int, cols [][]float64) (*Series, error) {
	if len(stations) == 0 || len(stations) != len(cols) {
		return nil, fmt.Errorf("%w: %d stations, %d columns", ErrInvalidIndex, len(stations), len(cols))
	}
	n := len(cols[0])
	byCode := make(map[int]int, len(stations))
	for i, code := range stations {
		if len(cols[i]) != n {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrInvalidIndex, code, len(cols[i]), n)
		}
		if _, dup := byCode[code]; dup {
			return nil, fmt.Errorf("%w: duplicate station %d", ErrInvalidIndex, code)
		}
		byCode[code] = i
	}
	s := &Series{
		start:    start,
		stations: append([]int(nil), stations...),
		cols:     make([][]float64, len(cols)),
		byCode:   byCode,
	}
	for i, c := range cols {
		s.cols[i] = append([]float64(nil), c...)
	}
	return s, nil
}

// Len returns the number of monthly rows.
func (s *Series) Len() int { return len(s.cols[0]) }

// Stations returns the station codes in column order.
func (s *Series) Stations() []int { return append([]int(nil), s.stations...) }

// Start returns the period of the first row.
func (s *Series) Start() Period { return s.start }

// End returns the period of the last row.
func (s *Series) End() Period { return s.start.Add(s.Len() - 1) }

// PeriodAt returns the period of row i.
func (s *Series) PeriodAt(i int) Period { return s.start.Add(i) }

// MonthAt returns the calendar month of row i.
func (s *Series) MonthAt(i int) time.Month { return s.PeriodAt(i).Month }

// IndexOf returns the row index of period p, or -1 if p is out of range.
func (s *Series) IndexOf(p Period) int {
	i := p.Sub(s.start)
	if i < 0 || i >= s.Len() {
		return -1
	}
	return i
}

// Column returns the backing values of the station at column position i.
// The slice is shared; callers must not modify it.
func (s *Series) Column(i int) []float64 { return s.cols[i] }

// StationColumn returns the values for a station code.
func (s *Series) StationColumn(code int) ([]float64, error) {
	i, ok := s.byCode[code]
	if !ok {
		return nil, fmt.Errorf("series: unknown station %d", code)
	}
	return s.cols[i], nil
}

// HasStation reports whether the station code is one of the columns.
func (s *Series) HasStation(code int) bool {
	_, ok := s.byCode[code]
	return ok
}

// Value returns the value of station column j at row i.
func (s *Series) Value(i, j int) float64 { return s.cols[j][i] }

// Row returns a copy of row i, one value per station in column order.
func (s *Series) Row(i int) []float64 {
	row := make([]float64, len(s.cols))
	for j := range s.cols {
		row[j] = s.cols[j][i]
	}
	return row
}

// Slice returns a deep copy of n rows starting at row i.
func (s *Series) Slice(i, n int) (*Series, error) {
	if i < 0 || n <= 0 || i+n > s.Len() {
		return nil, fmt.Errorf("%w: slice [%d,%d) of %d rows", ErrInvalidIndex, i, i+n, s.Len())
	}
	cols := make([][]float64, len(s.cols))
	for j, c := range s.cols {
		cols[j] = append([]float64(nil), c[i:i+n]...)
	}
	return New(s.start.Add(i), s.stations, cols)
}

// Reindex returns a deep copy of the series re-based to begin at start,
// keeping row order and values verbatim.
func (s *Series) Reindex(start Period) *Series {
	c := s.Copy()
	c.start = start
	return c
}

// Append returns a new series of s followed by other. other must begin the
// month after s ends and carry the same station set in the same order.
func (s *Series) Append(other *Series) (*Series, error) {
	if other.start != s.End().Next() {
		return nil, fmt.Errorf("%w: appended series starts at %s, want %s",
			ErrInvalidIndex, other.start, s.End().Next())
	}
	if len(other.stations) != len(s.stations) {
		return nil, fmt.Errorf("%w: station set mismatch", ErrInvalidIndex)
	}
	for i, code := range s.stations {
		if other.stations[i] != code {
			return nil, fmt.Errorf("%w: station set mismatch at column %d", ErrInvalidIndex, i)
		}
	}
	cols := make([][]float64, len(s.cols))
	for j := range s.cols {
		cols[j] = append(append([]float64(nil), s.cols[j]...), other.cols[j]...)
	}
	return New(s.start, s.stations, cols)
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	c, _ := New(s.start, s.stations, s.cols)
	return c
}
