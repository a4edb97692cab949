// Package vazoes reads and writes the fixed-format monthly streamflow text
// files consumed by the extender: one line per station and year, holding the
// station code, the year, and twelve monthly mean flows in m³/s. Months of
// the final year not yet observed are recorded as zeros.
package vazoes

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hidrodata/vazex/internal/series"
)

// ErrFormat indicates a file that does not follow the vazões layout.
var ErrFormat = errors.New("vazoes: malformed file")

type yearRow struct {
	year   int
	values [12]float64
}

// Read parses a vazões file into a monthly series. Every station must cover
// the same contiguous year range. Trailing months of the final year where
// every station reads zero are treated as not yet observed and trimmed.
func Read(path string) (*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	byStation := make(map[int][]yearRow)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 14 {
			return nil, fmt.Errorf("%w: %s line %d has %d fields, want 14", ErrFormat, path, line, len(fields))
		}
		station, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad station code %q", ErrFormat, path, line, fields[0])
		}
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad year %q", ErrFormat, path, line, fields[1])
		}
		var row yearRow
		row.year = year
		for m := 0; m < 12; m++ {
			v, err := strconv.ParseFloat(fields[2+m], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: bad value %q", ErrFormat, path, line, fields[2+m])
			}
			row.values[m] = v
		}
		byStation[station] = append(byStation[station], row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(byStation) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrFormat, path)
	}

	stations := make([]int, 0, len(byStation))
	for code := range byStation {
		stations = append(stations, code)
	}
	sort.Ints(stations)

	firstYear, lastYear, err := yearRange(path, byStation[stations[0]])
	if err != nil {
		return nil, err
	}
	nYears := lastYear - firstYear + 1

	cols := make([][]float64, len(stations))
	for j, code := range stations {
		f0, l0, err := yearRange(path, byStation[code])
		if err != nil {
			return nil, err
		}
		if f0 != firstYear || l0 != lastYear {
			return nil, fmt.Errorf("%w: %s station %d covers %d-%d, station %d covers %d-%d",
				ErrFormat, path, stations[0], firstYear, lastYear, code, f0, l0)
		}
		col := make([]float64, nYears*12)
		for _, row := range byStation[code] {
			copy(col[(row.year-firstYear)*12:], row.values[:])
		}
		cols[j] = col
	}

	// Trailing zeros in the last year mean "not observed yet".
	n := nYears * 12
	floor := (nYears - 1) * 12
	if nYears == 1 {
		floor = 1 // a single-year file keeps at least one row
	}
	for n > floor && allZero(cols, n-1) {
		n--
	}
	for j := range cols {
		cols[j] = cols[j][:n]
	}

	return series.New(series.Period{Year: firstYear, Month: time.January}, stations, cols)
}

// Write renders s back into the vazões layout, padding the months after the
// last observed row with zeros to complete the final year.
func Write(path string, s *series.Series) error {
	if s.Start().Month != time.January {
		return fmt.Errorf("%w: series starts at %s, vazoes files start in January", ErrFormat, s.Start())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	stations := s.Stations()
	firstYear := s.Start().Year
	lastYear := s.End().Year
	for _, code := range stations {
		col, err := s.StationColumn(code)
		if err != nil {
			return err
		}
		for year := firstYear; year <= lastYear; year++ {
			fmt.Fprintf(w, "%5d %4d", code, year)
			for m := 0; m < 12; m++ {
				i := (year-firstYear)*12 + m
				v := 0.0
				if i < len(col) {
					v = col[i]
				}
				fmt.Fprintf(w, " %6.0f", v)
			}
			fmt.Fprintln(w)
		}
	}
	return w.Flush()
}

func yearRange(path string, rows []yearRow) (int, int, error) {
	years := make([]int, len(rows))
	for i, r := range rows {
		years[i] = r.year
	}
	sort.Ints(years)
	for i := 1; i < len(years); i++ {
		if years[i] != years[i-1]+1 {
			return 0, 0, fmt.Errorf("%w: %s has duplicate or gapped year %d", ErrFormat, path, years[i])
		}
	}
	return years[0], years[len(years)-1], nil
}

func allZero(cols [][]float64, i int) bool {
	for _, c := range cols {
		if c[i] != 0 {
			return false
		}
	}
	return true
}
