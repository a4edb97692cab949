// Package application drives batch extension runs over folders of vazões
// files: per file and reference station it fits the analog model, splices the
// forecast onto the series, and writes the extended file, accumulating the
// used analog years so later series never repeat one.
package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hidrodata/vazex/internal/analog"
	vlog "github.com/hidrodata/vazex/internal/log"
	"github.com/hidrodata/vazex/internal/series"
	"github.com/hidrodata/vazex/internal/vazoes"
)

// Runner executes one extension run.
type Runner struct {
	cfg *Config

	// Quiet disables the progress indicator; PlainProgress switches it to
	// line mode for non-TTY output.
	Quiet         bool
	PlainProgress bool
}

// NewRunner builds a runner for the given config.
func NewRunner(cfg *Config) *Runner {
	return &Runner{cfg: cfg}
}

// usedYears is the run-wide accumulator of consumed analog years. Workers
// snapshot it before fitting and commit accepted years under the same lock,
// so the exclusion set grows monotonically and is never observed mid-update.
type usedYears struct {
	mu    sync.Mutex
	years map[int]bool
}

func (u *usedYears) snapshot() map[int]bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := make(map[int]bool, len(u.years))
	for y := range u.years {
		s[y] = true
	}
	return s
}

// reserve atomically claims a year, reporting false when another worker got
// there first since the caller's snapshot was taken.
func (u *usedYears) reserve(year int) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.years[year] {
		return false
	}
	u.years[year] = true
	return true
}

// release frees a reserved year after a downstream failure, so a skipped
// series does not burn an analog year for the rest of the run.
func (u *usedYears) release(year int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.years, year)
}

// Run extends every *.txt file under inputDir once per configured reference
// station. Per-series failures are logged and skipped; the batch only fails
// outright when the folder itself is unusable.
func (r *Runner) Run(inputDir string) (*Report, error) {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no *.txt files in %s", inputDir)
	}
	sort.Strings(files)

	outDir := filepath.Join(inputDir, r.cfg.OutputDir)
	if err := prepareOutputDir(outDir); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	log.Info().Str("run_id", report.RunID).Int("files", len(files)).
		Int("stations", len(r.cfg.Stations)).Msg("starting extension run")

	var progress *vlog.ProgressIndicator
	if !r.Quiet {
		progress = vlog.NewProgressIndicator("extending", len(files)*len(r.cfg.Stations), r.PlainProgress)
	}

	used := &usedYears{years: make(map[int]bool)}
	var mu sync.Mutex // guards report rows and failures

	tasks := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range tasks {
				r.extendFile(path, outDir, used, report, &mu, progress)
			}
		}()
	}
	for _, path := range files {
		tasks <- path
	}
	close(tasks)
	wg.Wait()

	report.Finished = time.Now()
	if progress != nil {
		progress.Finish()
	}

	reportPath := filepath.Join(inputDir, r.cfg.ReportFile)
	if err := writeReport(reportPath, report); err != nil {
		return report, err
	}
	log.Info().Str("run_id", report.RunID).Int("extended", len(report.Rows)).
		Int("skipped", len(report.Failures)).Str("report", reportPath).Msg("run finished")
	return report, nil
}

// extendFile runs every reference station against one input file. Stations
// are visited in order so the used-year accumulation inside one file stays
// deterministic.
func (r *Runner) extendFile(path, outDir string, used *usedYears, report *Report, mu *sync.Mutex, progress *vlog.ProgressIndicator) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	s, err := vazoes.Read(path)
	if err != nil {
		log.Warn().Str("file", stem).Err(err).Msg("unreadable file, skipping")
		mu.Lock()
		report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", stem, err))
		mu.Unlock()
		if progress != nil {
			progress.Add(len(r.cfg.Stations))
		}
		return
	}

	for _, code := range r.cfg.StationOrder() {
		name := r.cfg.Stations[code]
		row, outName, err := r.extendStation(s, stem, outDir, code, name, used)
		if progress != nil {
			progress.Increment()
		}
		if err != nil {
			log.Warn().Str("file", stem).Str("station", name).Err(err).Msg("skipping series")
			mu.Lock()
			report.Failures = append(report.Failures, fmt.Sprintf("%s-%s: %v", stem, name, err))
			mu.Unlock()
			continue
		}
		log.Info().Str("file", outName).Str("station", name).
			Int("year", row.Year).Int("rank", row.Rank).
			Float64("correlation", row.Correlation).Msg("extended")
		mu.Lock()
		report.Rows = append(report.Rows, *row)
		mu.Unlock()
	}
}

// extendStation fits, extends and writes one (file, station) pair, committing
// the chosen analog year on success.
func (r *Runner) extendStation(s *series.Series, stem, outDir string, code int, name string, used *usedYears) (*ReportRow, string, error) {
	// Refit whenever another worker claims our chosen year between the
	// snapshot and the reservation; the exclusion set only ever grows, so
	// the loop terminates once candidates run out.
	var res *analog.Result
	for {
		fitted, err := analog.Fit(s, analog.Params{
			Station:       code,
			MaxAboveMax:   r.cfg.MaxAboveMax,
			MaxBelowMin:   r.cfg.MaxBelowMin,
			ExcludedYears: used.snapshot(),
		})
		if err != nil {
			return nil, "", err
		}
		for _, rej := range fitted.Rejections {
			log.Debug().Str("file", stem).Str("station", name).
				Int("year", rej.Year).Str("reason", string(rej.Reason)).
				Str("detail", rej.Detail).Msg("candidate rejected")
		}
		if used.reserve(fitted.Selection.Year) {
			res = fitted
			break
		}
	}

	forecast, err := analog.Extend(s, res.Selection, r.cfg.Horizon)
	if err != nil {
		used.release(res.Selection.Year)
		return nil, "", err
	}
	extended, err := s.Append(forecast)
	if err != nil {
		used.release(res.Selection.Year)
		return nil, "", err
	}

	outName := fmt.Sprintf("%s-%s-%d.txt", stem, name, res.Selection.Year)
	if err := vazoes.Write(filepath.Join(outDir, outName), extended); err != nil {
		used.release(res.Selection.Year)
		return nil, "", err
	}

	return &ReportRow{
		File:        outName,
		Station:     name,
		Rank:        res.Selection.Rank,
		Correlation: res.Selection.Correlation,
		Year:        res.Selection.Year,
		BelowMin:    res.Selection.BelowMin,
		AboveMax:    res.Selection.AboveMax,
	}, outName, nil
}

// prepareOutputDir creates the output folder, clearing leftover txt files
// from a previous run.
func prepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	old, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return err
	}
	for _, f := range old {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.Render(f)
}
