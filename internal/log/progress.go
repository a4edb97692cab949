// Package log carries run-time output helpers shared by the batch driver.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressIndicator provides visual feedback while the batch walks the input
// files. It is safe for concurrent use by the worker pool.
type ProgressIndicator struct {
	mu        sync.Mutex
	name      string
	total     int
	current   int
	startTime time.Time
	plain     bool
}

// NewProgressIndicator creates a progress indicator for total steps. In plain
// mode (no TTY) it prints one line per update instead of redrawing the bar.
func NewProgressIndicator(name string, total int, plain bool) *ProgressIndicator {
	return &ProgressIndicator{
		name:      name,
		total:     total,
		startTime: time.Now(),
		plain:     plain,
	}
}

// Increment advances progress by one step.
func (pi *ProgressIndicator) Increment() {
	pi.Add(1)
}

// Add advances progress by n steps.
func (pi *ProgressIndicator) Add(n int) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	pi.current += n
	pi.print()
}

// Update sets the current progress value.
func (pi *ProgressIndicator) Update(current int) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	pi.current = current
	pi.print()
}

// Finish completes the indicator and reports the elapsed time.
func (pi *ProgressIndicator) Finish() {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	duration := time.Since(pi.startTime).Round(time.Millisecond)
	if !pi.plain {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	fmt.Fprintf(os.Stderr, "%s completed (%d items, %v)\n", pi.name, pi.total, duration)
}

func (pi *ProgressIndicator) print() {
	pct := 0.0
	if pi.total > 0 {
		pct = float64(pi.current) / float64(pi.total) * 100
	}
	if pi.plain {
		fmt.Fprintf(os.Stderr, "%s: %d/%d (%.0f%%)\n", pi.name, pi.current, pi.total, pct)
		return
	}
	const width = 30
	filled := 0
	if pi.total > 0 {
		filled = pi.current * width / pi.total
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Fprintf(os.Stderr, "\r%s [%s] %d/%d (%.0f%%)", pi.name, bar, pi.current, pi.total, pct)
}
