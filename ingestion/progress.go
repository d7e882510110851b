package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker reports how many tasks of a run have finished and how many rows they inserted.
type progressTracker struct {
	writer         io.Writer
	total          int
	current        int
	rows           int64
	reportInterval int
	lastReported   int
	startTime      time.Time
	mu             sync.Mutex
}

// newProgressTracker creates a tracker for total tasks that reports every reportInterval tasks.
func newProgressTracker(writer io.Writer, total, reportInterval int) *progressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &progressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
		startTime:      time.Now(),
	}
}

// done records one finished task and the rows it inserted.
func (p *progressTracker) done(rows int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.rows += rows

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// finish prints the final line.
func (p *progressTracker) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.report()
	fmt.Fprintln(p.writer)
}

// report prints the current progress. Must be called with lock held.
func (p *progressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.rows) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d tasks (%.1f%%) - %d rows - %.1f rows/s",
		p.current, p.total, percentage, p.rows, rate)
}
