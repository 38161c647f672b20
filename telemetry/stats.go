package telemetry

import (
	"log/slog"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the q-th quantile of sorted values, q in [0, 1].
// Returns 0 for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// LoadRecord captures the outcome of one asset load.
type LoadRecord struct {
	Key      string        `csv:"key"`
	Duration time.Duration `csv:"-"`
	Millis   float64       `csv:"duration_ms"`
	OK       bool          `csv:"ok"`
	Error    string        `csv:"error"`
}

// LoadTracker records asset-load outcomes. Loads complete on arbitrary
// goroutines, so the tracker locks; everything else in this package is
// tick-confined.
type LoadTracker struct {
	mu      sync.Mutex
	records []LoadRecord
}

// NewLoadTracker creates an empty tracker.
func NewLoadTracker() *LoadTracker {
	return &LoadTracker{}
}

// Record logs and stores one load outcome.
func (t *LoadTracker) Record(key string, d time.Duration, err error) {
	rec := LoadRecord{Key: key, Duration: d, Millis: float64(d) / float64(time.Millisecond), OK: err == nil}
	if err != nil {
		rec.Error = err.Error()
		slog.Error("asset load failed", "key", key, "duration_ms", rec.Millis, "error", err)
	} else {
		slog.Info("asset loaded", "key", key, "duration_ms", rec.Millis)
	}

	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()
}

// Records returns a copy of all recorded loads.
func (t *LoadTracker) Records() []LoadRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]LoadRecord, len(t.records))
	copy(out, t.records)
	return out
}
