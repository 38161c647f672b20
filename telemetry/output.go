package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// FrameRecord is one CSV row of aggregated frame timing.
type FrameRecord struct {
	Tick       int     `csv:"tick"`
	AvgTickUs  int64   `csv:"avg_tick_us"`
	P50TickUs  int64   `csv:"p50_tick_us"`
	P90TickUs  int64   `csv:"p90_tick_us"`
	MaxTickUs  int64   `csv:"max_tick_us"`
	TicksPerSe float64 `csv:"ticks_per_sec"`
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir       string
	frameFile *os.File
	loadFile  *os.File

	frameHeaderWritten bool
	loadHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.frameFile = f

	f, err = os.Create(filepath.Join(dir, "loads.csv"))
	if err != nil {
		om.frameFile.Close()
		return nil, fmt.Errorf("creating loads.csv: %w", err)
	}
	om.loadFile = f

	return om, nil
}

// WriteFrameStats appends one aggregated frame-timing row.
func (om *OutputManager) WriteFrameStats(tick int, s PerfStats) error {
	if om == nil {
		return nil
	}
	records := []FrameRecord{{
		Tick:       tick,
		AvgTickUs:  s.AvgTickDuration.Microseconds(),
		P50TickUs:  s.P50TickDuration.Microseconds(),
		P90TickUs:  s.P90TickDuration.Microseconds(),
		MaxTickUs:  s.MaxTickDuration.Microseconds(),
		TicksPerSe: s.TicksPerSecond,
	}}

	if !om.frameHeaderWritten {
		om.frameHeaderWritten = true
		return gocsv.Marshal(records, om.frameFile)
	}
	return gocsv.MarshalWithoutHeaders(records, om.frameFile)
}

// WriteLoads writes all recorded asset loads.
func (om *OutputManager) WriteLoads(records []LoadRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if !om.loadHeaderWritten {
		om.loadHeaderWritten = true
		return gocsv.Marshal(records, om.loadFile)
	}
	return gocsv.MarshalWithoutHeaders(records, om.loadFile)
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var first error
	if err := om.frameFile.Close(); err != nil {
		first = err
	}
	if err := om.loadFile.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
