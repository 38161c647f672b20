// Package assets loads raw shape geometry and memoizes the resampled,
// normalized particle buffers built from it.
package assets

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Errors surfaced by sources. Load failures are logged and returned to the
// caller; they never reach the tick loop.
var (
	ErrNotFound = errors.New("assets: not found")
	ErrParse    = errors.New("assets: parse error")
)

// RawVertices is the unprocessed output of a source: a flat position array
// with three floats per vertex and the declared vertex count.
type RawVertices struct {
	Positions []float32
	Count     int
}

// Source supplies raw vertex data for a shape key. Implementations may block
// for arbitrary wall-clock time; callers run them off the tick loop.
type Source interface {
	LoadRawVertices(ctx context.Context, key string) (RawVertices, error)
}

// FileSource reads point clouds from disk under a root directory. Supported
// formats are .csv (x,y,z columns) and .xyz (whitespace-separated triples).
// Mesh formats like GLB are expected to arrive pre-extracted to one of these.
type FileSource struct {
	Root string
}

// LoadRawVertices implements Source.
func (s *FileSource) LoadRawVertices(ctx context.Context, key string) (RawVertices, error) {
	if err := ctx.Err(); err != nil {
		return RawVertices{}, err
	}

	path := filepath.Join(s.Root, filepath.Clean("/"+key))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RawVertices{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return RawVertices{}, fmt.Errorf("reading %s: %w", key, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(key, data)
	case ".xyz":
		return parseXYZ(key, data)
	default:
		return RawVertices{}, fmt.Errorf("%w: unsupported format %q for %s", ErrParse, filepath.Ext(path), key)
	}
}

// csvVertex is the gocsv row type for point-cloud CSV files.
type csvVertex struct {
	X float32 `csv:"x"`
	Y float32 `csv:"y"`
	Z float32 `csv:"z"`
}

func parseCSV(key string, data []byte) (RawVertices, error) {
	var rows []csvVertex
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return RawVertices{}, fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}

	positions := make([]float32, 0, len(rows)*3)
	for _, r := range rows {
		positions = append(positions, r.X, r.Y, r.Z)
	}
	return RawVertices{Positions: positions, Count: len(rows)}, nil
}

func parseXYZ(key string, data []byte) (RawVertices, error) {
	var positions []float32

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return RawVertices{}, fmt.Errorf("%w: %s line %d: want 3 coordinates, got %d", ErrParse, key, line, len(fields))
		}
		for _, f := range fields[:3] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return RawVertices{}, fmt.Errorf("%w: %s line %d: %v", ErrParse, key, line, err)
			}
			positions = append(positions, float32(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return RawVertices{}, fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}

	return RawVertices{Positions: positions, Count: len(positions) / 3}, nil
}
