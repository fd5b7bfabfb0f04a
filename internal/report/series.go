package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// defaultBaseName is the engine's default output base name; it keeps
	// its name as-is instead of having the series prefix stripped.
	defaultBaseName = "eplus"
	seriesPrefix    = "eplus-"
)

// Series is one CSV output of a run: either a structured table, or the
// raw file content when the CSV could not be parsed. Exactly one of the
// two branches is set.
type Series struct {
	Table *Table
	Raw   string
}

// IsRaw reports whether parsing failed and only the raw text is
// available.
func (s Series) IsRaw() bool {
	return s.Table == nil
}

// ParseTimeSeries reads every *.csv file in dir into a mapping from
// derived name to its parsed content. The name is the filename without
// extension, with the "eplus-" prefix stripped unless the name is
// exactly the engine's default base name. A file that fails to parse is
// kept as raw text and logged as a warning; it never fails the call.
func ParseTimeSeries(dir string, logger *slog.Logger) (map[string]Series, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read working directory: %w", err)
	}

	series := make(map[string]Series)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".csv")
		if name != defaultBaseName {
			name = strings.TrimPrefix(name, seriesPrefix)
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		table, err := parseCSV(data)
		if err != nil {
			logger.Warn("unable to parse csv file, keeping raw content",
				"file", path, "error", err)
			series[name] = Series{Raw: string(data)}
			continue
		}
		series[name] = Series{Table: table}
	}

	return series, nil
}

// parseCSV reads a comma-delimited table with a header row.
func parseCSV(data []byte) (*Table, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv")
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}
