package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "datalens/internal/errors"
)

// missingSentinels are the raw cell values treated as missing, compared
// case-insensitively after trimming.
var missingSentinels = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
}

// Loader parses CSV files into Datasets.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new CSV loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads and parses the CSV file at path. The first record is the
// header. A missing file, an unreadable file, or a file with zero data rows
// or zero columns is an error; the returned error always carries an
// ErrorType for the envelope.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewInputError(fmt.Sprintf("CSV file does not exist: %s", path), nil)
		}
		return nil, apperrors.NewInputError(fmt.Sprintf("CSV file is not accessible: %s", path), err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("failed to open CSV file: %s", path), err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse CSV file: %s", path), err)
	}

	if len(records) == 0 || len(records[0]) == 0 {
		return nil, apperrors.NewInputError("CSV file is empty or could not be read", nil)
	}
	header := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		return nil, apperrors.NewInputError("CSV file is empty or could not be read", nil)
	}

	ds := &Dataset{
		Path:    path,
		Columns: make([]Column, len(header)),
		rows:    len(rows),
	}

	for j, name := range header {
		ds.Columns[j] = inferColumn(strings.TrimSpace(name), rows, j)
	}
	ds.duplicates = countDuplicates(rows)

	l.logger.InfoContext(ctx, "loaded CSV dataset",
		slog.String("path", path),
		slog.Int("rows", ds.rows),
		slog.Int("columns", len(ds.Columns)),
		slog.Int("missing_cells", ds.MissingCells()),
		slog.Int("duplicate_rows", ds.duplicates))

	return ds, nil
}

// inferColumn builds a typed column from the j-th field of every row.
func inferColumn(name string, rows [][]string, j int) Column {
	col := Column{
		Name: name,
		Raw:  make([]string, len(rows)),
	}

	numeric := make([]float64, len(rows))
	isNumeric := true

	for i, row := range rows {
		cell := strings.TrimSpace(row[j])
		col.Raw[i] = cell
		if isMissing(cell) {
			numeric[i] = math.NaN()
			col.Missing++
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if err != nil {
			isNumeric = false
			continue
		}
		numeric[i] = v
	}

	// A column with no values at all stays numeric: its statistics are
	// undefined and serialize as null downstream.
	if isNumeric {
		col.Kind = KindNumeric
		col.Numeric = numeric
		return col
	}

	col.Kind = KindCategorical
	col.Values = make([]string, len(rows))
	for i, cell := range col.Raw {
		if isMissing(cell) {
			col.Values[i] = ""
		} else {
			col.Values[i] = cell
		}
	}
	return col
}

func isMissing(cell string) bool {
	return missingSentinels[strings.ToLower(cell)]
}

// countDuplicates counts rows identical to an earlier row across all fields.
func countDuplicates(rows [][]string) int {
	seen := make(map[string]bool, len(rows))
	duplicates := 0
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true
	}
	return duplicates
}
