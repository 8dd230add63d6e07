// Package exporter persists computed summaries: the JSON summary document,
// the optional Excel workbook, and the listing of generated artifacts.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "datalens/internal/errors"
)

// Summary artifact filenames, one per pipeline.
const (
	VizSummaryFile    = "analysis_summary.json"
	ReportSummaryFile = "report_summary_stats.json"
)

// Exporter writes summary artifacts into an output directory.
type Exporter struct {
	logger *slog.Logger
}

// NewExporter creates an exporter.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// WriteJSON writes v as an indented JSON document to path, creating parent
// directories as needed. Undefined statistics marshal as null through the
// contracts.NullableFloat type, so encoding never fails on NaN.
func (e *Exporter) WriteJSON(ctx context.Context, path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for JSON output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create JSON file %s", filepath.Base(path)), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to encode JSON file %s", filepath.Base(path)), err)
	}

	e.logger.InfoContext(ctx, "wrote summary JSON", slog.String("path", path))
	return nil
}
