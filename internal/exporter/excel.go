package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/xuri/excelize/v2"

	apperrors "datalens/internal/errors"
	"datalens/pkg/contracts"
)

// WorkbookFile is the Excel summary artifact name.
const WorkbookFile = "summary_statistics.xlsx"

// WriteWorkbook writes the summary record as an Excel workbook with
// Overview, Numeric Statistics and Categorical Statistics sheets. Columns
// are sorted by name so the workbook is deterministic.
func (e *Exporter) WriteWorkbook(ctx context.Context, path string, summary *contracts.SummaryStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverviewSheet(f, summary); err != nil {
		return err
	}
	if len(summary.NumericStatistics) > 0 {
		if err := writeNumericSheet(f, summary.NumericStatistics); err != nil {
			return err
		}
	}
	if len(summary.CategoricalStats) > 0 {
		if err := writeCategoricalSheet(f, summary.CategoricalStats); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save summary workbook", err)
	}

	e.logger.InfoContext(ctx, "wrote summary workbook", slog.String("path", path))
	return nil
}

func writeOverviewSheet(f *excelize.File, summary *contracts.SummaryStats) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperrors.NewStorageError("failed to create overview sheet", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Rows", summary.DatasetInfo.TotalRows},
		{"Total Columns", summary.DatasetInfo.TotalColumns},
		{"Numeric Columns", summary.DatasetInfo.NumericColumns},
		{"Categorical Columns", summary.DatasetInfo.CategoricalColumns},
		{"Missing Values", summary.DatasetInfo.MissingValues},
		{"Duplicate Rows", summary.DatasetInfo.DuplicateRows},
		{"Completeness %", summary.DataQuality.CompletenessPercentage},
		{"Duplicate %", summary.DataQuality.DuplicatePercentage},
	}
	return writeRows(f, sheet, rows)
}

func writeNumericSheet(f *excelize.File, stats map[string]contracts.NumericStats) error {
	const sheet = "Numeric Statistics"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError("failed to create numeric sheet", err)
	}

	rows := [][]interface{}{{"Column", "Mean", "Median", "Std", "Min", "Max", "Missing"}}
	for _, name := range sortedKeys(stats) {
		s := stats[name]
		rows = append(rows, []interface{}{
			name,
			cellValue(s.Mean),
			cellValue(s.Median),
			cellValue(s.Std),
			cellValue(s.Min),
			cellValue(s.Max),
			s.MissingCount,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeCategoricalSheet(f *excelize.File, stats map[string]contracts.CategoricalStats) error {
	const sheet = "Categorical Statistics"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError("failed to create categorical sheet", err)
	}

	rows := [][]interface{}{{"Column", "Unique Values", "Most Frequent", "Missing"}}
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := stats[name]
		rows = append(rows, []interface{}{name, s.UniqueValues, s.MostFrequent, s.MissingCount})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.NewStorageError("failed to compute cell coordinates", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d of sheet %s", i+1, sheet), err)
		}
	}
	return nil
}

// cellValue converts a NullableFloat to an Excel cell value, mapping
// undefined statistics to an empty cell.
func cellValue(v contracts.NullableFloat) interface{} {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return f
}

func sortedKeys(stats map[string]contracts.NumericStats) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
