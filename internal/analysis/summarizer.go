// Package analysis computes descriptive statistics and heuristic
// data-quality insights from a loaded dataset.
package analysis

import (
	"context"
	"log/slog"

	"datalens/internal/dataset"
	"datalens/pkg/contracts"
)

// Summarizer computes summary records from datasets.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize computes the full summary record used by the report pipeline:
// dataset shape, data-quality percentages, and per-column statistics.
func (s *Summarizer) Summarize(ctx context.Context, ds *dataset.Dataset) *contracts.SummaryStats {
	numeric := ds.NumericColumns()
	categorical := ds.CategoricalColumns()

	summary := &contracts.SummaryStats{
		DatasetInfo: contracts.DatasetInfo{
			TotalRows:          ds.Rows(),
			TotalColumns:       ds.ColumnCount(),
			NumericColumns:     len(numeric),
			CategoricalColumns: len(categorical),
			MissingValues:      ds.MissingCells(),
			DuplicateRows:      ds.DuplicateRows(),
		},
		DataQuality: contracts.DataQuality{
			CompletenessPercentage: completeness(ds),
			DuplicatePercentage:    duplicatePercentage(ds),
		},
		ColumnTypes: contracts.ColumnTypes{
			Numeric:     columnNames(numeric),
			Categorical: columnNames(categorical),
		},
	}

	if len(numeric) > 0 {
		summary.NumericStatistics = make(map[string]contracts.NumericStats, len(numeric))
		for _, col := range numeric {
			summary.NumericStatistics[col.Name] = numericStats(col)
		}
	}

	if len(categorical) > 0 {
		summary.CategoricalStats = make(map[string]contracts.CategoricalStats, len(categorical))
		for _, col := range categorical {
			summary.CategoricalStats[col.Name] = categoricalStats(col)
		}
	}

	s.logger.DebugContext(ctx, "computed summary statistics",
		slog.Int("rows", summary.DatasetInfo.TotalRows),
		slog.Int("columns", summary.DatasetInfo.TotalColumns),
		slog.Float64("completeness_pct", summary.DataQuality.CompletenessPercentage))

	return summary
}

// Overview computes the compact summary embedded in the visualization
// envelope and persisted as analysis_summary.json.
func (s *Summarizer) Overview(ctx context.Context, ds *dataset.Dataset) *contracts.VizSummary {
	return &contracts.VizSummary{
		DatasetInfo: contracts.VizDatasetInfo{
			Rows:               ds.Rows(),
			Columns:            ds.ColumnCount(),
			NumericColumns:     len(ds.NumericColumns()),
			CategoricalColumns: len(ds.CategoricalColumns()),
			MissingValues:      ds.MissingCells(),
		},
		DataQuality: contracts.VizDataQuality{
			Completeness: completeness(ds),
			Duplicates:   ds.DuplicateRows(),
		},
	}
}

// completeness returns (1 - missing/(rows*cols)) * 100.
func completeness(ds *dataset.Dataset) float64 {
	cells := ds.Rows() * ds.ColumnCount()
	if cells == 0 {
		return 0
	}
	return (1 - float64(ds.MissingCells())/float64(cells)) * 100
}

// duplicatePercentage returns duplicates/rows * 100.
func duplicatePercentage(ds *dataset.Dataset) float64 {
	if ds.Rows() == 0 {
		return 0
	}
	return float64(ds.DuplicateRows()) / float64(ds.Rows()) * 100
}

func numericStats(col *dataset.Column) contracts.NumericStats {
	values := col.NumericValues()
	min, max := MinMax(values)
	return contracts.NumericStats{
		Mean:         contracts.NullableFloat(Mean(values)),
		Median:       contracts.NullableFloat(Median(values)),
		Std:          contracts.NullableFloat(StdDev(values)),
		Min:          contracts.NullableFloat(min),
		Max:          contracts.NullableFloat(max),
		MissingCount: col.Missing,
	}
}

func categoricalStats(col *dataset.Column) contracts.CategoricalStats {
	counts := make(map[string]int)
	var order []string
	for _, v := range col.Values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	// Ties go to the value seen first, which is why insertion order is
	// tracked separately from the count map.
	mostFrequent := "N/A"
	best := 0
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			mostFrequent = v
		}
	}

	return contracts.CategoricalStats{
		UniqueValues: len(counts),
		MostFrequent: mostFrequent,
		MissingCount: col.Missing,
	}
}

func columnNames(cols []*dataset.Column) []string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}
