// Package delegate wraps the external go-echarts calls that render the
// bulk of the chart and report artifacts. Both invokers run the library
// behind a guard that suppresses its stdout noise and converts panics into
// DELEGATE errors, because the pipeline's stdout must stay a single JSON
// document no matter what the library does.
package delegate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"datalens/internal/charts"
	"datalens/internal/config"
	"datalens/internal/dataset"
	apperrors "datalens/internal/errors"
)

// unsafeFilename matches the characters replaced when a column name is
// turned into an artifact filename.
var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// topCategoryLimit bounds how many distinct values a categorical column
// chart shows.
const topCategoryLimit = 10

// ChartSuite renders one chart per analyzed column, the counterpart of the
// automated per-column visualization pass of the original pipelines.
type ChartSuite struct {
	logger *slog.Logger
	cfg    config.AnalysisConfig
}

// NewChartSuite creates a chart-suite invoker.
func NewChartSuite(logger *slog.Logger, cfg config.AnalysisConfig) *ChartSuite {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartSuite{logger: logger, cfg: cfg}
}

// Generate renders one HTML chart for each column, capped at the
// configured column limit and sampling down to the configured row limit.
// Returns the filenames produced.
func (c *ChartSuite) Generate(ctx context.Context, ds *dataset.Dataset, outDir string) ([]string, error) {
	var files []string

	captured, err := invoke("chart suite", func() error {
		cols := ds.Columns
		if len(cols) > c.cfg.MaxColsAnalyzed {
			cols = cols[:c.cfg.MaxColsAnalyzed]
		}

		for i := range cols {
			name, err := c.renderColumn(&cols[i], outDir)
			if err != nil {
				return err
			}
			if name != "" {
				files = append(files, name)
			}
		}
		return nil
	})
	if captured != "" {
		c.logger.DebugContext(ctx, "suppressed delegate output",
			slog.Int("bytes", len(captured)))
	}
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "chart suite completed",
		slog.Int("charts", len(files)),
		slog.String("output_dir", outDir))
	return files, nil
}

// renderColumn renders a histogram for a numeric column or a top-values
// bar chart for a categorical one. Columns with no usable values are
// skipped.
func (c *ChartSuite) renderColumn(col *dataset.Column, outDir string) (string, error) {
	var labels []string
	var counts []int

	switch col.Kind {
	case dataset.KindNumeric:
		labels, counts = charts.BuildHistogram(sampleFloats(col.Numeric, c.cfg.MaxRowsAnalyzed), 10)
	case dataset.KindCategorical:
		labels, counts = topCategories(sampleStrings(col.Values, c.cfg.MaxRowsAnalyzed), topCategoryLimit)
	}
	if len(labels) == 0 {
		return "", nil
	}

	bars := make([]opts.BarData, len(counts))
	for i, v := range counts {
		bars[i] = opts.BarData{Value: v}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: col.Name, Left: "center"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(labels).AddSeries(col.Name, bars)

	name := fmt.Sprintf("column_%s.html", sanitizeFilename(col.Name))
	if err := renderTo(bar, filepath.Join(outDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// topCategories counts the distinct values and returns the most frequent
// ones, ties resolved by first-encountered order.
func topCategories(values []string, limit int) ([]string, []int) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return nil, nil
	}

	// Stable selection sort by count keeps first-encountered order on ties.
	for i := 0; i < len(order); i++ {
		best := i
		for j := i + 1; j < len(order); j++ {
			if counts[order[j]] > counts[order[best]] {
				best = j
			}
		}
		if best != i {
			picked := order[best]
			copy(order[i+1:best+1], order[i:best])
			order[i] = picked
		}
	}
	if len(order) > limit {
		order = order[:limit]
	}

	out := make([]int, len(order))
	for i, v := range order {
		out[i] = counts[v]
	}
	return order, out
}

func sampleFloats(values []float64, max int) []float64 {
	if len(values) <= max {
		return values
	}
	return values[:max]
}

func sampleStrings(values []string, max int) []string {
	if len(values) <= max {
		return values
	}
	return values[:max]
}

func sanitizeFilename(name string) string {
	clean := unsafeFilename.ReplaceAllString(strings.TrimSpace(name), "_")
	if clean == "" {
		return "column"
	}
	return clean
}

type renderer interface {
	Render(w io.Writer) error
}

func renderTo(r renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create chart file %s", filepath.Base(path)), err)
	}
	defer f.Close()
	if err := r.Render(f); err != nil {
		return apperrors.NewDelegateError(fmt.Sprintf("failed to render %s", filepath.Base(path)), err)
	}
	return nil
}

// hasValues reports whether a numeric slice has at least one non-NaN value.
func hasValues(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
