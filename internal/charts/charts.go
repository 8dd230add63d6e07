// Package charts renders the supplementary HTML charts of the
// visualization pipeline with go-echarts: the correlation heatmap, the
// distribution dashboard, and the box plot. Every chart lands in the
// output directory under a fixed, role-based filename.
package charts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"datalens/internal/analysis"
	"datalens/internal/dataset"
	apperrors "datalens/internal/errors"
)

// Fixed artifact names, one per chart role.
const (
	CorrelationHeatmapFile   = "correlation_heatmap.html"
	DistributionAnalysisFile = "distribution_analysis.html"
	BoxPlotFile              = "professional_boxplot.html"
)

// maxDistributionColumns bounds how many numeric columns the distribution
// dashboard renders.
const maxDistributionColumns = 4

// Generator renders the supplementary charts.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a chart generator.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate renders every applicable supplementary chart and returns the
// filenames produced. Charts whose preconditions the dataset does not meet
// (e.g. a heatmap over a single numeric column) are skipped, not errors.
func (g *Generator) Generate(ctx context.Context, ds *dataset.Dataset, outDir string) ([]string, error) {
	var files []string

	for _, render := range []func(context.Context, *dataset.Dataset, string) (string, error){
		g.CorrelationHeatmap,
		g.DistributionDashboard,
		g.BoxPlot,
	} {
		name, err := render(ctx, ds, outDir)
		if err != nil {
			return files, err
		}
		if name != "" {
			files = append(files, name)
		}
	}

	g.logger.InfoContext(ctx, "generated supplementary charts",
		slog.Int("count", len(files)),
		slog.String("output_dir", outDir))
	return files, nil
}

// CorrelationHeatmap renders a Pearson correlation matrix over the numeric
// columns. Skipped (empty filename, nil error) with fewer than two numeric
// columns.
func (g *Generator) CorrelationHeatmap(ctx context.Context, ds *dataset.Dataset, outDir string) (string, error) {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return "", nil
	}

	names := make([]string, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
	}

	var cells []opts.HeatMapData
	for i, a := range numeric {
		for j, b := range numeric {
			r := analysis.Correlation(a.Numeric, b.Numeric)
			var value interface{} = math.Round(r*100) / 100
			if math.IsNaN(r) {
				value = nil
			}
			cells = append(cells, opts.HeatMapData{Value: [3]interface{}{i, j, value}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Correlation Analysis", Left: "center"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: names}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:     -1,
			Max:     1,
			InRange: &opts.VisualMapInRange{Color: []string{"#313695", "#ffffff", "#a50026"}},
		}),
	)
	hm.AddSeries("correlation", cells)

	if err := renderChart(hm, outDir, CorrelationHeatmapFile); err != nil {
		return "", err
	}
	return CorrelationHeatmapFile, nil
}

// DistributionDashboard renders histograms for up to four numeric columns
// on one page. Skipped when the dataset has no numeric columns.
func (g *Generator) DistributionDashboard(ctx context.Context, ds *dataset.Dataset, outDir string) (string, error) {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return "", nil
	}
	if len(numeric) > maxDistributionColumns {
		numeric = numeric[:maxDistributionColumns]
	}

	page := components.NewPage()
	page.PageTitle = "Distribution Analysis Dashboard"
	page.SetLayout(components.PageFlexLayout)

	rendered := 0
	for _, col := range numeric {
		labels, counts := BuildHistogram(col.NumericValues(), 10)
		if len(labels) == 0 {
			continue
		}
		bars := make([]opts.BarData, len(counts))
		for i, c := range counts {
			bars[i] = opts.BarData{Value: c}
		}

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: col.Name}),
			charts.WithInitializationOpts(opts.Initialization{Width: "540px", Height: "320px"}),
			charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		)
		bar.SetXAxis(labels).AddSeries(col.Name, bars)
		page.AddCharts(bar)
		rendered++
	}
	if rendered == 0 {
		return "", nil
	}

	if err := renderChart(page, outDir, DistributionAnalysisFile); err != nil {
		return "", err
	}
	return DistributionAnalysisFile, nil
}

// BoxPlot renders the first numeric column grouped by the first categorical
// column. Skipped unless the dataset has at least one of each.
func (g *Generator) BoxPlot(ctx context.Context, ds *dataset.Dataset, outDir string) (string, error) {
	numeric := ds.NumericColumns()
	categorical := ds.CategoricalColumns()
	if len(numeric) == 0 || len(categorical) == 0 {
		return "", nil
	}
	num, cat := numeric[0], categorical[0]

	groups := make(map[string][]float64)
	var order []string
	for i, label := range cat.Values {
		if label == "" || math.IsNaN(num.Numeric[i]) {
			continue
		}
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], num.Numeric[i])
	}
	if len(order) == 0 {
		return "", nil
	}

	boxes := make([]opts.BoxPlotData, len(order))
	for i, label := range order {
		boxes[i] = opts.BoxPlotData{Name: label, Value: fiveNumber(groups[label])}
	}

	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Box Plot: %s by %s", num.Name, cat.Name),
			Left:  "center",
		}),
	)
	bp.SetXAxis(order).AddSeries(num.Name, boxes)

	if err := renderChart(bp, outDir, BoxPlotFile); err != nil {
		return "", err
	}
	return BoxPlotFile, nil
}

// BuildHistogram bins values into up to bins uniform intervals and returns
// interval labels with per-bin counts. NaN values are skipped. A constant
// column collapses into a single bin.
func BuildHistogram(values []float64, bins int) ([]string, []int) {
	clean := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 || bins <= 0 {
		return nil, nil
	}

	min, max := analysis.MinMax(clean)
	if min == max {
		return []string{fmt.Sprintf("%.2f", min)}, []int{len(clean)}
	}

	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, v := range clean {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	labels := make([]string, bins)
	for i := range labels {
		lo := min + float64(i)*width
		labels[i] = fmt.Sprintf("%.2f-%.2f", lo, lo+width)
	}
	return labels, counts
}

// fiveNumber returns [min, Q1, median, Q3, max] for a box plot series.
func fiveNumber(values []float64) []float64 {
	min, max := analysis.MinMax(values)
	return []float64{
		min,
		analysis.Quantile(values, 0.25),
		analysis.Median(values),
		analysis.Quantile(values, 0.75),
		max,
	}
}

type renderer interface {
	Render(w io.Writer) error
}

func renderChart(c renderer, outDir, name string) error {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create chart file %s", name), err)
	}
	defer f.Close()
	if err := c.Render(f); err != nil {
		return apperrors.NewDelegateError(fmt.Sprintf("failed to render chart %s", name), err)
	}
	return nil
}
