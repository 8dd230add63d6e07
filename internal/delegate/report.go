package delegate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"datalens/internal/charts"
	"datalens/internal/config"
	"datalens/internal/dataset"
)

// Report filenames. The targeted variant embeds the target column name.
const (
	ComprehensiveReportFile = "report_comprehensive_analysis.html"
	targetedReportPattern   = "report_targeted_analysis_%s.html"
)

// ReportBuilder assembles the single-page HTML analysis report, the
// counterpart of the full-report delegate of the original pipeline. Unlike
// the chart suite, a ReportBuilder failure is fatal to its pipeline: the
// report is the primary deliverable there.
type ReportBuilder struct {
	logger *slog.Logger
	cfg    config.AnalysisConfig
}

// NewReportBuilder creates a report builder.
func NewReportBuilder(logger *slog.Logger, cfg config.AnalysisConfig) *ReportBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportBuilder{logger: logger, cfg: cfg}
}

// Build renders the report into outDir and returns its filename. When
// target names an existing column, the report is the targeted variant and
// additionally relates every numeric column to the target. Columns whose
// name contains "id" are excluded from per-column sections.
func (b *ReportBuilder) Build(ctx context.Context, ds *dataset.Dataset, outDir, target string) (string, error) {
	targetCol := ds.Column(target)
	name := ComprehensiveReportFile
	title := "Comprehensive Data Analysis"
	if targetCol != nil {
		name = fmt.Sprintf(targetedReportPattern, sanitizeFilename(target))
		title = fmt.Sprintf("Targeted Data Analysis: %s", target)
	}

	captured, err := invoke("report builder", func() error {
		page := components.NewPage()
		page.PageTitle = title
		page.SetLayout(components.PageFlexLayout)

		page.AddCharts(b.overviewChart(ds))

		for i := range ds.Columns {
			col := &ds.Columns[i]
			if isIDColumn(col.Name) {
				continue
			}
			if chart := b.columnChart(col); chart != nil {
				page.AddCharts(chart)
			}
		}

		if targetCol != nil {
			for _, chart := range b.targetCharts(ds, targetCol) {
				page.AddCharts(chart)
			}
		}

		return renderTo(page, filepath.Join(outDir, name))
	})
	if captured != "" {
		b.logger.DebugContext(ctx, "suppressed delegate output",
			slog.Int("bytes", len(captured)))
	}
	if err != nil {
		return "", err
	}

	b.logger.InfoContext(ctx, "report generated",
		slog.String("report", name),
		slog.String("output_dir", outDir))
	return name, nil
}

// overviewChart summarizes per-column missing counts.
func (b *ReportBuilder) overviewChart(ds *dataset.Dataset) components.Charter {
	names := make([]string, len(ds.Columns))
	bars := make([]opts.BarData, len(ds.Columns))
	for i := range ds.Columns {
		names[i] = ds.Columns[i].Name
		bars[i] = opts.BarData{Value: ds.Columns[i].Missing}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: "Missing Values by Column", Left: "center"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(names).AddSeries("missing", bars)
	return bar
}

// columnChart renders the per-column section chart, or nil for a column
// with no usable values.
func (b *ReportBuilder) columnChart(col *dataset.Column) components.Charter {
	var labels []string
	var counts []int

	switch col.Kind {
	case dataset.KindNumeric:
		if !hasValues(col.Numeric) {
			return nil
		}
		labels, counts = charts.BuildHistogram(sampleFloats(col.Numeric, b.cfg.MaxRowsAnalyzed), 10)
	case dataset.KindCategorical:
		labels, counts = topCategories(sampleStrings(col.Values, b.cfg.MaxRowsAnalyzed), topCategoryLimit)
	}
	if len(labels) == 0 {
		return nil
	}

	bars := make([]opts.BarData, len(counts))
	for i, v := range counts {
		bars[i] = opts.BarData{Value: v}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: col.Name}),
		echarts.WithInitializationOpts(opts.Initialization{Width: "540px", Height: "320px"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(labels).AddSeries(col.Name, bars)
	return bar
}

// targetCharts relates the target column to every numeric column: scatter
// plots for a numeric target, per-category mean bars for a categorical one.
func (b *ReportBuilder) targetCharts(ds *dataset.Dataset, target *dataset.Column) []components.Charter {
	var out []components.Charter

	for _, col := range ds.NumericColumns() {
		if col.Name == target.Name || isIDColumn(col.Name) {
			continue
		}
		var chart components.Charter
		if target.Kind == dataset.KindNumeric {
			chart = scatterChart(target, col, b.cfg.MaxRowsAnalyzed)
		} else {
			chart = groupedMeanChart(target, col)
		}
		if chart != nil {
			out = append(out, chart)
		}
	}
	return out
}

// scatterChart plots col against a numeric target, rows with a missing
// side dropped.
func scatterChart(target, col *dataset.Column, maxRows int) components.Charter {
	var points []opts.ScatterData
	for i := range col.Numeric {
		if i >= maxRows {
			break
		}
		x, y := target.Numeric[i], col.Numeric[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		points = append(points, opts.ScatterData{Value: []interface{}{x, y}})
	}
	if len(points) == 0 {
		return nil
	}

	sc := echarts.NewScatter()
	sc.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s vs %s", col.Name, target.Name)}),
		echarts.WithInitializationOpts(opts.Initialization{Width: "540px", Height: "320px"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithXAxisOpts(opts.XAxis{Type: "value", Name: target.Name}),
		echarts.WithYAxisOpts(opts.YAxis{Type: "value", Name: col.Name}),
	)
	sc.AddSeries(col.Name, points)
	return sc
}

// groupedMeanChart plots the mean of col per category of the target.
func groupedMeanChart(target, col *dataset.Column) components.Charter {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	for i, label := range target.Values {
		if label == "" || math.IsNaN(col.Numeric[i]) {
			continue
		}
		if counts[label] == 0 {
			order = append(order, label)
		}
		sums[label] += col.Numeric[i]
		counts[label]++
	}
	if len(order) == 0 {
		return nil
	}
	if len(order) > topCategoryLimit {
		order = order[:topCategoryLimit]
	}

	bars := make([]opts.BarData, len(order))
	for i, label := range order {
		bars[i] = opts.BarData{Value: sums[label] / float64(counts[label])}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Mean %s by %s", col.Name, target.Name)}),
		echarts.WithInitializationOpts(opts.Initialization{Width: "540px", Height: "320px"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(order).AddSeries(col.Name, bars)
	return bar
}

// isIDColumn reports whether a column is an identifier by name, mirroring
// the id-skip behavior of the report delegate configuration.
func isIDColumn(name string) bool {
	return strings.Contains(strings.ToLower(name), "id")
}
