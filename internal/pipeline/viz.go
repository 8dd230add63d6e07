// Package pipeline wires the stages of the two CSV analysis pipelines:
// load, delegate, summarize, serialize. A pipeline never returns an error;
// every failure is converted into an error envelope so the caller always
// has exactly one JSON document to print.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"datalens/internal/analysis"
	"datalens/internal/charts"
	"datalens/internal/config"
	"datalens/internal/dataset"
	"datalens/internal/delegate"
	apperrors "datalens/internal/errors"
	"datalens/internal/exporter"
	"datalens/pkg/contracts"
)

// chartExtensions are the artifact extensions listed as chart files.
var chartExtensions = []string{".html", ".png", ".jpg", ".svg"}

// chartDelegate is the delegate chart call as the pipeline sees it: an
// opaque function producing files in the output directory.
type chartDelegate interface {
	Generate(ctx context.Context, ds *dataset.Dataset, outDir string) ([]string, error)
}

// reportDelegate is the delegate report call as the pipeline sees it.
type reportDelegate interface {
	Build(ctx context.Context, ds *dataset.Dataset, outDir, target string) (string, error)
}

// Visualization is the chart-generation pipeline behind the vizgen CLI.
type Visualization struct {
	logger     *slog.Logger
	loader     *dataset.Loader
	suite      chartDelegate
	charts     *charts.Generator
	summarizer *analysis.Summarizer
	exporter   *exporter.Exporter
}

// NewVisualization assembles the visualization pipeline.
func NewVisualization(logger *slog.Logger, cfg *config.Config) *Visualization {
	if logger == nil {
		logger = slog.Default()
	}
	return &Visualization{
		logger:     logger,
		loader:     dataset.NewLoader(logger),
		suite:      delegate.NewChartSuite(logger, cfg.Analysis),
		charts:     charts.NewGenerator(logger),
		summarizer: analysis.NewSummarizer(logger),
		exporter:   exporter.NewExporter(logger),
	}
}

// Run executes the pipeline over the CSV at csvFile, writing artifacts
// into outDir. A chart-suite failure degrades to zero delegate charts and
// the run continues; any other failure produces an error envelope.
func (p *Visualization) Run(ctx context.Context, csvFile, outDir string) *contracts.VisualizationResult {
	ds, err := p.loader.Load(ctx, csvFile)
	if err != nil {
		return vizError(outDir, err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return vizError(outDir, apperrors.NewStorageError("failed to create output directory", err))
	}

	// The chart suite degrades gracefully: a failed delegate call means
	// zero delegate charts, not a failed run.
	suiteFiles, err := p.suite.Generate(ctx, ds, outDir)
	if err != nil {
		p.logger.WarnContext(ctx, "chart suite failed, continuing without delegate charts",
			slog.String("error", err.Error()))
		suiteFiles = nil
	}

	supplementary, err := p.charts.Generate(ctx, ds, outDir)
	if err != nil {
		return vizError(outDir, err)
	}

	summary := p.summarizer.Overview(ctx, ds)
	if err := p.exporter.WriteJSON(ctx, filepath.Join(outDir, exporter.VizSummaryFile), summary); err != nil {
		return vizError(outDir, err)
	}

	result := &contracts.VisualizationResult{
		Status:          contracts.StatusSuccess,
		ChartsGenerated: len(suiteFiles) + len(supplementary),
		OutputDirectory: outDir,
		Summary:         summary,
		ChartFiles:      exporter.ListArtifacts(outDir, chartExtensions...),
	}

	p.logger.InfoContext(ctx, "visualization pipeline completed",
		slog.Int("charts_generated", result.ChartsGenerated),
		slog.String("output_dir", outDir))
	return result
}

func vizError(outDir string, err error) *contracts.VisualizationResult {
	return &contracts.VisualizationResult{
		Status:          contracts.StatusError,
		ChartsGenerated: 0,
		OutputDirectory: outDir,
		ChartFiles:      []string{},
		Error:           apperrors.MessageOf(err),
		ErrorType:       string(apperrors.TypeOf(err)),
	}
}
