package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"datalens/internal/analysis"
	"datalens/internal/config"
	"datalens/internal/dataset"
	"datalens/internal/delegate"
	apperrors "datalens/internal/errors"
	"datalens/internal/exporter"
	"datalens/pkg/contracts"
)

// Report is the full-report pipeline behind the reportgen CLI.
type Report struct {
	logger     *slog.Logger
	cfg        *config.Config
	loader     *dataset.Loader
	builder    reportDelegate
	summarizer *analysis.Summarizer
	exporter   *exporter.Exporter
}

// NewReport assembles the report pipeline.
func NewReport(logger *slog.Logger, cfg *config.Config) *Report {
	if logger == nil {
		logger = slog.Default()
	}
	return &Report{
		logger:     logger,
		cfg:        cfg,
		loader:     dataset.NewLoader(logger),
		builder:    delegate.NewReportBuilder(logger, cfg.Analysis),
		summarizer: analysis.NewSummarizer(logger),
		exporter:   exporter.NewExporter(logger),
	}
}

// Run executes the pipeline over the CSV at csvFile, writing the report
// and summary artifacts into outDir. Unlike the visualization pipeline, a
// failed report build fails the whole run: the report is the primary
// deliverable. The error envelope still carries the parsed dataset shape
// for diagnostics.
func (p *Report) Run(ctx context.Context, csvFile, outDir, target string) *contracts.ReportResult {
	ds, err := p.loader.Load(ctx, csvFile)
	if err != nil {
		return reportError(outDir, err, nil)
	}

	basicInfo := &contracts.BasicInfo{
		Rows:        ds.Rows(),
		Columns:     ds.ColumnCount(),
		ColumnsList: ds.ColumnNames(),
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return reportError(outDir, apperrors.NewStorageError("failed to create output directory", err), basicInfo)
	}

	reportName, err := p.builder.Build(ctx, ds, outDir, target)
	if err != nil {
		p.logger.ErrorContext(ctx, "report build failed",
			slog.String("error", err.Error()))
		return reportError(outDir, err, basicInfo)
	}

	summary := p.summarizer.Summarize(ctx, ds)

	// Summary artifacts are secondary to the report itself: a write
	// failure is logged and the run still succeeds.
	if err := p.exporter.WriteJSON(ctx, filepath.Join(outDir, exporter.ReportSummaryFile), summary); err != nil {
		p.logger.WarnContext(ctx, "failed to persist summary stats",
			slog.String("error", err.Error()))
	}
	if p.cfg.Analysis.ExcelExport {
		if err := p.exporter.WriteWorkbook(ctx, filepath.Join(outDir, exporter.WorkbookFile), summary); err != nil {
			p.logger.WarnContext(ctx, "failed to write summary workbook",
				slog.String("error", err.Error()))
		}
	}

	result := &contracts.ReportResult{
		Status:          contracts.StatusSuccess,
		ReportGenerated: true,
		MainReport:      reportName,
		ReportFile:      filepath.Join(outDir, reportName),
		OutputDirectory: outDir,
		SummaryStats:    summary,
		DataInsights:    analysis.Insights(summary, p.cfg.Insights),
	}

	p.logger.InfoContext(ctx, "report pipeline completed",
		slog.String("report", reportName),
		slog.Int("insights", len(result.DataInsights)))
	return result
}

func reportError(outDir string, err error, basicInfo *contracts.BasicInfo) *contracts.ReportResult {
	return &contracts.ReportResult{
		Status:          contracts.StatusError,
		ReportGenerated: false,
		ReportFile:      "",
		OutputDirectory: outDir,
		DataInsights:    []contracts.Insight{},
		BasicInfo:       basicInfo,
		Error:           apperrors.MessageOf(err),
		ErrorType:       string(apperrors.TypeOf(err)),
	}
}
