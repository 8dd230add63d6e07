// Command reportgen generates a comprehensive HTML analysis report for a
// CSV file.
//
//	reportgen <csv_file> <output_dir> [target_column]
//
// The only thing reportgen ever prints to stdout is a single JSON result
// envelope, success or failure, and the process always exits 0. Logs go to
// stderr or a log file, never stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"datalens/internal/config"
	apperrors "datalens/internal/errors"
	"datalens/internal/infrastructure"
	"datalens/internal/pipeline"
	"datalens/pkg/contracts"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			emit(&contracts.ReportResult{
				Status:          contracts.StatusError,
				ReportGenerated: false,
				DataInsights:    []contracts.Insight{},
				Error:           fmt.Sprintf("report generation failed: %v", r),
				ErrorType:       string(apperrors.ErrTypeInternal),
			})
		}
	}()

	if len(os.Args) < 3 {
		emit(&contracts.ReportResult{
			Status:          contracts.StatusError,
			ReportGenerated: false,
			DataInsights:    []contracts.Insight{},
			Error:           "Usage: reportgen <csv_file> <output_dir> [target_column]",
			ErrorType:       string(apperrors.ErrTypeUsage),
		})
		return
	}
	csvFile, outDir := os.Args[1], os.Args[2]
	target := ""
	if len(os.Args) > 3 {
		target = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())
	logger.InfoContext(ctx, "starting report generation",
		slog.String("version", contracts.VersionString()),
		slog.String("csv_file", csvFile),
		slog.String("output_dir", outDir),
		slog.String("target_column", target))

	result := pipeline.NewReport(logger, cfg).Run(ctx, csvFile, outDir, target)
	emit(result)
}

// emit prints the result envelope to stdout as the process's sole output.
func emit(result *contracts.ReportResult) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Printf("{\"status\": \"error\", \"error\": %q, \"error_type\": \"INTERNAL\"}\n", err.Error())
	}
}
