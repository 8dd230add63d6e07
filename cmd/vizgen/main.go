// Command vizgen generates automated visualizations for a CSV file.
//
//	vizgen <csv_file> <output_dir>
//
// The only thing vizgen ever prints to stdout is a single JSON result
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
	// The outermost guard: whatever happens, stdout gets a JSON envelope.
	defer func() {
		if r := recover(); r != nil {
			emit(&contracts.VisualizationResult{
				Status:          contracts.StatusError,
				ChartsGenerated: 0,
				ChartFiles:      []string{},
				Error:           fmt.Sprintf("visualization generation failed: %v", r),
				ErrorType:       string(apperrors.ErrTypeInternal),
			})
		}
	}()

	if len(os.Args) != 3 {
		emit(&contracts.VisualizationResult{
			Status:          contracts.StatusError,
			ChartsGenerated: 0,
			ChartFiles:      []string{},
			Error:           "Usage: vizgen <csv_file> <output_dir>",
			ErrorType:       string(apperrors.ErrTypeUsage),
		})
		return
	}
	csvFile, outDir := os.Args[1], os.Args[2]

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
	logger.InfoContext(ctx, "starting visualization generation",
		slog.String("version", contracts.VersionString()),
		slog.String("csv_file", csvFile),
		slog.String("output_dir", outDir))

	result := pipeline.NewVisualization(logger, cfg).Run(ctx, csvFile, outDir)
	emit(result)
}

// emit prints the result envelope to stdout as the process's sole output.
func emit(result *contracts.VisualizationResult) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		// Last resort: a minimal envelope assembled by hand.
		fmt.Printf("{\"status\": \"error\", \"error\": %q, \"error_type\": \"INTERNAL\"}\n", err.Error())
	}
}
