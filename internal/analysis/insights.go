package analysis

import (
	"fmt"

	"datalens/internal/config"
	"datalens/pkg/contracts"
)

// Insights evaluates every heuristic rule against the summary record and
// returns the triggered diagnostics. It is a pure function of the summary
// and the thresholds: the same inputs always produce the same list.
//
// Threshold semantics: missing% at or above the warn threshold triggers the
// warning, strictly below the info threshold triggers the info message, and
// the band between them triggers neither. Row counts strictly below small
// or strictly above large trigger the sample-size rules.
func Insights(summary *contracts.SummaryStats, cfg config.InsightConfig) []contracts.Insight {
	insights := make([]contracts.Insight, 0, 3)

	missingPct := 100 - summary.DataQuality.CompletenessPercentage

	switch {
	case missingPct >= cfg.MissingWarnPercent:
		insights = append(insights, contracts.Insight{
			Type:     contracts.InsightDataQuality,
			Severity: contracts.SeverityWarning,
			Message:  fmt.Sprintf("Dataset has %.1f%% missing values - consider data cleaning", missingPct),
		})
	case missingPct < cfg.MissingInfoPercent:
		insights = append(insights, contracts.Insight{
			Type:     contracts.InsightDataQuality,
			Severity: contracts.SeverityInfo,
			Message:  fmt.Sprintf("Excellent data quality with only %.1f%% missing values", missingPct),
		})
	}

	rows := summary.DatasetInfo.TotalRows
	switch {
	case rows < cfg.SmallRowCount:
		insights = append(insights, contracts.Insight{
			Type:     contracts.InsightSampleSize,
			Severity: contracts.SeverityWarning,
			Message:  "Small dataset - statistical analyses may be limited",
		})
	case rows > cfg.LargeRowCount:
		insights = append(insights, contracts.Insight{
			Type:     contracts.InsightSampleSize,
			Severity: contracts.SeverityInfo,
			Message:  "Large dataset - excellent for statistical analysis",
		})
	}

	switch {
	case summary.DatasetInfo.NumericColumns > summary.DatasetInfo.CategoricalColumns:
		insights = append(insights, contracts.Insight{
			Type:     contracts.InsightComposition,
			Severity: contracts.SeverityInfo,
			Message:  "Numeric-heavy dataset - good for quantitative analysis",
		})
	case summary.DatasetInfo.CategoricalColumns > summary.DatasetInfo.NumericColumns:
		insights = append(insights, contracts.Insight{
			Type:     contracts.InsightComposition,
			Severity: contracts.SeverityInfo,
			Message:  "Categorical-heavy dataset - consider text analysis techniques",
		})
	}

	return insights
}
