package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/config"
	"datalens/pkg/contracts"
)

func summaryWith(rows, cols, numeric, categorical int, completeness float64) *contracts.SummaryStats {
	return &contracts.SummaryStats{
		DatasetInfo: contracts.DatasetInfo{
			TotalRows:          rows,
			TotalColumns:       cols,
			NumericColumns:     numeric,
			CategoricalColumns: categorical,
		},
		DataQuality: contracts.DataQuality{CompletenessPercentage: completeness},
	}
}

func insightTypes(insights []contracts.Insight) map[string]string {
	out := make(map[string]string, len(insights))
	for _, in := range insights {
		out[in.Type] = in.Severity
	}
	return out
}

func TestInsights_MissingValueThresholds(t *testing.T) {
	cfg := config.Default().Insights

	tests := []struct {
		name         string
		completeness float64
		wantSeverity string // "" means no data_quality insight
	}{
		{"exactly 10 percent missing warns", 90.0, contracts.SeverityWarning},
		{"far above threshold warns", 60.0, contracts.SeverityWarning},
		{"exactly 1 percent yields neither", 99.0, ""},
		{"0.99 percent missing is info", 99.01, contracts.SeverityInfo},
		{"zero missing is info", 100.0, contracts.SeverityInfo},
		{"mid band yields neither", 95.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Rows inside the no-insight band, balanced column types, so
			// only the data_quality rule can fire.
			summary := summaryWith(500, 4, 2, 2, tt.completeness)
			got := insightTypes(Insights(summary, cfg))

			if tt.wantSeverity == "" {
				assert.NotContains(t, got, contracts.InsightDataQuality)
			} else {
				assert.Equal(t, tt.wantSeverity, got[contracts.InsightDataQuality])
			}
		})
	}
}

func TestInsights_SampleSizeThresholds(t *testing.T) {
	cfg := config.Default().Insights

	tests := []struct {
		name         string
		rows         int
		wantSeverity string
	}{
		{"small dataset warns", 99, contracts.SeverityWarning},
		{"boundary 100 yields neither", 100, ""},
		{"mid band yields neither", 150, ""},
		{"boundary 10000 yields neither", 10000, ""},
		{"large dataset is info", 10001, contracts.SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := summaryWith(tt.rows, 4, 2, 2, 95.0)
			got := insightTypes(Insights(summary, cfg))

			if tt.wantSeverity == "" {
				assert.NotContains(t, got, contracts.InsightSampleSize)
			} else {
				assert.Equal(t, tt.wantSeverity, got[contracts.InsightSampleSize])
			}
		})
	}
}

func TestInsights_Composition(t *testing.T) {
	cfg := config.Default().Insights

	tests := []struct {
		name        string
		numeric     int
		categorical int
		wantMessage string
	}{
		{"numeric heavy", 3, 1, "Numeric-heavy dataset - good for quantitative analysis"},
		{"categorical heavy", 1, 3, "Categorical-heavy dataset - consider text analysis techniques"},
		{"balanced yields neither", 2, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := summaryWith(500, tt.numeric+tt.categorical, tt.numeric, tt.categorical, 95.0)
			insights := Insights(summary, cfg)
			got := insightTypes(insights)

			if tt.wantMessage == "" {
				assert.NotContains(t, got, contracts.InsightComposition)
				return
			}
			for _, in := range insights {
				if in.Type == contracts.InsightComposition {
					assert.Equal(t, tt.wantMessage, in.Message)
					assert.Equal(t, contracts.SeverityInfo, in.Severity)
					return
				}
			}
			t.Fatalf("composition insight not found in %v", insights)
		})
	}
}

func TestInsights_CleanNumericScenario(t *testing.T) {
	// 150 rows, 3 numeric columns, no missing values.
	summary := summaryWith(150, 3, 3, 0, 100.0)
	insights := Insights(summary, config.Default().Insights)

	// Zero missing is below the info threshold, so data_quality info fires
	// alongside composition; sample size stays silent.
	got := insightTypes(insights)
	assert.Contains(t, got, contracts.InsightComposition)
	assert.NotContains(t, got, contracts.InsightSampleSize)
	assert.Equal(t, contracts.SeverityInfo, got[contracts.InsightDataQuality])
}

func TestInsights_Idempotent(t *testing.T) {
	cfg := config.Default().Insights
	summary := summaryWith(50, 3, 1, 2, 85.0)

	first := Insights(summary, cfg)
	second := Insights(summary, cfg)
	require.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestInsights_MessageFormatting(t *testing.T) {
	summary := summaryWith(500, 4, 2, 2, 87.5)
	insights := Insights(summary, config.Default().Insights)

	require.Len(t, insights, 1)
	assert.Equal(t, fmt.Sprintf("Dataset has %.1f%% missing values - consider data cleaning", 12.5), insights[0].Message)
}
