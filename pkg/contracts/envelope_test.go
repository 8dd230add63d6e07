package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportResult_DataInsightsAlwaysAList(t *testing.T) {
	// data_insights is a required envelope field. Error envelopes carry an
	// empty list, never null, so every emitter must initialize the slice.
	result := &ReportResult{
		Status:          StatusError,
		ReportGenerated: false,
		DataInsights:    []Insight{},
		Error:           "Usage: reportgen <csv_file> <output_dir> [target_column]",
		ErrorType:       "USAGE",
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data_insights":[]`)
	assert.NotContains(t, string(data), `"data_insights":null`)
}

func TestReportResult_ErrorFieldsOmittedOnSuccess(t *testing.T) {
	result := &ReportResult{
		Status:          StatusSuccess,
		ReportGenerated: true,
		MainReport:      "report_comprehensive_analysis.html",
		DataInsights:    []Insight{},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "error")
	assert.NotContains(t, string(data), "basic_info")
}
