// Package contracts defines the JSON contract shared by the datalens
// pipelines and their callers: the result envelopes printed to stdout and
// the summary/insight records embedded in them.
package contracts

// Pipeline status values. The envelope carries exactly one of these;
// there is no partial status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Insight severity values.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Insight categories.
const (
	InsightDataQuality = "data_quality"
	InsightSampleSize  = "sample_size"
	InsightComposition = "data_composition"
)

// Insight is a single heuristic diagnostic about a dataset.
type Insight struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BasicInfo carries minimal dataset shape information on report-pipeline
// failures, so a failed run still tells the caller what was parsed.
type BasicInfo struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnsList []string `json:"columns_list"`
}

// VisualizationResult is the envelope returned by the visualization pipeline.
type VisualizationResult struct {
	Status          string      `json:"status"`
	ChartsGenerated int         `json:"charts_generated"`
	OutputDirectory string      `json:"output_directory"`
	Summary         *VizSummary `json:"summary,omitempty"`
	ChartFiles      []string    `json:"chart_files"`
	Error           string      `json:"error,omitempty"`
	ErrorType       string      `json:"error_type,omitempty"`
}

// ReportResult is the envelope returned by the report pipeline.
type ReportResult struct {
	Status          string        `json:"status"`
	ReportGenerated bool          `json:"report_generated"`
	MainReport      string        `json:"main_report,omitempty"`
	ReportFile      string        `json:"report_file"`
	OutputDirectory string        `json:"output_directory"`
	SummaryStats    *SummaryStats `json:"summary_stats,omitempty"`
	DataInsights    []Insight     `json:"data_insights"`
	BasicInfo       *BasicInfo    `json:"basic_info,omitempty"`
	Error           string        `json:"error,omitempty"`
	ErrorType       string        `json:"error_type,omitempty"`
}
