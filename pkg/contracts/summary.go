package contracts

import (
	"math"
	"strconv"
)

// NullableFloat is a float64 that marshals NaN and infinities as JSON null.
// Descriptive statistics over an all-missing column are undefined, and null is
// the only representation of that which downstream JSON consumers accept.
type NullableFloat float64

// MarshalJSON implements json.Marshaler.
func (f NullableFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler, reading null back as NaN.
func (f *NullableFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NullableFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = NullableFloat(v)
	return nil
}

// DatasetInfo describes the shape and completeness of a loaded dataset.
type DatasetInfo struct {
	TotalRows          int `json:"total_rows"`
	TotalColumns       int `json:"total_columns"`
	NumericColumns     int `json:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns"`
	MissingValues      int `json:"missing_values"`
	DuplicateRows      int `json:"duplicate_rows"`
}

// DataQuality holds derived data-quality percentages.
type DataQuality struct {
	CompletenessPercentage float64 `json:"completeness_percentage"`
	DuplicatePercentage    float64 `json:"duplicate_percentage"`
}

// ColumnTypes lists column names grouped by inferred type.
type ColumnTypes struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// NumericStats holds descriptive statistics for a single numeric column.
// Values are NullableFloat so that statistics over an all-missing column
// serialize as null instead of failing to encode.
type NumericStats struct {
	Mean         NullableFloat `json:"mean"`
	Median       NullableFloat `json:"median"`
	Std          NullableFloat `json:"std"`
	Min          NullableFloat `json:"min"`
	Max          NullableFloat `json:"max"`
	MissingCount int           `json:"missing_count"`
}

// CategoricalStats holds descriptive statistics for a single categorical column.
type CategoricalStats struct {
	UniqueValues int    `json:"unique_values"`
	MostFrequent string `json:"most_frequent"`
	MissingCount int    `json:"missing_count"`
}

// SummaryStats is the full summary record computed by the report pipeline.
type SummaryStats struct {
	DatasetInfo       DatasetInfo                 `json:"dataset_info"`
	DataQuality       DataQuality                 `json:"data_quality"`
	ColumnTypes       ColumnTypes                 `json:"column_types"`
	NumericStatistics map[string]NumericStats     `json:"numeric_statistics,omitempty"`
	CategoricalStats  map[string]CategoricalStats `json:"categorical_statistics,omitempty"`
}

// VizDatasetInfo is the compact dataset shape block used by the
// visualization pipeline's summary.
type VizDatasetInfo struct {
	Rows               int `json:"rows"`
	Columns            int `json:"columns"`
	NumericColumns     int `json:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns"`
	MissingValues      int `json:"missing_values"`
}

// VizDataQuality is the compact data-quality block used by the
// visualization pipeline's summary.
type VizDataQuality struct {
	Completeness float64 `json:"completeness"`
	Duplicates   int     `json:"duplicates"`
}

// VizSummary is the summary record embedded in the visualization envelope
// and persisted as analysis_summary.json.
type VizSummary struct {
	DatasetInfo VizDatasetInfo `json:"dataset_info"`
	DataQuality VizDataQuality `json:"data_quality"`
}
