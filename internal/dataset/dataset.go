// Package dataset loads a CSV file into a typed, immutable tabular
// structure. Column types are inferred from the raw values: a column where
// every non-missing cell parses as a float is numeric, everything else is
// categorical.
package dataset

import (
	"math"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column is a single named column of the dataset. For numeric columns
// Numeric holds one value per row with NaN marking missing cells; for
// categorical columns Values holds the raw strings with "" marking missing.
// Raw always holds the original cell text for both kinds.
type Column struct {
	Name    string
	Kind    Kind
	Numeric []float64
	Values  []string
	Raw     []string
	Missing int
}

// NumericValues returns the column's non-missing numeric values.
// Returns nil for categorical columns.
func (c *Column) NumericValues() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Numeric)-c.Missing)
	for _, v := range c.Numeric {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an immutable in-memory table parsed from a CSV file.
type Dataset struct {
	Path    string
	Columns []Column

	rows       int
	duplicates int
}

// Rows returns the number of data rows (the header row excluded).
func (d *Dataset) Rows() int { return d.rows }

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.Columns) }

// ColumnNames returns the column names in file order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i := range d.Columns {
		names[i] = d.Columns[i].Name
	}
	return names
}

// NumericColumns returns the numeric columns in file order.
func (d *Dataset) NumericColumns() []*Column {
	return d.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns the categorical columns in file order.
func (d *Dataset) CategoricalColumns() []*Column {
	return d.columnsOfKind(KindCategorical)
}

func (d *Dataset) columnsOfKind(kind Kind) []*Column {
	var out []*Column
	for i := range d.Columns {
		if d.Columns[i].Kind == kind {
			out = append(out, &d.Columns[i])
		}
	}
	return out
}

// Column returns the column with the given name, or nil if absent.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// MissingCells returns the total number of missing cells across all columns.
func (d *Dataset) MissingCells() int {
	total := 0
	for i := range d.Columns {
		total += d.Columns[i].Missing
	}
	return total
}

// DuplicateRows returns the number of rows that are exact duplicates of an
// earlier row across all raw columns.
func (d *Dataset) DuplicateRows() int { return d.duplicates }
