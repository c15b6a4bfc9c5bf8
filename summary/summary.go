// Package summary reads and validates the <instance>_summary.csv file of a submission.
package summary

import (
	"encoding/csv"
	"os"
	"slices"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FileSuffix is appended to the instance name to form the summary file name.
const FileSuffix = "_summary.csv"

// RequiredColumns is the exact, ordered header of a summary file.
var RequiredColumns = []string{
	"Problem", "Submitter", "Date", "Reference", "Best Objective Value", "Optimality Bound", "Modeling Approach",
	"# Decision Variables", "# Binary Variables", "# Integer Variables", "# Continuous Variables",
	"# Non-Zero Coefficients", "Coefficients Type", "Coefficients Range", "Workflow", "Algorithm Type",
	"# Runs", "# Feasible Runs", "# Successful Runs", "Success Threshold", "Hardware Specifications",
	"Total Runtime", "CPU Runtime", "GPU Runtime", "QPU Runtime", "Other HW Runtime", "Remarks",
}

type ColumnType int

const (
	TextColumn ColumnType = iota
	IntegerColumn
	FloatColumn
)

var columnTypes = map[string]ColumnType{
	"# Decision Variables":    IntegerColumn,
	"# Binary Variables":      IntegerColumn,
	"# Integer Variables":     IntegerColumn,
	"# Continuous Variables":  IntegerColumn,
	"# Non-Zero Coefficients": IntegerColumn,
	"# Runs":                  IntegerColumn,
	"# Feasible Runs":         IntegerColumn,
	"# Successful Runs":       IntegerColumn,

	"Best Objective Value": FloatColumn,
	"Optimality Bound":     FloatColumn,
	"Success Threshold":    FloatColumn,
	"Total Runtime":        FloatColumn,
	"CPU Runtime":          FloatColumn,
	"GPU Runtime":          FloatColumn,
	"QPU Runtime":          FloatColumn,
	"Other HW Runtime":     FloatColumn,
}

// TypeOf returns the value type expected in the named column.
func TypeOf(column string) ColumnType {
	return columnTypes[column]
}

type Field struct {
	Name  string
	Value string
}

// Row keeps the values of one data line in header order.
type Row []Field

// Get returns the value of the named column and whether the row has it.
func (r Row) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return "", false
}

type Table struct {
	Header []string
	Rows   []Row
}

// ReadTable parses a comma separated file with a header line. Short lines are padded with
// empty values, values beyond the header are dropped. Stray quotes in unquoted fields are
// read as-is.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	// a quote inside an unquoted field, e.g. 5" screen, is kept as text
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	table := &Table{}
	if len(records) == 0 {
		return table, nil
	}

	table.Header = records[0]
	for i, record := range records[1:] {
		if len(record) > len(table.Header) {
			log.Warnf("%s: line %d has %d values for %d columns, dropping the rest", path, i+2, len(record), len(table.Header))
		}
		row := make(Row, len(table.Header))
		for j, name := range table.Header {
			row[j].Name = name
			if j < len(record) {
				row[j].Value = record[j]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// HeaderMatches reports whether header is exactly RequiredColumns.
func HeaderMatches(header []string) bool {
	return slices.Equal(header, RequiredColumns)
}

// Validate checks the table of the given instance and returns every problem found. The row
// checks only run when the header is the required one.
func Validate(instance string, table *Table, strictProblemMatch bool) []*Failure {
	if !HeaderMatches(table.Header) {
		return []*Failure{{
			Kind:     HeaderMismatch,
			Expected: RequiredColumns,
			Found:    table.Header,
		}}
	}

	if len(table.Rows) == 0 {
		return []*Failure{{Kind: NoRows}}
	}

	var failures []*Failure
	for i, row := range table.Rows {
		rowNumber := i + 1

		if strictProblemMatch {
			problem, _ := row.Get("Problem")
			if problem = trim(problem); problem != instance {
				failures = append(failures, &Failure{
					Row:      rowNumber,
					Column:   "Problem",
					Kind:     ProblemMismatch,
					Value:    problem,
					Instance: instance,
				})
			}
		}

		_, rowFailures := ParseRecord(row)
		for _, f := range rowFailures {
			f.Row = rowNumber
		}
		failures = append(failures, rowFailures...)
	}

	return failures
}
