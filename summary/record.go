package summary

import (
	"errors"
	"strconv"
	"strings"
)

// Record is a typed summary row. Numeric fields are nil when the value was empty or N/A.
type Record struct {
	Problem                string
	Submitter              string
	Date                   string
	Reference              string
	BestObjectiveValue     *float64
	OptimalityBound        *float64
	ModelingApproach       string
	DecisionVariables      *int64
	BinaryVariables        *int64
	IntegerVariables       *int64
	ContinuousVariables    *int64
	NonZeroCoefficients    *int64
	CoefficientsType       string
	CoefficientsRange      string
	Workflow               string
	AlgorithmType          string
	Runs                   *int64
	FeasibleRuns           *int64
	SuccessfulRuns         *int64
	SuccessThreshold       *float64
	HardwareSpecifications string
	TotalRuntime           *float64
	CPURuntime             *float64
	GPURuntime             *float64
	QPURuntime             *float64
	OtherHWRuntime         *float64
	Remarks                string
}

func (r *Record) textField(column string) *string {
	switch column {
	case "Problem":
		return &r.Problem
	case "Submitter":
		return &r.Submitter
	case "Date":
		return &r.Date
	case "Reference":
		return &r.Reference
	case "Modeling Approach":
		return &r.ModelingApproach
	case "Coefficients Type":
		return &r.CoefficientsType
	case "Coefficients Range":
		return &r.CoefficientsRange
	case "Workflow":
		return &r.Workflow
	case "Algorithm Type":
		return &r.AlgorithmType
	case "Hardware Specifications":
		return &r.HardwareSpecifications
	case "Remarks":
		return &r.Remarks
	}

	return nil
}

func (r *Record) integerField(column string) **int64 {
	switch column {
	case "# Decision Variables":
		return &r.DecisionVariables
	case "# Binary Variables":
		return &r.BinaryVariables
	case "# Integer Variables":
		return &r.IntegerVariables
	case "# Continuous Variables":
		return &r.ContinuousVariables
	case "# Non-Zero Coefficients":
		return &r.NonZeroCoefficients
	case "# Runs":
		return &r.Runs
	case "# Feasible Runs":
		return &r.FeasibleRuns
	case "# Successful Runs":
		return &r.SuccessfulRuns
	}

	return nil
}

func (r *Record) floatField(column string) **float64 {
	switch column {
	case "Best Objective Value":
		return &r.BestObjectiveValue
	case "Optimality Bound":
		return &r.OptimalityBound
	case "Success Threshold":
		return &r.SuccessThreshold
	case "Total Runtime":
		return &r.TotalRuntime
	case "CPU Runtime":
		return &r.CPURuntime
	case "GPU Runtime":
		return &r.GPURuntime
	case "QPU Runtime":
		return &r.QPURuntime
	case "Other HW Runtime":
		return &r.OtherHWRuntime
	}

	return nil
}

// ParseRecord converts a row into a Record. Values that do not parse as the column type
// are reported and left nil, the remaining columns are still parsed. Failure rows are left
// at 0 for the caller to fill in.
func ParseRecord(row Row) (*Record, []*Failure) {
	record := &Record{}
	var failures []*Failure

	for _, field := range row {
		switch TypeOf(field.Name) {
		case IntegerColumn:
			value := trim(field.Value)
			if isNotAvailable(value) {
				continue
			}
			n, err := strconv.ParseInt(stripThousands(value), 10, 64)
			if errors.Is(err, strconv.ErrRange) {
				// a valid integer, just too large to keep
				continue
			}
			if err != nil {
				failures = append(failures, &Failure{Column: field.Name, Kind: NotInteger, Value: value})

				continue
			}
			*record.integerField(field.Name) = &n
		case FloatColumn:
			value := trim(field.Value)
			if isNotAvailable(value) {
				continue
			}
			x, err := strconv.ParseFloat(stripThousands(value), 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				failures = append(failures, &Failure{Column: field.Name, Kind: NotNumber, Value: value})

				continue
			}
			*record.floatField(field.Name) = &x
		default:
			if p := record.textField(field.Name); p != nil {
				*p = trim(field.Value)
			}
		}
	}

	return record, failures
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

// isNotAvailable is true for empty values and the N/A markers, in any case.
func isNotAvailable(value string) bool {
	switch strings.ToUpper(value) {
	case "", "N/A", "NA":
		return true
	}

	return false
}

func stripThousands(value string) string {
	return strings.ReplaceAll(value, ",", "")
}
