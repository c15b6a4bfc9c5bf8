package summary

import (
	"fmt"
	"strings"
)

type FailureKind string

const (
	MissingFile     FailureKind = "missing-file"
	HeaderMismatch  FailureKind = "header-mismatch"
	NoRows          FailureKind = "no-rows"
	ProblemMismatch FailureKind = "problem-mismatch"
	NotInteger      FailureKind = "not-integer"
	NotNumber       FailureKind = "not-number"
)

// Failure is one problem found in a summary file. Row is 1-based, 0 when the failure is
// not tied to a data row.
type Failure struct {
	Row      int
	Column   string
	Kind     FailureKind
	Value    string
	Instance string
	Expected []string
	Found    []string
}

func (f *Failure) Error() string {
	switch f.Kind {
	case MissingFile:
		return fmt.Sprintf("Missing summary CSV: %s", f.Value)
	case HeaderMismatch:
		return fmt.Sprintf("CSV header mismatch.\n  Expected (%d): %s\n  Found    (%d): %s",
			len(f.Expected), quoteList(f.Expected), len(f.Found), quoteList(f.Found))
	case NoRows:
		return "CSV must contain at least one data row."
	case ProblemMismatch:
		return fmt.Sprintf("Row %d: 'Problem' column must equal instance name '%s', found '%s'.", f.Row, f.Instance, f.Value)
	case NotInteger:
		return fmt.Sprintf("Row %d: Column '%s' should be an integer or 'N/A', found '%s'.", f.Row, f.Column, f.Value)
	case NotNumber:
		return fmt.Sprintf("Row %d: Column '%s' should be a number or 'N/A', found '%s'.", f.Row, f.Column, f.Value)
	default:
		return fmt.Sprintf("Row %d: Column '%s': %s", f.Row, f.Column, f.Kind)
	}
}

// quoteList renders names as ['a', 'b'], switching to double quotes for a name holding a
// single quote and no double quote.
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quote := "'"
		if strings.Contains(name, "'") && !strings.Contains(name, `"`) {
			quote = `"`
		}
		escaped := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`, quote, `\`+quote).Replace(name)
		quoted[i] = quote + escaped + quote
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}
