// Package readme renders the summary CSV of an instance as a transposed Markdown table.
package readme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benchlib/submission-validator/summary"
	"github.com/pkg/errors"
)

const FileName = "README.md"

// spacerMarker fills the first cell of the empty rows that group related fields.
const spacerMarker = "======"

// spacerAfter lists the fields followed by a spacer row.
var spacerAfter = map[string]bool{
	"Date":                    true,
	"Optimality Bound":        true,
	"Coefficients Range":      true,
	"Success Threshold":       true,
	"Hardware Specifications": true,
	"Other HW Runtime":        true,
}

var ErrNoRows = errors.New("no CSV rows provided to generate README")

var cellEscaper = strings.NewReplacer("\n", "<br>", "|", `\|`)

// Render returns the README content for rows: one table line per field, one column per row.
func Render(instance string, rows []summary.Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	var fields []string
	seen := map[string]bool{}
	for _, row := range rows {
		for _, f := range row {
			if !seen[f.Name] {
				seen[f.Name] = true
				fields = append(fields, f.Name)
			}
		}
	}

	header := []string{"Field"}
	for i := range rows {
		header = append(header, fmt.Sprintf("Value %d", i+1))
	}
	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = "---"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Submission for %s\n\n", instance)
	fmt.Fprintf(&sb, "This directory contains the submission for the problem **%s**.\n\n", instance)
	writeLine(&sb, header)
	writeLine(&sb, separator)

	for _, field := range fields {
		cells := []string{field}
		for _, row := range rows {
			value, _ := row.Get(field)
			cells = append(cells, cellEscaper.Replace(value))
		}
		writeLine(&sb, cells)

		if spacerAfter[field] {
			spacer := make([]string, len(rows)+1)
			spacer[0] = spacerMarker
			writeLine(&sb, spacer)
		}
	}

	return sb.String(), nil
}

func writeLine(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

// Generate writes README.md into dir, replacing any existing one, and returns its path.
func Generate(instance, dir string, rows []summary.Row) (string, error) {
	content, err := Render(instance, rows)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { // #nosec G306 README is part of the published submission
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	return path, nil
}
