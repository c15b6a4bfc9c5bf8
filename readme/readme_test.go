package readme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benchlib/submission-validator/summary"
	"github.com/stretchr/testify/suite"
)

type ReadmeTestSuite struct {
	suite.Suite

	dir string
}

func TestReadmeTestSuite(t *testing.T) {
	suite.Run(t, new(ReadmeTestSuite))
}

func (ts *ReadmeTestSuite) SetupTest() {
	ts.dir = ts.T().TempDir()
}

func row(pairs ...string) summary.Row {
	var r summary.Row
	for i := 0; i+1 < len(pairs); i += 2 {
		r = append(r, summary.Field{Name: pairs[i], Value: pairs[i+1]})
	}

	return r
}

func (ts *ReadmeTestSuite) TestRender() {
	content, err := Render("inst", []summary.Row{
		row("Problem", "inst", "Date", "2025-01-01", "Reference", "a|b"),
		row("Problem", "inst", "Date", "2025-02-01", "Reference", "line1\nline2"),
	})
	ts.Require().NoError(err)

	expected := "# Submission for inst\n\n" +
		"This directory contains the submission for the problem **inst**.\n\n" +
		"| Field | Value 1 | Value 2 |\n" +
		"| --- | --- | --- |\n" +
		"| Problem | inst | inst |\n" +
		"| Date | 2025-01-01 | 2025-02-01 |\n" +
		"| ====== |  |  |\n" +
		`| Reference | a\|b | line1<br>line2 |` + "\n"
	ts.Equal(expected, content)
}

func (ts *ReadmeTestSuite) TestRender_FieldOrderAcrossRows() {
	content, err := Render("inst", []summary.Row{
		row("A", "1", "B", "2"),
		row("C", "3", "A", "4"),
	})
	ts.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	ts.Equal([]string{"| A | 1 | 4 |", "| B | 2 |  |", "| C |  | 3 |"}, lines[len(lines)-3:])
}

func (ts *ReadmeTestSuite) TestRender_AllSpacers() {
	var r summary.Row
	for _, column := range summary.RequiredColumns {
		r = append(r, summary.Field{Name: column, Value: "v"})
	}

	content, err := Render("inst", []summary.Row{r})
	ts.Require().NoError(err)
	ts.Equal(6, strings.Count(content, "| ====== |  |\n"))
	ts.Contains(content, "| Other HW Runtime | v |\n| ====== |  |\n| Remarks | v |\n")
}

func (ts *ReadmeTestSuite) TestRender_NoRows() {
	_, err := Render("inst", nil)
	ts.ErrorIs(err, ErrNoRows)
}

func (ts *ReadmeTestSuite) TestGenerate_Idempotent() {
	ts.Require().NoError(os.WriteFile(filepath.Join(ts.dir, FileName), []byte("old content"), 0600))
	rows := []summary.Row{row("Problem", "inst", "Remarks", "none")}

	path, err := Generate("inst", ts.dir, rows)
	ts.Require().NoError(err)
	ts.Equal(filepath.Join(ts.dir, FileName), path)
	first, err := os.ReadFile(path)
	ts.Require().NoError(err)
	ts.NotContains(string(first), "old content")

	_, err = Generate("inst", ts.dir, rows)
	ts.Require().NoError(err)
	second, err := os.ReadFile(path)
	ts.Require().NoError(err)
	ts.Equal(first, second)
}

func (ts *ReadmeTestSuite) TestGenerate_Unwritable() {
	_, err := Generate("inst", filepath.Join(ts.dir, "missing"), []summary.Row{row("Problem", "inst")})
	ts.Error(err)
	ts.Contains(err.Error(), "failed to write")
}
