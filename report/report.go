// Package report prints the outcome of a validation run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/benchlib/submission-validator/model"
	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ValidFormat reports whether format can be passed to Write.
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}

	return false
}

// Summarize counts the passed and failed instances of a run.
func Summarize(reports []*model.InstanceReport) *model.RunSummary {
	s := &model.RunSummary{
		RunID: uuid.NewString(),
		Total: len(reports),
	}
	for _, r := range reports {
		if r.OK {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed
	s.OK = s.Failed == 0

	return s
}

// ExitCode is 0 when every instance passed and 1 otherwise.
func ExitCode(reports []*model.InstanceReport) int {
	for _, r := range reports {
		if !r.OK {
			return 1
		}
	}

	return 0
}

// Write prints reports to w in the given format. In quiet mode passing instances are left
// out, the summary still counts them.
func Write(w io.Writer, format string, reports []*model.InstanceReport, quiet bool) error {
	switch format {
	case FormatText, "":
		return WriteText(w, reports, quiet)
	case FormatJSON:
		return WriteJSON(w, reports, quiet)
	case FormatYAML:
		return WriteYAML(w, reports, quiet)
	default:
		return errors.Wrap(ErrUnknownFormat, format)
	}
}

func WriteText(w io.Writer, reports []*model.InstanceReport, quiet bool) error {
	p := &printer{w: w}

	for _, r := range reports {
		if quiet && r.OK {
			continue
		}

		status := "FAILED"
		if r.OK {
			status = "OK"
		}
		banner := fmt.Sprintf("[%s] %s", r.Instance, status)
		rule := strings.Repeat("=", len(banner))
		p.println(rule)
		p.println(banner)
		p.println(rule)

		for _, msg := range r.Messages {
			p.println(msg)
		}
		for _, warning := range r.Warnings {
			p.println(warning)
		}

		if len(r.CheckerResults) > 0 {
			p.println("Checker results:")
			for _, cr := range r.CheckerResults {
				status := "OK"
				if cr.ExitCode != 0 {
					status = fmt.Sprintf("FAIL (rc=%d)", cr.ExitCode)
				}
				p.println(fmt.Sprintf("  - %s: %s", filepath.Base(cr.SolutionPath), status))
				if cr.Stdout != "" {
					p.println(indent(cr.Stdout, "      stdout: "))
				}
				if cr.Stderr != "" {
					p.println(indent(cr.Stderr, "      stderr: "))
				}
			}
		}
		p.println("")
	}

	s := Summarize(reports)
	p.println(fmt.Sprintf("Summary: %d/%d instances passed, %d failed.", s.Passed, s.Total, s.Failed))
	if s.OK {
		p.println("Overall: OK")
	} else {
		p.println("Overall: FAILED")
	}

	return p.err
}

// printer keeps the first write error so WriteText can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) println(line string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, line)
}

// indent prefixes every line of text that is not only whitespace.
func indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}

	return strings.Join(lines, "")
}

type solutionDocument struct {
	Path  string `json:"path" yaml:"path"`
	Index int    `json:"index" yaml:"index"`
	Size  string `json:"size" yaml:"size"`
}

type instanceDocument struct {
	Instance       string                 `json:"instance" yaml:"instance"`
	Path           string                 `json:"path" yaml:"path"`
	OK             bool                   `json:"ok" yaml:"ok"`
	Messages       []string               `json:"messages" yaml:"messages"`
	Warnings       []string               `json:"warnings" yaml:"warnings"`
	CSVRows        int                    `json:"csvRows" yaml:"csvRows"`
	Solutions      []*solutionDocument    `json:"solutions" yaml:"solutions"`
	CheckerResults []*model.CheckerResult `json:"checkerResults" yaml:"checkerResults"`
}

type runDocument struct {
	Summary   *model.RunSummary   `json:"summary" yaml:"summary"`
	Instances []*instanceDocument `json:"instances" yaml:"instances"`
}

func document(reports []*model.InstanceReport, quiet bool) *runDocument {
	doc := &runDocument{
		Summary:   Summarize(reports),
		Instances: []*instanceDocument{},
	}
	for _, r := range reports {
		if quiet && r.OK {
			continue
		}
		instance := &instanceDocument{
			Instance:       r.Instance,
			Path:           r.Path,
			OK:             r.OK,
			Messages:       nonNil(r.Messages),
			Warnings:       nonNil(r.Warnings),
			CSVRows:        r.CSVRows,
			Solutions:      []*solutionDocument{},
			CheckerResults: r.CheckerResults,
		}
		if instance.CheckerResults == nil {
			instance.CheckerResults = []*model.CheckerResult{}
		}
		for _, s := range r.Solutions {
			instance.Solutions = append(instance.Solutions, &solutionDocument{
				Path:  s.Path,
				Index: s.Index,
				Size:  units.HumanSize(float64(s.Size)),
			})
		}
		doc.Instances = append(doc.Instances, instance)
	}

	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func WriteJSON(w io.Writer, reports []*model.InstanceReport, quiet bool) error {
	body, err := json.Marshal(document(reports, quiet))
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	_, err = w.Write(pretty.Pretty(body))

	return err
}

func WriteYAML(w io.Writer, reports []*model.InstanceReport, quiet bool) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(document(reports, quiet)); err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}

	return encoder.Close()
}
