package model

import "fmt"

type InstanceReport struct {
	Instance       string           `json:"instance" yaml:"instance"`
	Path           string           `json:"path" yaml:"path"`
	OK             bool             `json:"ok" yaml:"ok"`
	Messages       []string         `json:"messages" yaml:"messages"`
	Warnings       []string         `json:"warnings" yaml:"warnings"`
	CSVRows        int              `json:"csvRows" yaml:"csvRows"`
	Solutions      []*SolutionFile  `json:"solutions" yaml:"solutions"`
	CheckerResults []*CheckerResult `json:"checkerResults" yaml:"checkerResults"`
}

// NewInstanceReport returns a passing report, checks flip it with Fail.
func NewInstanceReport(instance, path string) *InstanceReport {
	return &InstanceReport{
		Instance: instance,
		Path:     path,
		OK:       true,
	}
}

func (r *InstanceReport) Fail(msg string) {
	r.OK = false
	r.Messages = append(r.Messages, "ERROR: "+msg)
}

func (r *InstanceReport) Failf(format string, args ...any) {
	r.Fail(fmt.Sprintf(format, args...))
}

func (r *InstanceReport) Warn(msg string) {
	r.Warnings = append(r.Warnings, "WARNING: "+msg)
}

func (r *InstanceReport) Info(msg string) {
	r.Messages = append(r.Messages, "INFO: "+msg)
}

func (r *InstanceReport) Infof(format string, args ...any) {
	r.Info(fmt.Sprintf(format, args...))
}

// SolutionFile is a resolved solution path. Index is -1 for the single file layout.
type SolutionFile struct {
	Path  string `json:"path" yaml:"path"`
	Index int    `json:"index" yaml:"index"`
	Size  int64  `json:"size" yaml:"size"`
}

type CheckerResult struct {
	SolutionPath string `json:"solutionPath" yaml:"solutionPath"`
	Command      string `json:"command" yaml:"command"`
	ExitCode     int    `json:"exitCode" yaml:"exitCode"`
	Stdout       string `json:"stdout" yaml:"stdout"`
	Stderr       string `json:"stderr" yaml:"stderr"`
}

type RunSummary struct {
	RunID  string `json:"runId" yaml:"runId"`
	Total  int    `json:"total" yaml:"total"`
	Passed int    `json:"passed" yaml:"passed"`
	Failed int    `json:"failed" yaml:"failed"`
	OK     bool   `json:"ok" yaml:"ok"`
}
