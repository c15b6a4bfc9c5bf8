// Package validator runs every check of a submission on one instance directory.
package validator

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/benchlib/submission-validator/checker"
	"github.com/benchlib/submission-validator/model"
	"github.com/benchlib/submission-validator/readme"
	"github.com/benchlib/submission-validator/solutions"
	"github.com/benchlib/submission-validator/summary"
	"github.com/benchlib/submission-validator/timeseries"
	log "github.com/sirupsen/logrus"
)

type Validator struct {
	conf *config
}

// New initializes a validator with the given options
func New(opt ...func(*config)) (*Validator, error) {
	v := &Validator{conf: &config{}}
	for _, o := range opt {
		o(v.conf)
	}

	if v.conf.submissionRoot == "" {
		return nil, errors.New("submissionRoot is required")
	}

	return v, nil
}

// ValidateInstance checks the instance directory dir. Problems never abort the run, they are
// collected on the returned report.
func (v *Validator) ValidateInstance(ctx context.Context, dir string) *model.InstanceReport {
	instance := filepath.Base(dir)
	report := model.NewInstanceReport(instance, dir)
	log.Debugf("validating instance %s at %s", instance, dir)

	rows := v.validateSummary(instance, dir, report)

	report.Solutions = solutions.Collect(instance, dir, report)

	timeseries.Validate(instance, dir, report)

	readmePath := filepath.Join(dir, readme.FileName)
	if v.conf.generateReadme && len(rows) > 0 {
		if _, err := readme.Generate(instance, dir, rows); err != nil {
			report.Failf("Failed to generate README.md: %v", err)
		} else {
			report.Infof("README.md generated from CSV (%s).", readme.FileName)
			report.Info("README.md generated successfully.")
		}
	} else if _, err := os.Stat(readmePath); err != nil {
		report.Info("README.md not present (optional).")
	}

	if v.conf.checker != nil && len(report.Solutions) > 0 {
		v.conf.checker.Run(ctx, checker.Target{
			SubmissionRoot: v.conf.submissionRoot,
			InstanceDir:    dir,
			Instance:       instance,
		}, report.Solutions, report)
	}

	if report.OK {
		log.Debugf("instance %s passed", instance)
	} else {
		log.Infof("instance %s failed validation", instance)
	}

	return report
}

// validateSummary checks the summary CSV and returns its rows for README generation.
func (v *Validator) validateSummary(instance, dir string, report *model.InstanceReport) []summary.Row {
	name := instance + summary.FileSuffix

	table, err := summary.ReadTable(filepath.Join(dir, name))
	switch {
	case errors.Is(err, os.ErrNotExist):
		report.Fail((&summary.Failure{Kind: summary.MissingFile, Value: name}).Error())

		return nil
	case err != nil:
		report.Failf("Failed to read %s: %v", name, err)

		return nil
	}

	failures := summary.Validate(instance, table, v.conf.strictProblemMatch)
	for _, f := range failures {
		report.Fail(f.Error())
	}
	if summary.HeaderMatches(table.Header) {
		report.CSVRows = len(table.Rows)
	}

	return table.Rows
}
