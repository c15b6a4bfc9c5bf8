// Package checker runs a user supplied checker command against each solution file.
package checker

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/benchlib/submission-validator/model"
	"github.com/google/shlex"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Placeholders understood in a checker template.
const (
	SubmissionRootPlaceholder = "{submission_root}"
	InstanceDirPlaceholder    = "{instance_dir}"
	InstancePlaceholder       = "{instance}"
	SolutionPlaceholder       = "{solution}"
)

type Checker struct {
	conf *config
	// words of the template, split once; unused in shell mode
	words []string
}

// Target identifies the instance a checker run belongs to.
type Target struct {
	SubmissionRoot string
	InstanceDir    string
	Instance       string
}

// New returns a Checker for the given options. Without shell mode the template is split into
// words like a POSIX shell would, and placeholders are substituted inside each word, so
// whitespace or metacharacters in paths never change the command.
func New(opt ...func(*config)) (*Checker, error) {
	c := &Checker{conf: &config{}}
	for _, o := range opt {
		o(c.conf)
	}

	if strings.TrimSpace(c.conf.template) == "" {
		return nil, errors.New("checker template is required")
	}
	if c.conf.commandExecutor == nil {
		return nil, errors.New("commandExecutor is required")
	}

	if !c.conf.shell {
		words, err := shlex.Split(c.conf.template)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to split checker template %q", c.conf.template)
		}
		if len(words) == 0 {
			return nil, errors.New("checker template is required")
		}
		c.words = words
	}

	return c, nil
}

// Command returns the program and arguments that check solution. Doubled braces in the
// template stand for literal ones.
func (c *Checker) Command(target Target, solution string) (string, []string) {
	// doubled braces are checked first so "{{solution}}" stays a literal "{solution}"
	replacer := strings.NewReplacer(
		"{{", "{",
		"}}", "}",
		SubmissionRootPlaceholder, target.SubmissionRoot,
		InstanceDirPlaceholder, target.InstanceDir,
		InstancePlaceholder, target.Instance,
		SolutionPlaceholder, solution,
	)

	if c.conf.shell {
		return "sh", []string{"-c", replacer.Replace(c.conf.template)}
	}

	args := make([]string, len(c.words))
	for i, w := range c.words {
		args[i] = replacer.Replace(w)
	}

	return args[0], args[1:]
}

// Run checks every solution in order and records the results on report. Failures to run the
// checker always fail the instance, nonzero exit codes only with FailOnNonZero.
func (c *Checker) Run(ctx context.Context, target Target, solutions []*model.SolutionFile, report *model.InstanceReport) {
	for _, sol := range solutions {
		name, args := c.Command(target, sol.Path)
		log.Debugf("running checker for %s: %s %q", sol.Path, name, args)

		runCtx, cancel := ctx, context.CancelFunc(func() {})
		if c.conf.timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, c.conf.timeout)
		}
		out, err := c.conf.commandExecutor.Execute(runCtx, name, args...)
		cancel()
		if err != nil {
			log.Errorf("checker failed for %s due to: %v", sol.Path, err)
			report.Failf("Checker execution failed for %s: %v", filepath.Base(sol.Path), err)

			continue
		}

		report.CheckerResults = append(report.CheckerResults, &model.CheckerResult{
			SolutionPath: sol.Path,
			Command:      strings.Join(append([]string{name}, args...), " "),
			ExitCode:     out.ExitCode,
			Stdout:       strings.TrimSpace(string(out.Stdout)),
			Stderr:       strings.TrimSpace(string(out.Stderr)),
		})
	}

	if !c.conf.failOnNonZero {
		return
	}
	for _, cr := range report.CheckerResults {
		if cr.ExitCode != 0 {
			report.Failf("Checker failed for solution %s with return code %d.", filepath.Base(cr.SolutionPath), cr.ExitCode)
		}
	}
}
