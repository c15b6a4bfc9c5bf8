// Command validate checks a benchmark submission directory and exits 0 when every instance
// passed, 1 when any failed and 2 when the submission could not be validated at all.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/benchlib/submission-validator/checker"
	"github.com/benchlib/submission-validator/config"
	"github.com/benchlib/submission-validator/discovery"
	"github.com/benchlib/submission-validator/internal/commandexecutor"
	internalConfig "github.com/benchlib/submission-validator/internal/config"
	"github.com/benchlib/submission-validator/model"
	"github.com/benchlib/submission-validator/report"
	"github.com/benchlib/submission-validator/validator"
	log "github.com/sirupsen/logrus"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitInvalid = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := internalConfig.Load("validate <submission_root>", args, stderr); err != nil {
		if errors.Is(err, internalConfig.ErrHelp) {
			return exitOK
		}
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)

		return exitInvalid
	}

	internalConfig.SetupLogging(config.LogLevel(), config.LogFormat(), stderr)

	if !report.ValidFormat(config.OutputFormat()) {
		_, _ = fmt.Fprintf(stderr, "ERROR: unsupported output format: %s\n", config.OutputFormat())

		return exitInvalid
	}

	root := config.SubmissionRoot()
	dirs, err := discovery.FindInstanceDirs(root, config.InstancePattern())
	switch {
	case errors.Is(err, discovery.ErrNotADirectory):
		_, _ = fmt.Fprintf(stderr, "ERROR: Submission root does not exist or is not a directory: %s\n", root)

		return exitInvalid
	case err != nil:
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)

		return exitInvalid
	case len(dirs) == 0:
		_, _ = fmt.Fprintln(stderr, "No instance subdirectories found matching criteria.")

		return exitInvalid
	}

	var instanceChecker *checker.Checker
	if config.CheckerCmd() != "" {
		instanceChecker, err = checker.New(
			checker.Template(config.CheckerCmd()),
			checker.Shell(config.CheckerShell()),
			checker.Timeout(config.CheckerTimeout()),
			checker.FailOnNonZero(config.FailOnChecker()),
			checker.CommandExecutor(&commandexecutor.OsCommandExecutor{}),
		)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "ERROR: invalid checker command: %v\n", err)

			return exitInvalid
		}
	}

	v, err := validator.New(
		validator.SubmissionRoot(root),
		validator.StrictProblemMatch(config.StrictProblemMatch()),
		validator.GenerateReadme(config.GenerateReadme()),
		validator.Checker(instanceChecker),
	)
	if err != nil {
		log.Errorf("failed to create validator due to: %v", err)

		return exitInvalid
	}

	reports := make([]*model.InstanceReport, 0, len(dirs))
	for _, dir := range dirs {
		// structured formats keep stdout to the document alone
		if config.Verbose() && config.OutputFormat() == report.FormatText {
			_, _ = fmt.Fprintf(stdout, "Validating instance: %s\n", filepath.Base(dir))
		}
		reports = append(reports, v.ValidateInstance(ctx, dir))
	}

	if err := report.Write(stdout, config.OutputFormat(), reports, config.Quiet()); err != nil {
		log.Errorf("failed to write report due to: %v", err)

		return exitInvalid
	}

	if code := report.ExitCode(reports); code != exitOK {
		return exitFailed
	}

	return exitOK
}
