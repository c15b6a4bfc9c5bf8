package checker

import (
	"time"

	"github.com/benchlib/submission-validator/internal/commandexecutor"
)

type config struct {
	template        string
	shell           bool
	timeout         time.Duration
	failOnNonZero   bool
	commandExecutor commandexecutor.CommandExecutor
}

func Template(v string) func(*config) {
	return func(opts *config) {
		opts.template = v
	}
}

// Shell runs the substituted template with "sh -c" instead of executing it directly.
func Shell(v bool) func(*config) {
	return func(opts *config) {
		opts.shell = v
	}
}

func Timeout(v time.Duration) func(*config) {
	return func(opts *config) {
		opts.timeout = v
	}
}

func FailOnNonZero(v bool) func(*config) {
	return func(opts *config) {
		opts.failOnNonZero = v
	}
}

func CommandExecutor(v commandexecutor.CommandExecutor) func(*config) {
	return func(opts *config) {
		opts.commandExecutor = v
	}
}
