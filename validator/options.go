package validator

import "github.com/benchlib/submission-validator/checker"

type config struct {
	submissionRoot     string
	strictProblemMatch bool
	generateReadme     bool
	checker            *checker.Checker
}

func SubmissionRoot(v string) func(*config) {
	return func(opts *config) {
		opts.submissionRoot = v
	}
}

func StrictProblemMatch(v bool) func(*config) {
	return func(opts *config) {
		opts.strictProblemMatch = v
	}
}

func GenerateReadme(v bool) func(*config) {
	return func(opts *config) {
		opts.generateReadme = v
	}
}

// Checker enables running c on every solution found, nil disables it.
func Checker(c *checker.Checker) func(*config) {
	return func(opts *config) {
		opts.checker = c
	}
}
