package config

import (
	"time"

	"github.com/benchlib/submission-validator/internal/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	submissionRoot     string
	checkerCmd         string
	checkerShell       bool
	checkerTimeout     time.Duration
	failOnChecker      bool
	instancePattern    string
	generateReadme     bool
	strictProblemMatch bool
	verbose            bool
	quiet              bool
	outputFormat       string
	logLevel           string
	logFormat          string
)

func init() {
	config.RegisterArgs(&config.Arg{
		Name: "submission_root",
		AssignFunc: func(value string) {
			submissionRoot = value
		},
	})

	config.RegisterFlags(
		&config.Flag{
			Name: "checker-cmd",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.String(flagName, "", "Command template to run a solution checker for each solution. "+
					"Placeholders: {submission_root} {instance_dir} {instance} {solution}")
			},
			AssignFunc: func(flagName string) {
				checkerCmd = viper.GetString(flagName)
			},
		}, &config.Flag{
			Name: "checker-shell",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Bool(flagName, false, "Run the checker command through 'sh -c' instead of executing it directly")
			},
			AssignFunc: func(flagName string) {
				checkerShell = viper.GetBool(flagName)
			},
		}, &config.Flag{
			Name: "checker-timeout",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Duration(flagName, 0, "Time limit for each checker run, 0 means no limit")
			},
			AssignFunc: func(flagName string) {
				checkerTimeout = viper.GetDuration(flagName)
			},
		}, &config.Flag{
			Name: "fail-on-checker",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Bool(flagName, false, "Mark instance invalid if checker returns nonzero")
			},
			AssignFunc: func(flagName string) {
				failOnChecker = viper.GetBool(flagName)
			},
		}, &config.Flag{
			Name: "instance-pattern",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.String(flagName, "", "Only validate instance directories whose names match this glob (e.g., 'vrp_*')")
			},
			AssignFunc: func(flagName string) {
				instancePattern = viper.GetString(flagName)
			},
		}, &config.Flag{
			Name: "generate-readme",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Bool(flagName, false, "Generate README.md per instance from the CSV (overwrites if exists)")
			},
			AssignFunc: func(flagName string) {
				generateReadme = viper.GetBool(flagName)
			},
		}, &config.Flag{
			Name: "strict-problem-match",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Bool(flagName, false, "Require 'Problem' column in CSV to equal the instance directory name")
			},
			AssignFunc: func(flagName string) {
				strictProblemMatch = viper.GetBool(flagName)
			},
		}, &config.Flag{
			Name: "verbose",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Bool(flagName, false, "Verbose output")
			},
			AssignFunc: func(flagName string) {
				verbose = viper.GetBool(flagName)
			},
		}, &config.Flag{
			Name: "quiet",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.Bool(flagName, false, "Only show failed instances in the summary")
			},
			AssignFunc: func(flagName string) {
				quiet = viper.GetBool(flagName)
			},
		}, &config.Flag{
			Name: "output-format",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.String(flagName, "text", "Report format: text, json or yaml")
			},
			AssignFunc: func(flagName string) {
				outputFormat = viper.GetString(flagName)
			},
		}, &config.Flag{
			Name: "log-level",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.String(flagName, "warning", "Log level: trace, debug, info, warning, error")
			},
			AssignFunc: func(flagName string) {
				logLevel = viper.GetString(flagName)
			},
		}, &config.Flag{
			Name: "log-format",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.String(flagName, "text", "Log format: text or json")
			},
			AssignFunc: func(flagName string) {
				logFormat = viper.GetString(flagName)
			},
		}, &config.Flag{
			Name: "config-file",
			RegisterFunc: func(flagSet *pflag.FlagSet, flagName string) {
				flagSet.String(flagName, "", "Path to a YAML file with flag values")
			},
			AssignFunc: func(_ string) {},
		},
	)
}

func SubmissionRoot() string {
	return submissionRoot
}

func CheckerCmd() string {
	return checkerCmd
}

func CheckerShell() bool {
	return checkerShell
}

func CheckerTimeout() time.Duration {
	return checkerTimeout
}

func FailOnChecker() bool {
	return failOnChecker
}

func InstancePattern() string {
	return instancePattern
}

func GenerateReadme() bool {
	return generateReadme
}

func StrictProblemMatch() bool {
	return strictProblemMatch
}

func Verbose() bool {
	return verbose
}

func Quiet() bool {
	return quiet
}

func OutputFormat() string {
	return outputFormat
}

// LogLevel is the configured level, verbose runs always log at debug.
func LogLevel() string {
	if verbose {
		return "debug"
	}

	return logLevel
}

func LogFormat() string {
	return logFormat
}
