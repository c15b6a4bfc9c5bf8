package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Flag struct {
	Name         string
	RegisterFunc func(cmd *pflag.FlagSet, flagName string)
	Required     bool
	AssignFunc   func(flagName string)
}

// Arg is a positional argument, assigned in registration order.
type Arg struct {
	Name       string
	AssignFunc func(value string)
}

var (
	registeredFlags []*Flag
	registeredArgs  []*Arg
)

func RegisterFlags(flags ...*Flag) {
	registeredFlags = append(registeredFlags, flags...)
}

func RegisterArgs(args ...*Arg) {
	registeredArgs = append(registeredArgs, args...)
}

// ErrHelp is returned by Load when only the usage was requested.
var ErrHelp = errors.New("help requested")

// Load parses args into the registered flags and arguments. Values not given on the command
// line are taken from SUBMISSION_* environment variables or the config file.
func Load(use string, args []string, out io.Writer) error {
	viper.Reset()

	helpRequested := false
	command := &cobra.Command{
		Use:           use,
		Args:          cobra.ExactArgs(len(registeredArgs)),
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(_ *cobra.Command, _ []string) {
			// Empty func such that cobra will evaluate required flags, etc
		},
	}
	// a nil slice would make cobra fall back to os.Args
	command.SetArgs(append([]string{}, args...))
	command.SetOut(out)
	command.SetErr(out)
	defaultHelp := command.HelpFunc()
	command.SetHelpFunc(func(c *cobra.Command, a []string) {
		helpRequested = true
		defaultHelp(c, a)
	})

	for _, flag := range registeredFlags {
		flag.RegisterFunc(command.Flags(), flag.Name)
	}

	if err := viper.BindPFlags(command.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags due to: %v", err)
	}

	if err := command.Execute(); err != nil {
		return err
	}
	if helpRequested {
		return ErrHelp
	}

	if err := readConfigFile(); err != nil {
		return err
	}

	var missingFlags error
	for _, flag := range registeredFlags {
		if !flag.Required {
			continue
		}

		if !viper.IsSet(flag.Name) {
			missingFlags = errors.Join(missingFlags, fmt.Errorf("missing required flag: %s", flag.Name))

			continue
		}
	}
	if missingFlags != nil {
		return missingFlags
	}

	positional := command.Flags().Args()
	for i, arg := range registeredArgs {
		arg.AssignFunc(positional[i])
	}
	for _, flag := range registeredFlags {
		flag.AssignFunc(flag.Name)
	}

	return nil
}

func readConfigFile() error {
	viper.SetEnvPrefix("submission")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("validate")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if viper.IsSet("config-file") && viper.GetString("config-file") != "" {
		viper.SetConfigFile(viper.GetString("config-file"))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file due to: %v", err)
		}
		log.Debug("no config file found, using flags and ENVs only")
	}

	return nil
}

// SetupLogging configures the standard logrus logger from a level and a format name.
func SetupLogging(level, format string, out io.Writer) {
	log.SetOutput(out)

	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{})
	}

	intLevel, err := log.ParseLevel(level)
	if err != nil {
		log.Infof("Log level '%s' not supported, setting to 'trace'", level)
		intLevel = log.TraceLevel
	}
	log.SetLevel(intLevel)
	log.Debugf("Setting log level to '%s'", intLevel)
}
