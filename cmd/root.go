package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	exitRuntime = 1
	exitUsage   = 2
	exitNoData  = 3
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func usageError(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

// checked turns a (message, code) validation result into an error.
func checked(msg string, code int) error {
	if code == 0 {
		return nil
	}
	return &exitError{code: code, err: errors.New(strings.TrimPrefix(msg, "error: "))}
}

// NewRootCommand builds the command tree. Each call gets its own viper
// instance so commands can be executed independently in tests.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "done-log-analyzer",
		Short: "Queueing statistics from content-transformation Done logs",
		Long: `Parses the "Done" lines written by the content-transformation job pipeline and
reports the arrival process, service and queuing times, per-stage durations and
transfer bandwidth for the selected effects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cfgFile, cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: exitUsage, err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file with defaults for any flag")
	pf.StringP("output", "o", "text", "Report format: text, json or yaml")
	pf.String("message-path", "", "JMESPath extracting the log line from JSON-enveloped input (e.g. log)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")

	root.AddCommand(
		newAnalyzeCommand(v),
		newCloudWatchCommand(v),
		newOverheadCommand(v),
	)
	return root
}

// loadConfig layers flags over DONELOG_* environment variables over the
// optional config file.
func loadConfig(v *viper.Viper, cfgFile string, cmd *cobra.Command) error {
	v.SetEnvPrefix("DONELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("groups", "DONELOG_GROUPS", "LOG_GROUP_NAMES")
	_ = v.BindEnv("region", "DONELOG_REGION", "AWS_REGION")
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return usageError("read config %s: %v", cfgFile, err)
	}
	return nil
}

func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &exitError{code: exitUsage, err: err}
		}
		return nil
	}
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	err := NewRootCommand().Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitRuntime
}
