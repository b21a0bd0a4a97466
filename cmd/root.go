// Package cmd implements the circllhist CLI: stats, dump and compress
// subcommands over the binary/base64 histogram wire format.
package cmd

import (
	"errors"
	"io"
	"os"
	"strconv"

	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liuxd6825/circllhist/errext"
)

// globalFlags holds the persistent, cross-subcommand CLI configuration.
type globalFlags struct {
	noColor   bool
	logFormat string
	verbose   bool
	quiet     bool
}

// globalState groups the process-external state (filesystem, standard
// streams, logger, argv, env) behind a single seam so commands never reach
// for the os package directly; this keeps them testable against an
// in-memory afero.Fs and captured writers.
type globalState struct {
	fs      afero.Fs
	args    []string
	envVars map[string]string

	stdOut, stdErr io.Writer
	stdIn          io.Reader
	stdOutIsTTY    bool
	stdErrIsTTY    bool

	defaultFlags, flags globalFlags

	logger *logrus.Logger
}

func newGlobalState() *globalState {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))

	envVars := buildEnvMap(os.Environ())
	_, noColorSet := envVars["NO_COLOR"]

	logger := &logrus.Logger{
		Out: colorable.NewColorable(os.Stderr),
		Formatter: &logrus.TextFormatter{
			ForceColors:   stderrTTY,
			DisableColors: !stderrTTY || noColorSet,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	defaultFlags := globalFlags{logFormat: "text"}

	return &globalState{
		fs:           afero.NewOsFs(),
		args:         append(make([]string, 0, len(os.Args)), os.Args...),
		envVars:      envVars,
		stdOut:       colorable.NewColorable(os.Stdout),
		stdErr:       colorable.NewColorable(os.Stderr),
		stdIn:        os.Stdin,
		stdOutIsTTY:  stdoutTTY,
		stdErrIsTTY:  stderrTTY,
		defaultFlags: defaultFlags,
		flags:        getFlags(defaultFlags, envVars),
		logger:       logger,
	}
}

func getFlags(defaultFlags globalFlags, env map[string]string) globalFlags {
	result := defaultFlags
	if val, ok := env["CIRCLLHIST_LOG_FORMAT"]; ok {
		result.logFormat = val
	}
	if _, ok := env["NO_COLOR"]; ok {
		result.noColor = true
	}
	if env["CIRCLLHIST_NO_COLOR"] != "" {
		result.noColor = true
	}
	return result
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := parseEnvKeyValue(kv)
		env[k] = v
	}
	return env
}

func parseEnvKeyValue(kv string) (string, string) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}

// rootCommand wires the global state into the cobra command tree.
type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{gs: gs}

	root := &cobra.Command{
		Use:               "circllhist",
		Short:             "Inspect, merge and summarize log-linear histograms",
		Long:              "circllhist reads the binary/base64 wire format of a log-linear histogram and computes statistics, dumps its buckets, or rebuckets it for storage.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	root.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	root.SetArgs(gs.args[1:])
	root.SetOut(gs.stdOut)
	root.SetErr(gs.stdErr)
	root.SetIn(gs.stdIn)

	root.AddCommand(
		getStatsCmd(gs),
		getDumpCmd(gs),
		getCompressCmd(gs),
		getArchiveCmd(gs),
		getUnarchiveCmd(gs),
	)

	c.cmd = root
	return c
}

func (c *rootCommand) persistentPreRunE(*cobra.Command, []string) error {
	return c.setupLogger()
}

func rootCmdPersistentFlagSet(gs *globalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVar(&gs.flags.logFormat, "log-format", gs.flags.logFormat,
		"log output format: text, json, raw, or logstash")
	flags.Lookup("log-format").DefValue = gs.defaultFlags.logFormat
	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor, "disable colored output")
	flags.Lookup("no-color").DefValue = strconv.FormatBool(gs.defaultFlags.noColor)
	flags.BoolVarP(&gs.flags.verbose, "verbose", "v", gs.flags.verbose, "enable debug logging")
	flags.BoolVarP(&gs.flags.quiet, "quiet", "q", gs.flags.quiet, "only log errors")
	return flags
}

func (c *rootCommand) setupLogger() error {
	if c.gs.flags.verbose {
		c.gs.logger.SetLevel(logrus.DebugLevel)
	}
	if c.gs.flags.quiet {
		c.gs.logger.SetLevel(logrus.ErrorLevel)
	}

	switch c.gs.flags.logFormat {
	case "raw":
		c.gs.logger.SetFormatter(&RawFormatter{})
	case "json":
		c.gs.logger.SetFormatter(&logrus.JSONFormatter{})
	case "logstash":
		c.gs.logger.SetFormatter(&LogstashJSONFormatter{})
	case "text", "":
		c.gs.logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.gs.stdErrIsTTY && !c.gs.flags.noColor,
			DisableColors: c.gs.flags.noColor,
		})
	default:
		return errext.WithHint(
			errors.New("unsupported log format '"+c.gs.flags.logFormat+"'"),
			"valid values are text, json, raw, logstash",
		)
	}
	return nil
}

// Execute runs the CLI with the real OS environment and calls os.Exit with
// the exit code named by the first errext.HasExitCode in the failing
// error's chain (or exitcodes.GenericError if none is attached).
func Execute() {
	gs := newGlobalState()
	root := newRootCommand(gs)

	if err := root.cmd.Execute(); err != nil {
		errext.Fprint(gs.logger, err)
		os.Exit(exitCodeFor(err))
	}
}
