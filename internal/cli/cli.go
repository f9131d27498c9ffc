package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/cmdbind/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Invocation is the parsed result of one CLI call: the validated app
// configuration plus the command name and its raw arguments.
type Invocation struct {
	Config  *app.Config
	Command string
	Args    []string
}

// Parse processes command-line arguments. It returns a populated Invocation,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Invocation, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("cmdbind", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
cmdbind - a typed command and argument binding engine.

Usage:
  cmdbind [options] COMMAND [--param value ...]

Arguments:
  COMMAND
    Name of a discovered command. Parameters after the command name are
    bound against the command's manifest.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestsFlag := flagSet.String("manifests", "manifests", "Path to a manifest file or a directory containing .hcl manifests.")
	allFlag := flagSet.Bool("all", false, "Include commands marked hidden in their manifest.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	command := flagSet.Arg(0)
	commandArgs := flagSet.Args()[1:]
	slog.Debug("Command determined.", "command", command)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestPath:  *manifestsFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		IncludeHidden: *allFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return &Invocation{Config: config, Command: command, Args: commandArgs}, false, nil
}
