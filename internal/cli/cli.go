package cli

import (
	"io"
	"log/slog"

	"github.com/BirkeyCo/nixables/internal/app"
	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// ExitFailure is the exit code of every failed run, usage errors included.
const ExitFailure = 1

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `nixables - turn package recipes into Nix flakes.

A recipe is either a declarative HCL file with a single package block, or a
Starlark formula that registers one unit with formula(...). The syntax is
detected from the file's structure. For each recipe a flake is written to
<output>/<name>/flake.nix together with the files it stages.

RECIPE_PATH may be a single recipe or a directory of recipes.`

type flags struct {
	output     string
	logLevel   string
	logFormat  string
	configPath string
	color      bool
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values are resolved with flags first, then the configuration file read
// through fs, then built-in defaults.
func Parse(args []string, output io.Writer, fs fsutil.FS) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		f          flags
		recipePath string
		ran        bool
	)
	cmd := &cobra.Command{
		Use:           "nixables [flags] RECIPE_PATH",
		Short:         "Generate Nix flakes from package recipes",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			if len(args) > 0 {
				recipePath = args[0]
			}
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	cmd.Flags().StringVarP(&f.output, "output", "o", app.DefaultOutputDir, "Directory the flakes are written to.")
	cmd.Flags().StringVar(&f.logLevel, "log-level", app.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	cmd.Flags().StringVar(&f.logFormat, "log-format", app.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", app.DefaultConfigPath(), "Path to the YAML configuration file.")
	cmd.Flags().BoolVar(&f.color, "color", true, "Colorize status lines when writing to a terminal.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	if !ran {
		// --help was handled by cobra.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	if recipePath == "" {
		slog.Debug("No recipe path provided, printing usage and exiting.")
		_ = cmd.Usage()
		return nil, true, nil
	}
	slog.Debug("Recipe path determined.", "path", recipePath)

	fileCfg, err := app.LoadFileConfig(fs, f.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, false, &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	cfg := app.Config{RecipePath: recipePath, Color: true}
	fileCfg.Apply(&cfg)
	if cmd.Flags().Changed("output") || cfg.OutputDir == "" {
		cfg.OutputDir = f.output
	}
	if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("log-format") || cfg.LogFormat == "" {
		cfg.LogFormat = f.logFormat
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = f.color
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
