package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/filtergrid/internal/app"
	"github.com/vk/filtergrid/internal/hcl_adapter"
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

const longHelp = `filtergrid evaluates a pipeline of image filters laid out on a grid.

Stages read the implicit COLOR and GRAY sources, which are decoded from
--image, and the outputs of other stages. Terminal stages are written as PNG
files to --output-dir.`

type flags struct {
	pipeline        []string
	image           string
	outputDir       string
	logFormat       string
	logLevel        string
	healthcheckPort int
	gridRows        int
	gridCols        int
	watch           bool
	trace           bool
	editorURL       string
	editorNamespace string
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// Subcommands such as export run to completion inside Parse and report
// shouldExit.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	var (
		f      flags
		config *app.Config
	)

	root := &cobra.Command{
		Use:           "filtergrid [flags] [PIPELINE_PATH...]",
		Short:         "Evaluate an image filter pipeline",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, positional []string) error {
			paths := append(append([]string(nil), f.pipeline...), positional...)
			if len(paths) == 0 {
				slog.Debug("No pipeline path provided, printing usage and exiting.")
				return cmd.Usage()
			}
			cfg, err := app.NewConfig(app.Config{
				PipelinePaths:   paths,
				ImagePath:       f.image,
				OutputDir:       f.outputDir,
				LogFormat:       strings.ToLower(f.logFormat),
				LogLevel:        strings.ToLower(f.logLevel),
				HealthcheckPort: f.healthcheckPort,
				GridRows:        f.gridRows,
				GridCols:        f.gridCols,
				Watch:           f.watch,
				Trace:           f.trace,
				EditorURL:       f.editorURL,
				EditorNamespace: f.editorNamespace,
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			config = cfg
			return nil
		},
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	fs := root.Flags()
	fs.StringSliceVarP(&f.pipeline, "pipeline", "p", nil, "Pipeline description file or directory (.hcl, .yaml, .yml, .json). Repeatable.")
	fs.StringVar(&f.image, "image", "", "Source image decoded into the COLOR and GRAY stages.")
	fs.StringVar(&f.outputDir, "output-dir", "", "Directory receiving one PNG per terminal stage.")
	fs.StringVar(&f.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	fs.IntVar(&f.gridRows, "grid-rows", 0, "Rows of the layout grid. 0 uses the default.")
	fs.IntVar(&f.gridCols, "grid-cols", 0, "Columns of the layout grid. 0 uses the default.")
	fs.BoolVar(&f.watch, "watch", false, "Re-run whenever a pipeline description changes.")
	fs.BoolVar(&f.trace, "trace", false, "Print OpenTelemetry spans of every evaluation to the output.")
	fs.StringVar(&f.editorURL, "editor-url", "", "socket.io endpoint of an editor to serve, e.g. http://localhost:3000/socket.io/.")
	fs.StringVar(&f.editorNamespace, "editor-namespace", "/", "socket.io namespace of the editor.")

	root.AddCommand(newExportCommand())

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		// Help, usage or a subcommand ran.
		return nil, true, nil
	}
	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export PIPELINE_PATH...",
		Short: "Print the pipeline description as normalized HCL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			p, err := app.DefaultLoader().Load(context.Background(), paths...)
			if err != nil {
				return &ExitError{Code: 1, Message: fmt.Sprintf("export failed: %v", err)}
			}
			_, err = cmd.OutOrStdout().Write(hcl_adapter.Write(p))
			return err
		},
	}
}
