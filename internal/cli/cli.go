package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/specialistvlad/elementmodel/internal/app"
	"github.com/spf13/cobra"
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

type flags struct {
	modulesPath string
	logFormat   string
	logLevel    string
	workers     int
	maxDepth    int
	metrics     bool
}

// Execute runs the command line. Results go to outW, logs and usage errors to
// errW. Usage problems yield exit code 2, failed runs exit code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCmd(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

// NewRootCmd builds the command tree.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "elementmodel",
		Short: "Bind configuration documents to extension metamodels",
		Long: `elementmodel resolves the elements of configuration documents against the
extensions declared in HCL manifests and prints which configuration,
operation, source, connection provider, parameter or type each element
declares.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	pf := root.PersistentFlags()
	pf.StringVar(&f.modulesPath, "modules-path", "modules", "Path to the extension manifest file or directory.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.IntVar(&f.workers, "workers", 10, "Number of concurrent resolution workers. 0 is unbounded.")
	pf.IntVar(&f.maxDepth, "max-depth", 0, "Maximum element nesting depth. 0 uses the resolver default.")

	root.AddCommand(newResolveCmd(f, outW, errW))
	root.AddCommand(newDescribeCmd(f, outW, errW))
	return root
}

func newResolveCmd(f *flags, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve DOCUMENT_PATH",
		Short: "Resolve every top-level element of the given documents",
		Long: `Resolve every top-level element of the documents under DOCUMENT_PATH.

DOCUMENT_PATH is a single .hcl or .xml file, or a directory searched
recursively for them. Each resolved element is printed as an HCL tree;
elements that match nothing are reported in the log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(args[0])
			if err != nil {
				return err
			}
			a := app.NewApp(cmd.Context(), outW, errW, cfg)
			if err := a.Resolve(cmd.Context()); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.metrics, "metrics", false, "Print resolution metrics in Prometheus text format after the results.")
	return cmd
}

func newDescribeCmd(f *flags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the syntax of every construct of the loaded extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config("")
			if err != nil {
				return err
			}
			a := app.NewApp(cmd.Context(), outW, errW, cfg)
			if err := a.Describe(cmd.Context()); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
}

func (f *flags) config(documentPath string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ModulesPath:  f.modulesPath,
		DocumentPath: documentPath,
		LogFormat:    strings.ToLower(f.logFormat),
		LogLevel:     strings.ToLower(f.logLevel),
		WorkerCount:  f.workers,
		MaxDepth:     f.maxDepth,
		Metrics:      f.metrics,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
