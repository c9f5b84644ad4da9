package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modtower/pkg/errors"
	"github.com/matzehuels/modtower/pkg/gcode"
	"github.com/matzehuels/modtower/pkg/observability"
)

// stdioPath selects standard input or output in place of a file.
const stdioPath = "-"

// processOpts holds the flags of the root command.
type processOpts struct {
	input      string // G-code to read, "-" for stdin
	configFile string // tower config
	output     string // destination file, stdout when empty or "-"
	layerCount int    // overrides ;LAYER_COUNT: when positive
}

// processCommand creates the root command, which injects tower commands
// into a G-code file.
func (c *CLI) processCommand() *cobra.Command {
	var opts processOpts

	cmd := &cobra.Command{
		Use:   appName + " <input.gcode>",
		Short: "Inject per-layer commands into sliced G-code",
		Long: `modtower post-processes sliced G-code for calibration towers.

It reads the file's ;LAYER_COUNT: marker and, after every ;LAYER:N marker,
inserts the commands of the tower config: fixed commands for specific layers
and commands whose value steps every few layers, such as a temperature that
drops by 5°C per tower level.

The result is written to stdout unless --output-file is given. Use "-" as the
input to read from stdin.`,
		Example: `  modtower tower.gcode -c temp-tower.yaml -o tower-modified.gcode
  modtower tower.gcode -c flow.toml -v > out.gcode`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			if opts.layerCount < 0 {
				return fmt.Errorf("--layer-count must not be negative, got %d", opts.layerCount)
			}
			return c.runProcess(cmd.Context(), opts)
		},
	}

	addConfigFlag(cmd, &opts.configFile)
	cmd.Flags().StringVarP(&opts.output, "output-file", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.layerCount, "layer-count", 0, "total layer count to use instead of the file's ;LAYER_COUNT: marker")

	return cmd
}

// runProcess streams the input through the injector.
func (c *CLI) runProcess(ctx context.Context, opts processOpts) (err error) {
	logger := loggerFromContext(ctx)

	m, err := c.loadMatcher(ctx, opts.configFile)
	if err != nil {
		return err
	}

	if err := checkDistinct(opts.input, opts.output); err != nil {
		return err
	}

	in, err := c.openInput(opts.input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := c.openOutput(opts.output)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(errors.ErrCodeIO, closeErr, "close %s", opts.output)
		}
	}()

	if opts.layerCount > 0 {
		printInfo(c.Stderr, "Using layer count %d instead of the file's marker", opts.layerCount)
	}

	prog := newProgress(logger)
	var (
		spinner *Spinner
		hooks   observability.InjectHooks
	)
	switch {
	case c.Verbose():
		hooks = &verboseHooks{w: c.Stderr, logger: logger, matcher: m}
	case toFile(opts.output) && isTerminal(c.Stderr):
		name := filepath.Base(opts.input)
		spinner = newSpinner(ctx, c.Stderr, "Injecting "+name+"...")
		spinner.Start()
		hooks = &spinnerHooks{spinner: spinner, name: name}
	}

	var stats gcode.Stats
	run := func() error {
		var err error
		stats, err = gcode.Inject(ctx, in, out, m, gcode.Options{LayerCount: opts.layerCount})
		return err
	}
	if hooks != nil {
		err = withInjectHooks(hooks, run)
	} else {
		err = run()
	}

	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Injection failed")
		}
		return err
	}

	const doneFormat = "Injected %d lines after %d of %d layers"
	if spinner != nil {
		spinner.StopWithSuccess(doneFormat, stats.InjectedLines, stats.Layers, stats.LayerCount)
	} else {
		prog.done(doneFormat, stats.InjectedLines, stats.Layers, stats.LayerCount)
	}
	if toFile(opts.output) {
		printFile(c.Stderr, opts.output)
	}
	return nil
}

// =============================================================================
// Files
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

func toFile(path string) bool {
	return path != "" && path != stdioPath
}

// openInput opens path for reading, or stdin for "-".
func (c *CLI) openInput(path string) (io.ReadCloser, error) {
	if path == stdioPath {
		return io.NopCloser(c.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(err, "open input %s", path)
	}
	return f, nil
}

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func (c *CLI) openOutput(path string) (io.WriteCloser, error) {
	if !toFile(path) {
		return nopCloser{c.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fileError(err, "create output %s", path)
	}
	return f, nil
}

// checkDistinct refuses to write the output over the input, which would
// truncate it before it is read.
func checkDistinct(input, output string) error {
	if !toFile(input) || !toFile(output) {
		return nil
	}
	in, err := os.Stat(input)
	if err != nil {
		return fileError(err, "open input %s", input)
	}
	out, err := os.Stat(output)
	if err != nil {
		return nil
	}
	if os.SameFile(in, out) {
		return errors.New(errors.ErrCodeIO, "output %s is the input file", output)
	}
	return nil
}

func fileError(err error, format string, args ...any) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeIO, err, format, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
