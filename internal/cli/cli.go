package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modtower/pkg/buildinfo"
	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/layer"
	"github.com/matzehuels/modtower/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "modtower"

	// configFlag is shared by every command that reads a tower config.
	configFlag = "config-file"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Stdin is read when the input file is "-". Stdout receives G-code when
	// no output file is given, and the reports of validate and plan. Stderr
	// receives logs, summaries and status lines.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a new CLI instance reading from os.Stdin. Logs and status
// output go to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Verbose reports whether debug output is enabled.
func (c *CLI) Verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself processes a G-code file.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.processCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		c.Logger.Debug("starting", "app", appName, "version", buildinfo.Short())
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config Loading
// =============================================================================

// loadMatcher loads the tower config at path and builds its matcher.
func (c *CLI) loadMatcher(ctx context.Context, path string) (*layer.Matcher, error) {
	start := time.Now()
	var m *layer.Matcher
	cfg, err := config.Load(path)
	if err == nil {
		m, err = layer.NewMatcher(cfg)
	}

	var rules, atLayers int
	if m != nil {
		rules, atLayers = len(m.Config().EveryLayer), len(m.Config().AtLayer)
	}
	observability.Config().OnConfigLoaded(ctx, path, rules, atLayers, time.Since(start), err)
	return m, err
}

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, configFlag, "c", "", "tower config file (.yaml, .yml, .json or .toml)")
	_ = cmd.MarkFlagRequired(configFlag)
	_ = cmd.MarkFlagFilename(configFlag, "yaml", "yml", "json", "toml")
}
