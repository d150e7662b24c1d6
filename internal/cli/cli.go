package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/buildinfo"
)

// appName is the application name used for config files and display.
const appName = "klegen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "klegen turns KLE layouts into KiCad keyboard projects",
		Long:         `klegen is a CLI tool that converts a Keyboard Layout Editor (KLE) JSON export into a KiCad project: a switch matrix schematic, a PCB layout with placed switches and diodes, and routed matrix traces.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.keysCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.completionCommand())

	return root
}
