package cli

import (
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/pathmate/internal/config"
	"github.com/idelchi/pathmate/internal/pathmate"
)

// palette holds the color functions used for output.
type palette struct {
	heading   func(a ...any) string
	highlight func(a ...any) string
	muted     func(a ...any) string
}

// CLI represents the command-line interface.
type CLI struct {
	version string
	out     io.Writer
	errOut  io.Writer

	configPath string
	debug      bool
	noColor    bool
	cfg        *config.Config

	colors palette
}

// New creates a new CLI instance with the given version.
func New(version string) *CLI {
	return &CLI{
		version: version,
		out:     os.Stdout,
		errOut:  os.Stderr,
		colors: palette{
			heading:   color.New(color.FgCyan, color.Bold).SprintFunc(),
			highlight: color.New(color.FgGreen).SprintFunc(),
			muted:     color.New(color.FgHiBlack).SprintFunc(),
		},
	}
}

// Execute runs the CLI with the provided arguments.
func (c *CLI) Execute(args []string) error {
	root := c.command()
	root.SetArgs(args)

	return root.Execute()
}

func (c *CLI) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathmate",
		Short: "Select, inspect and archive files and directory trees",
		Long: heredoc.Doc(`
			pathmate selects files and directories by extension, name, size and
			timestamps, reports statistics about directory trees, and archives them.

			Defaults for several flags are read from a YAML configuration file
			(~/.pathmate/config.yaml unless --config is given). Flags always win.
		`),
		Version:       c.version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.setup()
		},
	}

	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", config.DefaultPath(), "Path to the configuration file")
	flags.BoolVar(&c.debug, "debug", false, "Enable debug output on stderr")
	flags.BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		c.selectCommand(),
		c.statCommand(),
		c.countCommand(),
		c.topCommand(),
		c.hashCommand(),
		c.zipCommand(),
		c.backupCommand(),
		c.mirrorCommand(),
		c.configCommand(),
		c.initCommand(),
	)

	return root
}

// setup loads the configuration and applies the global flags.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	c.cfg = cfg

	if c.debug {
		pathmate.SetDiagnostics(c.errOut)
	} else {
		pathmate.SetDiagnostics(nil)
	}

	if c.noColor || !isTerminal(c.out) {
		color.NoColor = true
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// rootArg returns the optional path argument, defaulting to the current directory.
func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}

	return args[0]
}
