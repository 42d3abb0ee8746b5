package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/pathmate/internal/config"
	"github.com/idelchi/pathmate/internal/dirstat"
)

func (c *CLI) topCommand() *cobra.Command {
	var (
		options    dirstat.Options
		minSizeStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "top [path]",
		Short: "Report the largest files or directories and totals by extension",
		Long: heredoc.Doc(`
			Walk path (default: current directory) in parallel and report the
			largest files together with statistics by file extension.

			Use --dirs to aggregate by directory instead of individual files. With
			--depth N directories are ranked N levels below path.
		`),
		Example: heredoc.Doc(`
			pathmate top --ext .go,!_test.go
			pathmate top --dirs --depth 2 ~/src
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.output(cmd, output)
			if err != nil {
				return err
			}

			if options.Depth < 0 {
				return errors.New("depth cannot be negative")
			}

			flags := cmd.Flags()

			if !flags.Changed("top") {
				options.TopN = c.cfg.TopN
			}

			if options.TopN <= 0 {
				return errors.New("top must be positive")
			}

			if !flags.Changed("exclude") {
				options.Excludes = c.cfg.Excludes
			}

			// Clear default excludes if using dirs mode and exclude flag wasn't changed
			if !flags.Changed("exclude") && options.DirsMode {
				options.Excludes = []string{}
			}

			size, err := humanize.ParseBytes(minSizeStr)
			if err != nil {
				return fmt.Errorf("invalid min-size: %w", err)
			}

			options.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe
			options.Path = rootArg(args)
			options.Debug = c.debug
			options.DebugOutput = c.errOut

			return c.runTop(cmd.Context(), options, format)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringSliceVarP(
		&options.Extensions,
		"ext",
		"x",
		[]string{},
		"File suffixes to include (e.g., .go,.md). Use '!' prefix to exclude (e.g., !.log,!_test.go)",
	)
	flags.StringVar(&minSizeStr, "min-size", "0KB", "Minimum file size (e.g., 1KB)")
	flags.IntVarP(&options.TopN, "top", "t", config.DefaultConfig().TopN, "Number of top entries to display")
	flags.StringVarP(&output, "output", "o", "table", fmt.Sprintf("Output format: one of %v", config.Outputs))
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", config.DefaultConfig().Excludes, "Regex patterns to exclude")
	flags.IntVarP(&options.Depth, "depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	flags.BoolVar(&options.DirsMode, "dirs", false, "Analyze directories instead of individual files")

	return cmd
}

func (c *CLI) runTop(ctx context.Context, options dirstat.Options, format string) error {
	enableProgress := format != "json" && !options.Debug && isTerminal(c.errOut)

	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(c.errOut, "\033[?25l")
		defer fmt.Fprint(c.errOut, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s", files, sizeText(bytes))
			fmt.Fprintf(c.errOut, "\r\033[2K%s\r", msg)
		}
	}

	stats, err := dirstat.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(c.errOut, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if format == "json" {
		return PrintJSON(stats, c.out)
	}

	return c.PrintTop(stats, c.out)
}
