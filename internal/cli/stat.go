package cli

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/pathmate/internal/config"
	"github.com/idelchi/pathmate/internal/pathmate"
)

func (c *CLI) statCommand() *cobra.Command {
	var (
		filters filterFlags
		all     bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "stat [path]",
		Short: "Count files and directories below a directory and sum file sizes",
		Long: heredoc.Doc(`
			Count the files and directories at any depth below path that match all
			filters and sum the file sizes. With --all, print a row for every directory:
			a file counts towards each directory above it, a directory only towards its
			immediate parent.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.output(cmd, output)
			if err != nil {
				return err
			}

			root := pathmate.New(rootArg(args))

			preds, err := filters.predicates(cmd, c.cfg, root, time.Now())
			if err != nil {
				return err
			}

			if all {
				table, err := root.FileStatForAll(matchAll(preds))
				if err != nil {
					return err
				}

				if format == "json" {
					return PrintJSON(table, c.out)
				}

				return c.PrintStatTable(table, root, c.out)
			}

			stat, err := root.FileStat(matchAll(preds))
			if err != nil {
				return err
			}

			if format == "json" {
				return PrintJSON(stat, c.out)
			}

			return c.PrintStat(stat, c.out)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&all, "all", "a", false, "Report every directory")
	flags.StringVarP(&output, "output", "o", "table", fmt.Sprintf("Output format: one of %v", config.Outputs))
	filters.register(flags)

	return cmd
}

func (c *CLI) countCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "count [path]",
		Short: "Count files and directories, recursively and directly inside",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := c.output(cmd, output)
			if err != nil {
				return err
			}

			root := pathmate.New(rootArg(args))

			var n counts

			for _, step := range []struct {
				dst   *int
				count func() (int, error)
			}{
				{&n.Files, root.NFile},
				{&n.Dirs, root.NDir},
				{&n.Subfiles, root.NSubfile},
				{&n.Subdirs, root.NSubdir},
			} {
				if *step.dst, err = step.count(); err != nil {
					return err
				}
			}

			if n.Size, err = root.DirSize(); err != nil {
				return err
			}

			if format == "json" {
				return PrintJSON(n, c.out)
			}

			return c.PrintCounts(n, c.out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", fmt.Sprintf("Output format: one of %v", config.Outputs))

	return cmd
}
