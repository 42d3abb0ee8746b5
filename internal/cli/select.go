package cli

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/pathmate/internal/config"
	"github.com/idelchi/pathmate/internal/pathmate"
)

// entryTypes lists the accepted values of --type.
//
//nolint:gochecknoglobals // Config constant
var entryTypes = []string{"all", "file", "dir"}

type selectOptions struct {
	filters     filterFlags
	kind        string
	noRecursive bool
	relative    bool
	sortKey     string
	reverse     bool
	limit       int
	output      string
}

func (c *CLI) selectCommand() *cobra.Command {
	var opts selectOptions

	cmd := &cobra.Command{
		Use:   "select [path]",
		Short: "List entries below a directory that match all filters",
		Long: heredoc.Doc(`
			List files and directories below path (default: current directory).

			Every filter given must match. Without --sort, entries are printed while
			the tree is walked, depth-first with each directory in name order, and
			--limit stops the walk early. With --sort all matches are collected first.
		`),
		Example: heredoc.Doc(`
			pathmate select --type file --ext .jpg,.png --min-size 1MB
			pathmate select --name report --newer 168h --sort mtime --reverse
			pathmate select ~/music --glob '*.{mp3,flac}' -o json
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSelect(cmd, rootArg(args), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.kind, "type", "t", "all", fmt.Sprintf("Entry type: one of %v", entryTypes))
	flags.BoolVar(&opts.noRecursive, "no-recursive", false, "Only look at immediate children")
	flags.BoolVar(&opts.relative, "relative", false, "Print paths relative to the selected directory")
	flags.StringVarP(&opts.sortKey, "sort", "s", "", fmt.Sprintf("Sort by one of %v", pathmate.SortKeyNames()))
	flags.BoolVarP(&opts.reverse, "reverse", "r", false, "Reverse the sort order")
	flags.IntVarP(&opts.limit, "limit", "l", 0, "Print at most this many entries (0=all)")
	flags.StringVarP(&opts.output, "output", "o", "table", fmt.Sprintf("Output format: one of %v", config.Outputs))
	opts.filters.register(flags)

	return cmd
}

func (c *CLI) runSelect(cmd *cobra.Command, path string, opts selectOptions) error {
	if !slices.Contains(entryTypes, opts.kind) {
		return fmt.Errorf("invalid type %q: must be one of %v", opts.kind, entryTypes)
	}

	if opts.limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}

	output, err := c.output(cmd, opts.output)
	if err != nil {
		return err
	}

	root := pathmate.New(path)

	preds, err := opts.filters.predicates(cmd, c.cfg, root, time.Now())
	if err != nil {
		return err
	}

	var seq iter.Seq[*pathmate.Path]

	recursive := !opts.noRecursive

	switch opts.kind {
	case "file":
		seq, err = root.SelectFile(nil, recursive)
	case "dir":
		seq, err = root.SelectDir(nil, recursive)
	default:
		seq, err = root.Select(nil, recursive)
	}

	if err != nil {
		return err
	}

	seq = pathmate.Filter(seq, preds...)

	var paths []*pathmate.Path

	if opts.sortKey != "" {
		key, err := pathmate.ParseSortKey(opts.sortKey)
		if err != nil {
			return err
		}

		paths = pathmate.Sort(slices.Collect(seq), key, opts.reverse)
		if opts.limit > 0 && len(paths) > opts.limit {
			paths = paths[:opts.limit]
		}
	} else {
		for p := range seq {
			paths = append(paths, p)

			if opts.limit > 0 && len(paths) == opts.limit {
				break
			}
		}
	}

	display := func(p *pathmate.Path) string {
		if !opts.relative {
			return p.Abspath()
		}

		rel, err := p.Rel(root)
		if err != nil {
			return p.Abspath()
		}

		return filepath.ToSlash(rel)
	}

	if output == "json" {
		entries := make([]pathEntry, 0, len(paths))
		for _, p := range paths {
			entries = append(entries, newPathEntry(p, display(p)))
		}

		return PrintJSON(entries, c.out)
	}

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		lines = append(lines, display(p))
	}

	return PrintPaths(lines, c.out)
}

// output resolves the output format from the flag or the configuration.
func (c *CLI) output(cmd *cobra.Command, flag string) (string, error) {
	output := c.cfg.Output
	if cmd.Flags().Changed("output") {
		output = flag
	}

	output = strings.ToLower(output)

	if !slices.Contains(config.Outputs, output) {
		return "", fmt.Errorf("invalid output format %q: must be one of %v", output, config.Outputs)
	}

	return output, nil
}
