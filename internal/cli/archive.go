package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/pathmate/internal/archive"
	"github.com/idelchi/pathmate/internal/pathmate"
)

// optionalArg returns args[i] or "" when absent.
func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}

	return ""
}

func (c *CLI) printResult(cmd *cobra.Command, flag string, result *archive.Result) error {
	format, err := c.output(cmd, flag)
	if err != nil {
		return err
	}

	if format == "json" {
		return PrintJSON(result, c.out)
	}

	fmt.Fprintln(c.out, result.Dst)

	return nil
}

func (c *CLI) zipCommand() *cobra.Command {
	var (
		filters    filterFlags
		noCompress bool
		overwrite  bool
		makeDirs   bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "zip <src> [dst.zip]",
		Short: "Archive a file or directory into a zip file",
		Long: heredoc.Doc(`
			Archive src into dst.zip. Without dst a timestamped name is picked next
			to src. For directories only files matching all filters are stored,
			with names relative to src.
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := pathmate.New(args[0])

			var filter pathmate.Predicate

			if src.IsDir() {
				preds, err := filters.predicates(cmd, c.cfg, src, time.Now())
				if err != nil {
					return err
				}

				filter = matchAll(preds)
			}

			result, err := archive.MakeZip(src, archive.Options{
				Dst:       optionalArg(args, 1),
				Filter:    filter,
				Compress:  !noCompress,
				Overwrite: overwrite,
				MakeDirs:  makeDirs,
				Progress:  c.errOut,
			})
			if err != nil {
				return err
			}

			return c.printResult(cmd, output, result)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&noCompress, "no-compress", false, "Store files without compression")
	flags.BoolVar(&overwrite, "overwrite", false, "Replace an existing archive")
	flags.BoolVar(&makeDirs, "makedirs", false, "Create missing parent directories of dst")
	flags.StringVarP(&output, "output", "o", "table", "Output format: table or json")
	filters.register(flags)

	return cmd
}

func (c *CLI) backupCommand() *cobra.Command {
	var (
		opt              archive.BackupOptions
		minSize, maxSize string
		output           string
	)

	cmd := &cobra.Command{
		Use:   "backup <dir> [dst.zip]",
		Short: "Archive a directory, leaving out ignored files",
		Long: heredoc.Doc(`
			Archive dir into a compressed zip, leaving out files below ignored path
			prefixes, with ignored extensions, containing ignored patterns or outside
			the size bounds. Defaults come from the "backup" section of the
			configuration. Without dst the archive is named after dir and a
			timestamp, inside backup.dir when configured and next to dir otherwise.
			Existing archives are never replaced.
		`),
		Example: heredoc.Doc(`
			pathmate backup ~/src/project --ignore dist,build --ignore-ext .o
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			src := pathmate.New(args[0])

			if !flags.Changed("ignore") {
				opt.Ignore = c.cfg.Backup.Ignore
			}

			if !flags.Changed("ignore-ext") {
				opt.IgnoreExt = c.cfg.Backup.IgnoreExt
			}

			if !flags.Changed("ignore-pattern") {
				opt.IgnorePattern = c.cfg.Backup.IgnorePattern
			}

			if !flags.Changed("case-sensitive") {
				opt.CaseSensitive = c.cfg.CaseSensitive
			}

			var err error

			if opt.IgnoreSmallerThan, err = parseSize("min-size", minSize, 0); err != nil {
				return err
			}

			if opt.IgnoreLargerThan, err = parseSize("max-size", maxSize, 0); err != nil {
				return err
			}

			opt.Dst = optionalArg(args, 1)

			if opt.Dst == "" && c.cfg.Backup.Dir != "" {
				if err := os.MkdirAll(c.cfg.Backup.Dir, 0o755); err != nil {
					return fmt.Errorf("creating backup directory: %w", err)
				}

				opt.Dst = filepath.Join(c.cfg.Backup.Dir, filepath.Base(archive.AutoName(src, time.Now())))
			}

			opt.Progress = c.errOut

			result, err := archive.Backup(src, opt)
			if err != nil {
				return err
			}

			return c.printResult(cmd, output, result)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opt.Ignore, "ignore", nil, "Relative path prefixes to leave out (e.g., .git,node_modules)")
	flags.StringSliceVar(&opt.IgnoreExt, "ignore-ext", nil, "Extensions to leave out (e.g., .log,.tmp)")
	flags.StringSliceVar(&opt.IgnorePattern, "ignore-pattern", nil, "Leave out paths containing any of these")
	flags.StringVar(&minSize, "min-size", "", "Leave out files smaller than this (e.g., 1KB)")
	flags.StringVar(&maxSize, "max-size", "", "Leave out files larger than this (e.g., 1GB)")
	flags.BoolVar(&opt.CaseSensitive, "case-sensitive", false, "Match the ignore rules case-sensitively")
	flags.StringVarP(&output, "output", "o", "table", "Output format: table or json")

	return cmd
}

func (c *CLI) mirrorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mirror <src> <dst>",
		Short: "Recreate a directory tree with empty files",
		Long: heredoc.Doc(`
			Recreate the directory tree of src at dst, replacing every file with an
			empty file of the same name. dst must not exist.
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return pathmate.New(args[0]).MirrorTo(args[1])
		},
	}
}
