package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/pathmate/internal/config"
	"github.com/idelchi/pathmate/internal/pathmate"
)

// filterFlags are the selection flags shared by select, stat, count and zip.
type filterFlags struct {
	exts          []string
	name          string
	path          string
	glob          string
	minSize       string
	maxSize       string
	newer         string
	older         string
	caseSensitive bool
	noIgnore      bool
}

func (f *filterFlags) register(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&f.exts, "ext", "x", nil, "Extensions to keep (e.g., .go,.md), case-insensitive")
	flags.StringVarP(&f.name, "name", "n", "", "Keep names (without extension) containing this text")
	flags.StringVarP(&f.path, "path", "p", "", "Keep paths containing this text")
	flags.StringVarP(&f.glob, "glob", "g", "", "Keep base names matching a glob (e.g., '*.{jpg,png}')")
	flags.StringVar(&f.minSize, "min-size", "", "Minimum size (e.g., 1KB)")
	flags.StringVar(&f.maxSize, "max-size", "", "Maximum size (e.g., 10MiB)")
	flags.StringVar(&f.newer, "newer", "", "Modified at or after this time (RFC3339, date or duration such as 24h)")
	flags.StringVar(&f.older, "older", "", "Modified at or before this time (RFC3339, date or duration)")
	flags.BoolVar(&f.caseSensitive, "case-sensitive", false, "Match --name and --path case-sensitively")
	flags.BoolVar(&f.noIgnore, "no-ignore", false, "Do not honour a .gitignore at the root")
}

// predicates builds the predicates selected by the flags, cheapest first.
func (f *filterFlags) predicates(
	cmd *cobra.Command,
	cfg *config.Config,
	root *pathmate.Path,
	now time.Time,
) ([]pathmate.Predicate, error) {
	var preds []pathmate.Predicate

	caseSensitive := cfg.CaseSensitive
	if cmd.Flags().Changed("case-sensitive") {
		caseSensitive = f.caseSensitive
	}

	if len(f.exts) > 0 {
		preds = append(preds, pathmate.ByExt(f.exts...))
	}

	if f.name != "" {
		preds = append(preds, pathmate.ByNamePattern(f.name, caseSensitive))
	}

	if f.path != "" {
		preds = append(preds, pathmate.ByPathPattern(f.path, caseSensitive))
	}

	if f.glob != "" {
		pred, err := pathmate.ByGlob(f.glob)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pred)
	}

	if cfg.Gitignore && !f.noIgnore {
		if gitignore := root.Join(".gitignore"); gitignore.IsFile() {
			pred, err := pathmate.NotIgnored(gitignore.Abspath())
			if err != nil {
				return nil, err
			}

			preds = append(preds, pred)
		}
	}

	if f.minSize != "" || f.maxSize != "" {
		minSize, err := parseSize("min-size", f.minSize, 0)
		if err != nil {
			return nil, err
		}

		maxSize, err := parseSize("max-size", f.maxSize, pathmate.MaxSize)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pathmate.BySize(minSize, maxSize))
	}

	if f.newer != "" || f.older != "" {
		minTime, err := parseTime("newer", f.newer, pathmate.MinTime, now)
		if err != nil {
			return nil, err
		}

		maxTime, err := parseTime("older", f.older, pathmate.MaxTime, now)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pathmate.ByMtime(minTime, maxTime))
	}

	return preds, nil
}

// matchAll folds preds into the single predicate the stats and archive
// functions take. Nil accepts everything.
func matchAll(preds []pathmate.Predicate) pathmate.Predicate {
	if len(preds) == 0 {
		return nil
	}

	return func(p *pathmate.Path) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}

		return true
	}
}

// parseSize parses a human readable size such as "1.5MB"; empty yields fallback.
func parseSize(flag, value string, fallback int64) (int64, error) {
	if value == "" {
		return fallback, nil
	}

	size, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", flag, err)
	}

	return int64(size), nil //nolint:gosec // Size conversion from humanize is safe
}

// parseTime accepts RFC3339, a plain date or a duration counted back from now.
func parseTime(flag, value string, fallback, now time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}

	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}

	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid %s %q: expected RFC3339, YYYY-MM-DD or a duration", flag, value)
}
