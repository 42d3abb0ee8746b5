package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/idelchi/pathmate/internal/pathmate"
)

// BackupOptions selects what Backup leaves out of the archive.
type BackupOptions struct {
	// Dst is the archive path. Empty picks a timestamped name next to the source.
	Dst string
	// Ignore lists relative path prefixes, e.g. "node_modules" or ".git/".
	Ignore []string
	// IgnoreExt lists extensions including the dot, e.g. ".log".
	IgnoreExt []string
	// IgnorePattern lists substrings of the relative path.
	IgnorePattern []string
	// IgnoreSmallerThan skips files below this many bytes. Zero disables it.
	IgnoreSmallerThan int64
	// IgnoreLargerThan skips files above this many bytes. Zero disables it.
	IgnoreLargerThan int64
	// CaseSensitive matches the rules above without folding case.
	CaseSensitive bool
	// Progress receives human readable status lines. Nil is silent.
	Progress io.Writer
}

// Validate checks the ignore rules.
func (o BackupOptions) Validate() error {
	for _, prefix := range o.Ignore {
		if strings.HasPrefix(prefix, "/") || strings.HasPrefix(prefix, `\`) {
			return fmt.Errorf("%w: ignore entry %q must be relative", pathmate.ErrInvalidArgument, prefix)
		}
	}

	for _, ext := range o.IgnoreExt {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: ignored extension %q must start with '.'", pathmate.ErrInvalidArgument, ext)
		}
	}

	if o.IgnoreSmallerThan < 0 || o.IgnoreLargerThan < 0 {
		return fmt.Errorf("%w: size bounds cannot be negative", pathmate.ErrInvalidArgument)
	}

	return nil
}

// Filter builds the predicate that accepts files not matched by any rule.
func (o BackupOptions) Filter(src *pathmate.Path) pathmate.Predicate {
	fold := func(s string) string {
		if o.CaseSensitive {
			return s
		}

		return strings.ToLower(s)
	}

	foldAll := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			out = append(out, fold(filepath.ToSlash(s)))
		}

		return out
	}

	ignore := foldAll(o.Ignore)
	ignoreExt := foldAll(o.IgnoreExt)
	ignorePattern := foldAll(o.IgnorePattern)

	return func(p *pathmate.Path) bool {
		rel, err := p.Rel(src)
		if err != nil {
			return false
		}

		rel = fold(filepath.ToSlash(rel))

		for _, prefix := range ignore {
			if strings.HasPrefix(rel, prefix) {
				return false
			}
		}

		if slices.Contains(ignoreExt, fold(p.Ext())) {
			return false
		}

		for _, pattern := range ignorePattern {
			if strings.Contains(rel, pattern) {
				return false
			}
		}

		if o.IgnoreSmallerThan == 0 && o.IgnoreLargerThan == 0 {
			return true
		}

		size, err := p.Size()
		if err != nil {
			return false
		}

		if o.IgnoreSmallerThan > 0 && size < o.IgnoreSmallerThan {
			return false
		}

		if o.IgnoreLargerThan > 0 && size > o.IgnoreLargerThan {
			return false
		}

		return true
	}
}

// Backup archives the directory src with compression, leaving out the files
// matched by the ignore rules. An existing archive is never overwritten.
func Backup(src *pathmate.Path, opt BackupOptions) (*Result, error) {
	if err := src.AssertIsDir(); err != nil {
		return nil, err
	}

	if err := opt.Validate(); err != nil {
		return nil, err
	}

	return MakeZip(src, Options{
		Dst:      opt.Dst,
		Filter:   opt.Filter(src),
		Compress: true,
		Progress: opt.Progress,
	})
}
