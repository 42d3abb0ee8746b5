package pathmate

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	gitignore "github.com/monochromegane/go-gitignore"
)

// Predicate decides whether a path is selected. It must only inspect the path.
type Predicate func(p *Path) bool

// All accepts every path.
func All(*Path) bool { return true }

// MaxSize is the default upper bound for size selections (1 TiB).
const MaxSize int64 = 1 << 40

//nolint:gochecknoglobals // Default bounds for timestamp selections
var (
	// MinTime is the default lower bound for timestamp selections.
	MinTime = time.Unix(0, 0).UTC()
	// MaxTime is the default upper bound for timestamp selections.
	MaxTime = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Extension sets for the typed selections.
//
//nolint:gochecknoglobals // Lookup tables
var (
	ImageExts = []string{
		".jpg", ".jpeg", ".png", ".gif", ".tiff",
		".bmp", ".ppm", ".pgm", ".pbm", ".pnm", ".svg",
	}
	AudioExts = []string{
		".mp3", ".mp4", ".aac", ".m4a", ".wma",
		".wav", ".ape", ".tak", ".tta",
		".3gp", ".webm", ".ogg",
	}
	VideoExts = []string{
		".avi", ".wmv", ".mkv", ".mp4", ".flv",
		".vob", ".mov", ".rm", ".rmvb", ".3gp", ".3g2", ".nsv", ".webm",
		".mpg", ".mpeg", ".m4v", ".iso",
	}
	WordExts    = []string{".doc", ".docx", ".docm", ".dotx", ".dotm", ".docb"}
	ExcelExts   = []string{".xls", ".xlsx", ".xlsm", ".xltx", ".xltm"}
	ArchiveExts = []string{".zip", ".rar", ".gz", ".tgz", ".7z"}
)

// ByExt matches paths whose extension, compared case-insensitively, is one of exts.
// An empty set matches nothing.
func ByExt(exts ...string) Predicate {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}

	return func(p *Path) bool {
		_, ok := set[strings.ToLower(p.Ext())]

		return ok
	}
}

// ByNamePattern matches paths whose name without extension contains pattern.
// An empty pattern matches everything.
func ByNamePattern(pattern string, caseSensitive bool) Predicate {
	return bySubstring(pattern, caseSensitive, (*Path).Fname)
}

// ByPathPattern matches paths whose absolute path contains pattern.
func ByPathPattern(pattern string, caseSensitive bool) Predicate {
	return bySubstring(pattern, caseSensitive, (*Path).Abspath)
}

func bySubstring(pattern string, caseSensitive bool, field func(*Path) string) Predicate {
	if caseSensitive {
		return func(p *Path) bool {
			return strings.Contains(field(p), pattern)
		}
	}

	pattern = strings.ToLower(pattern)

	return func(p *Path) bool {
		return strings.Contains(strings.ToLower(field(p)), pattern)
	}
}

// BySize matches paths with min <= size <= max bytes.
func BySize(minSize, maxSize int64) Predicate {
	return func(p *Path) bool {
		size, err := p.Size()
		if err != nil {
			diagnostics.printf("cannot read size of %s: %v", p, err)

			return false
		}

		return minSize <= size && size <= maxSize
	}
}

// ByMtime matches paths modified within [minTime, maxTime].
func ByMtime(minTime, maxTime time.Time) Predicate {
	return byTime("modify time", minTime, maxTime, (*Path).Mtime)
}

// ByAtime matches paths accessed within [minTime, maxTime].
func ByAtime(minTime, maxTime time.Time) Predicate {
	return byTime("access time", minTime, maxTime, (*Path).Atime)
}

// ByCtime matches paths created or changed within [minTime, maxTime].
func ByCtime(minTime, maxTime time.Time) Predicate {
	return byTime("change time", minTime, maxTime, (*Path).Ctime)
}

func byTime(what string, minTime, maxTime time.Time, get func(*Path) (time.Time, error)) Predicate {
	return func(p *Path) bool {
		t, err := get(p)
		if err != nil {
			diagnostics.printf("cannot read %s of %s: %v", what, p, err)

			return false
		}

		return !t.Before(minTime) && !t.After(maxTime)
	}
}

// ByGlob matches paths whose base name matches a glob pattern such as "*.{jpg,png}".
func ByGlob(pattern string) (Predicate, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, &PathError{Op: "glob", Path: pattern, Err: fmt.Errorf("%w: %w", ErrInvalidArgument, err)}
	}

	return func(p *Path) bool {
		return g.Match(p.Basename())
	}, nil
}

// NotIgnored rejects paths ignored by the rules of the given .gitignore file,
// including everything below an ignored directory. Rules apply relative to
// the directory containing the file.
func NotIgnored(gitignorePath string) (Predicate, error) {
	abs, err := filepath.Abs(gitignorePath)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", gitignorePath, err)
	}

	matcher, err := gitignore.NewGitIgnore(abs)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", abs, err)
	}

	base := filepath.Dir(abs) + string(filepath.Separator)

	return func(p *Path) bool {
		if matcher.Match(p.abs, p.IsDir()) {
			return false
		}

		// The matcher only looks at the path it is given.
		for dir := filepath.Dir(p.abs); strings.HasPrefix(dir, base); dir = filepath.Dir(dir) {
			if matcher.Match(dir, true) {
				return false
			}
		}

		return true
	}, nil
}

// Filter narrows seq to the paths accepted by every predicate, in order.
func Filter(seq iter.Seq[*Path], preds ...Predicate) iter.Seq[*Path] {
	return func(yield func(*Path) bool) {
	next:
		for p := range seq {
			for _, pred := range preds {
				if pred != nil && !pred(p) {
					continue next
				}
			}

			if !yield(p) {
				return
			}
		}
	}
}
