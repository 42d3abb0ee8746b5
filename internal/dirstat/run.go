package dirstat

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/idelchi/pathmate/internal/pathmate"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// DefaultTopN is used when Options.TopN is not positive.
const DefaultTopN = 20

// logger provides conditional debug output. fastwalk calls back from several
// goroutines, so writes are serialized.
type logger struct {
	enabled bool
	mu      sync.Mutex
	out     io.Writer
}

// printf prints debug output if logging is enabled.
func (l *logger) printf(format string, args ...any) {
	if !l.enabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.out, "[debug]: "+format+"\n", args...)
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// rankedDir returns the ancestor of dir at most level directories below root.
func rankedDir(dir, root string, level int) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return root
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) > level {
		parts = parts[:level]
	}

	return filepath.Join(append([]string{root}, parts...)...)
}

// shouldExcludeByPattern returns the first exclusion regex matching path.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// extFilter holds the '+' and '!' extension sets.
type extFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

func newExtFilter(exts []string) extFilter {
	f := extFilter{
		include: make(map[string]struct{}, len(exts)),
		exclude: make(map[string]struct{}, len(exts)),
	}

	for _, e := range exts { //nolint:varnamelen // e is standard for element in range
		e = strings.Trim(e, "'\"")

		if after, ok := strings.CutPrefix(e, "!"); ok {
			f.exclude[after] = struct{}{}
		} else if e != "" {
			f.include[e] = struct{}{}
		}
	}

	return f
}

// allows reports whether path passes the suffix filters. Suffixes such as
// "_test.go" are allowed, so matching is by suffix rather than extension.
func (f extFilter) allows(path string) bool {
	for ext := range f.exclude {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for ext := range f.include {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// displayer renders paths relative to the working directory when the root is
// inside it and absolute otherwise.
type displayer struct {
	cwd     string
	outside bool
}

func newDisplayer(root string) (displayer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return displayer{}, fmt.Errorf("getting current directory: %w", err)
	}

	rel, err := filepath.Rel(cwd, root)

	return displayer{cwd: cwd, outside: err != nil || strings.HasPrefix(rel, "..")}, nil
}

func (d displayer) display(path string) string {
	if !d.outside {
		if rel, err := filepath.Rel(d.cwd, path); err == nil {
			path = rel
		}
	}

	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.progress())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run walks the directory at opt.Path and returns aggregated statistics.
//
// Files are counted when they are regular, at least opt.MinSize bytes, pass
// the extension filters and opt.Filter, and no exclusion regex matches them
// or one of their directories. Unreadable entries are counted in ErrorCount
// and skipped.
//
// The walk can be cancelled via ctx. Progress updates are sent to
// progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Stats, error) {
	if opt.DebugOutput == nil {
		opt.DebugOutput = os.Stderr
	}

	log := &logger{enabled: opt.Debug, out: opt.DebugOutput}

	if opt.Path == "" {
		opt.Path = "."
	}

	root := pathmate.New(opt.Path)
	if err := root.AssertIsDir(); err != nil {
		return nil, err
	}

	disp, err := newDisplayer(root.Abspath())
	if err != nil {
		return nil, err
	}

	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	level := max(opt.Depth, 1)

	excludes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludes = append(excludes, re)
	}

	exts := newExtFilter(opt.Extensions)

	log.printf("include extensions: %v", slices.Sorted(maps.Keys(exts.include)))
	log.printf("exclude extensions: %v", slices.Sorted(maps.Keys(exts.exclude)))

	for _, re := range excludes {
		log.printf("exclude regex: %s", re)
	}

	collector := newCollector(opt.TopN, opt.DirsMode)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	start := time.Now()

	conf := &fastwalk.Config{
		Follow: false,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root.Abspath(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.printf("error accessing path %s: %v", path, err)
			collector.addError()

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root.Abspath() {
			return nil
		}

		if !opt.DirsMode && opt.Depth > 0 && calculateDepth(path, root.Abspath()) > opt.Depth {
			if d.IsDir() {
				log.printf("skipping directory (beyond depth %d): %s", opt.Depth, path)

				return filepath.SkipDir
			}

			return nil
		}

		if re := shouldExcludeByPattern(path, excludes); re != nil {
			log.printf("excluding %s: matched regex %s", filepath.ToSlash(path), re)

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.printf("cannot stat %s: %v", path, err)
			collector.addError()

			return nil
		}

		if info.Size() < opt.MinSize {
			return nil
		}

		if !exts.allows(path) {
			log.printf("excluding file (extension filter): %s", path)

			return nil
		}

		if opt.Filter != nil && !opt.Filter(pathmate.New(path)) {
			return nil
		}

		dir := ""
		if opt.DirsMode {
			dir = disp.display(rankedDir(filepath.Dir(path), root.Abspath(), level))
		}

		collector.addFile(disp.display(path), filepath.Ext(path), dir, info.Size())

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %q: %w", root, walkErr)
	}

	stats := collector.finalize()
	stats.Root = root.Abspath()
	stats.Elapsed = time.Since(start)

	return stats, nil
}

