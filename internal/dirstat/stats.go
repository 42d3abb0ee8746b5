package dirstat

import (
	"cmp"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/idelchi/pathmate/internal/pathmate"
)

// ExtStat represents statistics for a file extension.
type ExtStat struct {
	// Ext is the extension including the dot, empty for files without one.
	Ext string `json:"ext"`
	// Count is the number of files with this extension.
	Count int `json:"count"`
	// Size is the cumulative size in bytes.
	Size int64 `json:"size"`
}

// Entry is a file or directory with its size.
type Entry struct {
	// Path is the display path of the file or directory.
	Path string `json:"path"`
	// Size is the size in bytes, for directories the sum of their files.
	Size int64 `json:"size"`
	// Files is the number of files counted towards a directory.
	Files int `json:"files,omitempty"`
}

// Stats holds aggregate statistics for a directory walk.
type Stats struct {
	// Root is the absolute path of the analyzed directory.
	Root string `json:"root"`
	// FileCount is the number of files counted.
	FileCount int64 `json:"file_count"`
	// DirCount is the number of directories reported in directory mode.
	DirCount int64 `json:"dir_count,omitempty"`
	// TotalBytes is the cumulative size of all counted files.
	TotalBytes int64 `json:"total_bytes"`
	// Extensions lists per-extension totals, largest first.
	Extensions []ExtStat `json:"extensions,omitempty"`
	// Top contains the N largest files or directories, largest first.
	Top []Entry `json:"top"`
	// ErrorCount is the number of entries that could not be read.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
	// DirectoryMode indicates whether directories were ranked instead of files.
	DirectoryMode bool `json:"directory_mode"`
	// TopN is the number of top results tracked.
	TopN int `json:"top_n"`
}

// Options configures directory analysis.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// Extensions to include (empty = all). A '!' prefix excludes instead.
	Extensions []string
	// Excludes contains regex patterns matched against slash-separated paths.
	Excludes []string
	// Filter narrows the counted files further. Nil accepts all.
	Filter pathmate.Predicate
	// MinSize is the minimum file size in bytes.
	MinSize int64
	// TopN is the number of top results to track.
	TopN int
	// Depth limits the traversal in file mode (0=unlimited). In directory
	// mode it is the level whose directories are ranked (0 means 1).
	Depth int
	// DirsMode ranks directories instead of files.
	DirsMode bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug enables debug output on DebugOutput.
	Debug bool
	// DebugOutput receives debug output. Nil means standard error.
	DebugOutput io.Writer
}

// collector aggregates statistics from concurrent fastwalk callbacks using a mutex.
type collector struct {
	mu            sync.Mutex
	topN          int
	directoryMode bool
	extStats      map[string]*ExtStat
	dirs          map[string]*Entry
	files         []Entry
	fileCount     int64
	totalBytes    int64
	errorCount    int64
}

func newCollector(topN int, directoryMode bool) *collector {
	return &collector{
		topN:          topN,
		directoryMode: directoryMode,
		extStats:      make(map[string]*ExtStat),
		dirs:          make(map[string]*Entry),
	}
}

func (c *collector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorCount++
}

// addFile records a file under its extension and, in directory mode, under
// the directory it is ranked with.
func (c *collector) addFile(path, ext, dir string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileCount++
	c.totalBytes += size

	stat, ok := c.extStats[ext]
	if !ok {
		stat = &ExtStat{Ext: ext}
		c.extStats[ext] = stat
	}

	stat.Count++
	stat.Size += size

	if !c.directoryMode {
		c.files = append(c.files, Entry{Path: path, Size: size})

		return
	}

	entry, ok := c.dirs[dir]
	if !ok {
		entry = &Entry{Path: dir}
		c.dirs[dir] = entry
	}

	entry.Files++
	entry.Size += size
}

// progress returns the running totals.
func (c *collector) progress() (int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileCount, c.totalBytes
}

// largestFirst orders by size, then by path for a stable report.
func largestFirst(a, b Entry) int {
	return cmp.Or(cmp.Compare(b.Size, a.Size), cmp.Compare(a.Path, b.Path))
}

// finalize produces the final Stats with the top N entries, largest first.
func (c *collector) finalize() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	top := c.files

	if c.directoryMode {
		top = make([]Entry, 0, len(c.dirs))
		for _, entry := range c.dirs {
			top = append(top, *entry)
		}
	}

	slices.SortFunc(top, largestFirst)

	if len(top) > c.topN {
		top = top[:c.topN]
	}

	exts := make([]ExtStat, 0, len(c.extStats))
	for _, ext := range slices.Sorted(maps.Keys(c.extStats)) {
		exts = append(exts, *c.extStats[ext])
	}

	slices.SortStableFunc(exts, func(a, b ExtStat) int {
		return cmp.Compare(b.Size, a.Size)
	})

	stats := &Stats{
		FileCount:     c.fileCount,
		TotalBytes:    c.totalBytes,
		Extensions:    exts,
		Top:           top,
		ErrorCount:    c.errorCount,
		DirectoryMode: c.directoryMode,
		TopN:          c.topN,
	}

	if c.directoryMode {
		stats.DirCount = int64(len(c.dirs))
	}

	return stats
}
