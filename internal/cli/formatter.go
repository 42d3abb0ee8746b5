package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/pathmate/internal/dirstat"
	"github.com/idelchi/pathmate/internal/pathmate"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, TabSpacing, ' ', 0)
}

// sizeText renders a size as "1.5 KiB".
func sizeText(size int64) string {
	return humanize.IBytes(uint64(max(size, 0))) //nolint:gosec // Clamped to non-negative
}

func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}

// PrintJSON outputs any value as indented JSON.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// pathEntry is the JSON form of a selected path.
type pathEntry struct {
	Path  string    `json:"path"`
	Type  string    `json:"type"`
	Size  int64     `json:"size"`
	Mtime time.Time `json:"mtime"`
}

func newPathEntry(p *pathmate.Path, display string) pathEntry {
	entry := pathEntry{Path: display, Type: "other"}

	info, err := p.Stat()
	if err != nil {
		return entry
	}

	switch {
	case info.IsDir():
		entry.Type = "dir"
	case info.Mode().IsRegular():
		entry.Type = "file"
	}

	entry.Size = info.Size()
	entry.Mtime = info.ModTime()

	return entry
}

// PrintPaths writes one path per line.
func PrintPaths(paths []string, writer io.Writer) error {
	for _, p := range paths {
		if _, err := fmt.Fprintln(writer, p); err != nil {
			return err
		}
	}

	return nil
}

// PrintStat outputs a single record as a table.
func (c *CLI) PrintStat(stat pathmate.StatRecord, writer io.Writer) error {
	w := newTabWriter(writer)

	fmt.Fprintf(w, "%s\t%d\n", c.colors.heading("Files:"), stat.Files)
	fmt.Fprintf(w, "%s\t%d\n", c.colors.heading("Directories:"), stat.Dirs)
	fmt.Fprintf(w, "%s\t%s (%d bytes)\n", c.colors.heading("Size:"), c.colors.highlight(sizeText(stat.Size)), stat.Size)

	return w.Flush()
}

// PrintStatTable outputs one row per directory, relative to root.
func (c *CLI) PrintStatTable(table *pathmate.StatTable, root *pathmate.Path, writer io.Writer) error {
	w := newTabWriter(writer)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		c.colors.heading("DIRECTORY"), c.colors.heading("FILES"), c.colors.heading("DIRS"), c.colors.heading("SIZE"))

	for dir, rec := range table.All() {
		rel, err := filepath.Rel(root.Abspath(), dir)
		if err != nil {
			rel = dir
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", filepath.ToSlash(rel), rec.Files, rec.Dirs, sizeText(rec.Size))
	}

	return w.Flush()
}

// counts is the output of the count command.
type counts struct {
	Files    int   `json:"files"`
	Dirs     int   `json:"dirs"`
	Subfiles int   `json:"subfiles"`
	Subdirs  int   `json:"subdirs"`
	Size     int64 `json:"size"`
}

// PrintCounts outputs file and directory counts as a table.
func (c *CLI) PrintCounts(n counts, writer io.Writer) error {
	w := newTabWriter(writer)

	fmt.Fprintf(w, "%s\t%d\t%s\n", c.colors.heading("Files:"), n.Files, c.colors.muted(fmt.Sprintf("(%d directly inside)", n.Subfiles)))
	fmt.Fprintf(w, "%s\t%d\t%s\n", c.colors.heading("Directories:"), n.Dirs, c.colors.muted(fmt.Sprintf("(%d directly inside)", n.Subdirs)))
	fmt.Fprintf(w, "%s\t%s\t\n", c.colors.heading("Size:"), c.colors.highlight(sizeText(n.Size)))

	return w.Flush()
}

// PrintTop outputs the dirstat report in human-readable table format.
// The largest entry is printed last, next to the summary.
func (c *CLI) PrintTop(stats *dirstat.Stats, writer io.Writer) error {
	w := newTabWriter(writer)

	if !stats.DirectoryMode {
		exts := stats.Extensions
		if len(exts) > stats.TopN {
			exts = exts[:stats.TopN]
		}

		fmt.Fprintf(w, "\n%s\t\t\n", c.colors.heading("Top extensions:"))

		for i := len(exts) - 1; i >= 0; i-- {
			ext := exts[i]

			name := ext.Ext
			if name == "" {
				name = `""`
			}

			fmt.Fprintf(w, "  %d) %s:\t%d files, %s (%.1f%%)\n",
				i+1, name, ext.Count, c.colors.highlight(sizeText(ext.Size)), percent(ext.Size, stats.TotalBytes))
		}
	}

	if stats.DirectoryMode {
		fmt.Fprintf(w, "\n%s\t\t\n", c.colors.heading("Top directories:"))
	} else {
		fmt.Fprintf(w, "\n%s\t\t\n", c.colors.heading("Top files:"))
	}

	for i := len(stats.Top) - 1; i >= 0; i-- {
		entry := stats.Top[i]

		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
			i+1, entry.Path, c.colors.highlight(sizeText(entry.Size)), percent(entry.Size, stats.TotalBytes))
	}

	fmt.Fprintf(w, "\n%s\t\t\n", c.colors.heading("Stats:"))

	if stats.DirectoryMode {
		fmt.Fprintf(w, "Total directories:\t%d\n", stats.DirCount)
	}

	fmt.Fprintf(w, "Total files:\t%d\n", stats.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", sizeText(stats.TotalBytes), stats.TotalBytes)

	if stats.ErrorCount > 0 {
		fmt.Fprintf(w, "Unreadable entries:\t%d\n", stats.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
