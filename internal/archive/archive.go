// Package archive writes zip archives of files and directory trees.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/pathmate/internal/pathmate"
)

// ErrNotZip is returned when the destination name does not end in ".zip".
var ErrNotZip = errors.New("archive name must end with .zip")

// Options configures MakeZip.
type Options struct {
	// Dst is the archive path. Empty picks a timestamped name next to the source.
	Dst string
	// Filter selects the files to include. Nil includes everything.
	Filter pathmate.Predicate
	// Compress uses deflate instead of storing files as-is.
	Compress bool
	// Overwrite replaces an existing archive.
	Overwrite bool
	// MakeDirs creates missing parent directories of Dst.
	MakeDirs bool
	// Progress receives human readable status lines. Nil is silent.
	Progress io.Writer
}

// Result describes a written archive.
type Result struct {
	// Dst is the absolute path of the archive.
	Dst string `json:"dst"`
	// Files is the number of files stored.
	Files int `json:"files"`
	// TotalSize is the uncompressed size of the stored files.
	TotalSize int64 `json:"total_size"`
}

// AutoName returns "<basename>-YYYY-MM-DD-HHh-MMm-SSs-XXXX.zip" next to src.
func AutoName(src *pathmate.Path, now time.Time) string {
	name := fmt.Sprintf("%s-%s-%s.zip", src.Basename(), now.Format("2006-01-02-15h-04m-05s"), randomSuffix(4))

	return filepath.Join(src.Dirpath(), name)
}

const alphaDigits = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphaDigits[rand.IntN(len(alphaDigits))] //nolint:gosec // Name suffix, not a secret
	}

	return string(b)
}

// entry is one file queued for the archive.
type entry struct {
	path *pathmate.Path
	name string
	size int64
}

// MakeZip archives src, a directory or a single file, into a zip file.
// Names inside the archive are relative to src; a single file is stored
// under its base name. Directories are not stored and are created implicitly
// on extraction.
func MakeZip(src *pathmate.Path, opt Options) (*Result, error) {
	if err := src.AssertExists(); err != nil {
		return nil, err
	}

	if opt.Dst == "" {
		opt.Dst = AutoName(src, time.Now())
	}

	dst := pathmate.New(opt.Dst)

	if !strings.EqualFold(filepath.Ext(dst.Basename()), ".zip") {
		return nil, fmt.Errorf("%w: %q", ErrNotZip, dst)
	}

	if !opt.Overwrite && dst.Exists() {
		return nil, &pathmate.PathError{Op: "zip", Path: dst.Abspath(), Err: pathmate.ErrExists}
	}

	if opt.MakeDirs {
		if err := os.MkdirAll(dst.Dirpath(), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %q: %w", dst.Dirpath(), err)
		}
	}

	report(opt.Progress, "Making zip archive for '%s' ...", src)

	entries, total, err := collect(src, dst, opt.Filter)
	if err != nil {
		return nil, err
	}

	report(opt.Progress, "Got %d files, total size is %s, compressing ...", len(entries), humanize.IBytes(uint64(total))) //nolint:gosec // Sizes are never negative

	method := zip.Store
	if opt.Compress {
		method = zip.Deflate
	}

	if err := write(dst.Abspath(), entries, method); err != nil {
		return nil, err
	}

	if text, err := dst.Refresh().SizeInText(); err == nil {
		report(opt.Progress, "Complete! Archive size is %s.", text)
	}

	return &Result{Dst: dst.Abspath(), Files: len(entries), TotalSize: total}, nil
}

func collect(src, dst *pathmate.Path, filter pathmate.Predicate) ([]entry, int64, error) {
	if src.IsFile() {
		size, err := src.Size()
		if err != nil {
			return nil, 0, err
		}

		return []entry{{path: src, name: src.Basename(), size: size}}, size, nil
	}

	seq, err := src.SelectFile(filter, true)
	if err != nil {
		return nil, 0, err
	}

	var (
		entries []entry
		total   int64
	)

	for file := range seq {
		if file.Equal(dst) {
			continue
		}

		rel, err := file.Rel(src)
		if err != nil {
			return nil, 0, err
		}

		size, err := file.Size()
		if err != nil {
			return nil, 0, fmt.Errorf("reading size of %q: %w", file, err)
		}

		entries = append(entries, entry{path: file, name: filepath.ToSlash(rel), size: size})
		total += size
	}

	return entries, total, nil
}

// write creates the archive at dst. A partially written archive is removed.
func write(dst string, entries []entry, method uint16) (err error) {
	zipFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	w := zip.NewWriter(zipFile)

	for _, e := range entries {
		if err := add(w, e, method); err != nil {
			_ = w.Close()
			_ = zipFile.Close()

			return err
		}
	}

	// Close zip writer first to flush data
	if err := w.Close(); err != nil {
		_ = zipFile.Close()

		return fmt.Errorf("closing zip writer: %w", err)
	}

	if err := zipFile.Close(); err != nil {
		return fmt.Errorf("closing zip file: %w", err)
	}

	return nil
}

func add(w *zip.Writer, e entry, method uint16) error {
	info, err := e.path.Stat()
	if err != nil {
		return fmt.Errorf("reading %q: %w", e.path, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("creating header for %q: %w", e.path, err)
	}

	header.Name = e.name
	header.Method = method

	writer, err := w.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %q: %w", e.name, err)
	}

	file, err := os.Open(e.path.Abspath())
	if err != nil {
		return fmt.Errorf("opening %q: %w", e.path, err)
	}

	_, err = io.Copy(writer, file)
	_ = file.Close()

	if err != nil {
		return fmt.Errorf("copying %q: %w", e.path, err)
	}

	return nil
}

func report(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}

	fmt.Fprintf(w, format+"\n", args...)
}
