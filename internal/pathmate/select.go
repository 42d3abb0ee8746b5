package pathmate

import (
	"iter"
	"os"
	"time"
)

// Select returns the entries below p accepted by pred, lazily.
//
// With recursive set, every descendant is visited depth-first in pre-order,
// each directory listed in name order; otherwise only immediate children.
// Symlinked directories are yielded but not descended. A nil pred accepts all.
//
// The root is validated before Select returns. Each range over the result
// walks the filesystem afresh; stopping early lists no further directories.
// Directories that cannot be listed are reported as diagnostics and skipped.
func (p *Path) Select(pred Predicate, recursive bool) (iter.Seq[*Path], error) {
	if err := p.AssertIsDir(); err != nil {
		return nil, err
	}

	if pred == nil {
		pred = All
	}

	root := &Path{abs: p.abs}

	return func(yield func(*Path) bool) {
		walk(root, pred, recursive, yield)
	}, nil
}

// walk reports false once the consumer stopped.
func walk(dir *Path, pred Predicate, recursive bool, yield func(*Path) bool) bool {
	entries, err := os.ReadDir(dir.abs)
	if err != nil {
		diagnostics.printf("cannot list directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		child := dir.child(entry.Name())

		if pred(child) && !yield(child) {
			return false
		}

		if recursive && entry.IsDir() {
			if !walk(child, pred, recursive, yield) {
				return false
			}
		}
	}

	return true
}

// SelectFile is Select narrowed to regular files.
func (p *Path) SelectFile(pred Predicate, recursive bool) (iter.Seq[*Path], error) {
	return p.selectKind(pred, recursive, (*Path).IsFile)
}

// SelectDir is Select narrowed to directories.
func (p *Path) SelectDir(pred Predicate, recursive bool) (iter.Seq[*Path], error) {
	return p.selectKind(pred, recursive, (*Path).IsDir)
}

func (p *Path) selectKind(pred Predicate, recursive bool, kind Predicate) (iter.Seq[*Path], error) {
	seq, err := p.Select(pred, recursive)
	if err != nil {
		return nil, err
	}

	return Filter(seq, kind), nil
}

// SelectByExt selects files with one of the given extensions, ignoring case.
func (p *Path) SelectByExt(recursive bool, exts ...string) (iter.Seq[*Path], error) {
	return p.SelectFile(ByExt(exts...), recursive)
}

// SelectByNamePattern selects files whose name without extension contains pattern.
func (p *Path) SelectByNamePattern(pattern string, recursive, caseSensitive bool) (iter.Seq[*Path], error) {
	return p.SelectFile(ByNamePattern(pattern, caseSensitive), recursive)
}

// SelectByPathPattern selects files whose absolute path contains pattern.
func (p *Path) SelectByPathPattern(pattern string, recursive, caseSensitive bool) (iter.Seq[*Path], error) {
	return p.SelectFile(ByPathPattern(pattern, caseSensitive), recursive)
}

// SelectBySize selects files between minSize and maxSize bytes inclusive.
func (p *Path) SelectBySize(minSize, maxSize int64, recursive bool) (iter.Seq[*Path], error) {
	return p.SelectFile(BySize(minSize, maxSize), recursive)
}

// SelectByMtime selects files modified within [minTime, maxTime].
func (p *Path) SelectByMtime(minTime, maxTime time.Time, recursive bool) (iter.Seq[*Path], error) {
	return p.SelectFile(ByMtime(minTime, maxTime), recursive)
}

// SelectByAtime selects files accessed within [minTime, maxTime].
func (p *Path) SelectByAtime(minTime, maxTime time.Time, recursive bool) (iter.Seq[*Path], error) {
	return p.SelectFile(ByAtime(minTime, maxTime), recursive)
}

// SelectByCtime selects files created or changed within [minTime, maxTime].
func (p *Path) SelectByCtime(minTime, maxTime time.Time, recursive bool) (iter.Seq[*Path], error) {
	return p.SelectFile(ByCtime(minTime, maxTime), recursive)
}

// SelectImage selects image files by extension, see ImageExts.
func (p *Path) SelectImage(recursive bool) (iter.Seq[*Path], error) {
	return p.SelectByExt(recursive, ImageExts...)
}

// SelectAudio selects audio files by extension, see AudioExts.
func (p *Path) SelectAudio(recursive bool) (iter.Seq[*Path], error) {
	return p.SelectByExt(recursive, AudioExts...)
}

// SelectVideo selects video files by extension, see VideoExts.
func (p *Path) SelectVideo(recursive bool) (iter.Seq[*Path], error) {
	return p.SelectByExt(recursive, VideoExts...)
}

// SelectWord selects word processor files by extension, see WordExts.
func (p *Path) SelectWord(recursive bool) (iter.Seq[*Path], error) {
	return p.SelectByExt(recursive, WordExts...)
}

// SelectExcel selects spreadsheet files by extension, see ExcelExts.
func (p *Path) SelectExcel(recursive bool) (iter.Seq[*Path], error) {
	return p.SelectByExt(recursive, ExcelExts...)
}

// SelectArchive selects archive files by extension, see ArchiveExts.
func (p *Path) SelectArchive(recursive bool) (iter.Seq[*Path], error) {
	return p.SelectByExt(recursive, ArchiveExts...)
}

// NFile counts files at any depth.
func (p *Path) NFile() (int, error) { return p.count((*Path).SelectFile, true) }

// NDir counts directories at any depth.
func (p *Path) NDir() (int, error) { return p.count((*Path).SelectDir, true) }

// NSubfile counts files directly inside p.
func (p *Path) NSubfile() (int, error) { return p.count((*Path).SelectFile, false) }

// NSubdir counts directories directly inside p.
func (p *Path) NSubdir() (int, error) { return p.count((*Path).SelectDir, false) }

func (p *Path) count(sel func(*Path, Predicate, bool) (iter.Seq[*Path], error), recursive bool) (int, error) {
	seq, err := sel(p, nil, recursive)
	if err != nil {
		return 0, err
	}

	n := 0
	for range seq {
		n++
	}

	return n, nil
}

// DirSize sums the sizes of all files below p. Files whose size cannot be
// read are reported and left out.
func (p *Path) DirSize() (int64, error) {
	seq, err := p.SelectFile(nil, true)
	if err != nil {
		return 0, err
	}

	var total int64

	for file := range seq {
		size, err := file.Size()
		if err != nil {
			diagnostics.printf("cannot read size of %s: %v", file, err)

			continue
		}

		total += size
	}

	return total, nil
}

// IsEmpty reports whether a file has no content or a directory has no entries.
// With strict unset a directory counts as empty when it holds no files.
func (p *Path) IsEmpty(strict bool) (bool, error) {
	if err := p.AssertExists(); err != nil {
		return false, err
	}

	switch {
	case p.info.Mode().IsRegular():
		return p.info.Size() == 0, nil
	case p.info.IsDir():
		sel := (*Path).SelectFile
		if strict {
			sel = (*Path).Select
		}

		seq, err := sel(p, nil, true)
		if err != nil {
			return false, err
		}

		for range seq {
			return false, nil
		}

		return true, nil
	default:
		return false, &PathError{Op: "is empty", Path: p.abs, Err: ErrNotAFile}
	}
}
