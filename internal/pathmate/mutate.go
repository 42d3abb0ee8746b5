package pathmate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChangeOption replaces one component of a path in Change, MoveTo and CopyTo.
type ChangeOption func(*change)

type change struct {
	abspath  *string
	dirpath  *string
	dirname  *string
	basename *string
	fname    *string
	ext      *string
}

// WithAbspath replaces the whole path. Other options are ignored.
func WithAbspath(s string) ChangeOption { return func(c *change) { c.abspath = &s } }

// WithDirpath moves the path into another directory.
func WithDirpath(s string) ChangeOption { return func(c *change) { c.dirpath = &s } }

// WithDirname renames the parent directory.
func WithDirname(s string) ChangeOption { return func(c *change) { c.dirname = &s } }

// WithBasename replaces the final element.
func WithBasename(s string) ChangeOption { return func(c *change) { c.basename = &s } }

// WithFname replaces the final element's name, keeping its extension.
func WithFname(s string) ChangeOption { return func(c *change) { c.fname = &s } }

// WithExt replaces the extension; an empty string removes it.
func WithExt(s string) ChangeOption { return func(c *change) { c.ext = &s } }

// Change returns a new path with the given components replaced.
// Dirpath and Dirname are mutually exclusive, as are Basename and Fname/Ext.
func (p *Path) Change(opts ...ChangeOption) (*Path, error) {
	var c change
	for _, opt := range opts {
		opt(&c)
	}

	if c.abspath != nil {
		return New(*c.abspath), nil
	}

	dirpath := p.Dirpath()

	switch {
	case c.dirpath != nil && c.dirname != nil:
		return nil, fmt.Errorf("%w: cannot change both dirpath and dirname", ErrInvalidArgument)
	case c.dirpath != nil:
		dirpath = *c.dirpath
	case c.dirname != nil:
		dirpath = filepath.Join(p.Parent().Dirpath(), *c.dirname)
	}

	basename := p.Basename()

	if c.basename != nil {
		if c.fname != nil || c.ext != nil {
			return nil, fmt.Errorf("%w: cannot change basename together with fname or ext", ErrInvalidArgument)
		}

		basename = *c.basename
	} else {
		fname, ext := p.Fname(), p.Ext()
		if c.fname != nil {
			fname = *c.fname
		}

		if c.ext != nil {
			ext = *c.ext
		}

		basename = fname + ext
	}

	return New(dirpath, basename), nil
}

// prepareTarget resolves the destination of a move or copy.
// It reports false when source and target are the same location.
func (p *Path) prepareTarget(op string, overwrite, makedirs bool, opts []ChangeOption) (*Path, bool, error) {
	if err := p.AssertExists(); err != nil {
		return nil, false, err
	}

	target, err := p.Change(opts...)
	if err != nil {
		return nil, false, err
	}

	if target.Equal(p) {
		return target, false, nil
	}

	if !overwrite && target.Exists() {
		return nil, false, &PathError{Op: op, Path: target.abs, Err: ErrExists}
	}

	if makedirs {
		if err := os.MkdirAll(target.Dirpath(), 0o755); err != nil {
			return nil, false, fmt.Errorf("creating directory %q: %w", target.Dirpath(), err)
		}
	}

	return target, true, nil
}

// MoveTo renames the path to the location built from opts and returns it.
// An existing target is an error unless overwrite is set; makedirs creates
// missing parent directories.
func (p *Path) MoveTo(overwrite, makedirs bool, opts ...ChangeOption) (*Path, error) {
	target, needed, err := p.prepareTarget("move", overwrite, makedirs, opts)
	if err != nil || !needed {
		return target, err
	}

	if err := os.Rename(p.abs, target.abs); err != nil {
		return nil, fmt.Errorf("moving %q to %q: %w", p.abs, target.abs, err)
	}

	p.Refresh()

	return target, nil
}

// CopyTo copies a regular file to the location built from opts and returns it.
func (p *Path) CopyTo(overwrite, makedirs bool, opts ...ChangeOption) (*Path, error) {
	if err := p.AssertIsFile(); err != nil {
		return nil, err
	}

	target, needed, err := p.prepareTarget("copy", overwrite, makedirs, opts)
	if err != nil || !needed {
		return target, err
	}

	if err := copyFile(p.abs, target.abs, p.info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("copying %q to %q: %w", p.abs, target.abs, err)
	}

	return target, nil
}

func copyFile(src, dst string, perm os.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, out.Close())
	}()

	_, err = io.Copy(out, in)

	return err
}

// Remove deletes the file or empty directory.
func (p *Path) Remove() error {
	if err := os.Remove(p.abs); err != nil {
		return fmt.Errorf("removing %q: %w", p.abs, err)
	}

	p.Refresh()

	return nil
}

// MirrorTo recreates the directory tree of p at dst with every file replaced
// by an empty one of the same name. dst must not exist and must not lie
// inside p.
func (p *Path) MirrorTo(dst string) error {
	seq, err := p.Select(nil, true)
	if err != nil {
		return err
	}

	target := New(dst)
	if target.abs == p.abs || strings.HasPrefix(target.abs, p.abs+string(filepath.Separator)) {
		return &PathError{Op: "mirror", Path: target.abs, Err: fmt.Errorf("%w: destination inside %s", ErrInvalidArgument, p)}
	}

	if target.Exists() {
		return &PathError{Op: "mirror", Path: target.abs, Err: ErrExists}
	}

	if err := os.MkdirAll(target.abs, 0o755); err != nil {
		return fmt.Errorf("creating directory %q: %w", target.abs, err)
	}

	for entry := range seq {
		rel, err := entry.Rel(p)
		if err != nil {
			return err
		}

		mirrored := filepath.Join(target.abs, rel)

		switch {
		case entry.IsDir():
			if err := os.MkdirAll(mirrored, 0o755); err != nil {
				return fmt.Errorf("creating directory %q: %w", mirrored, err)
			}
		case entry.IsFile():
			f, err := os.Create(mirrored)
			if err != nil {
				return fmt.Errorf("creating file %q: %w", mirrored, err)
			}

			_ = f.Close()
		}
	}

	return nil
}
