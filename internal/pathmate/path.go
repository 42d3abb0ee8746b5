package pathmate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Path is an absolute filesystem location with a memoized stat result.
//
// Attribute accessors (Size, Mtime, Atime, Ctime) stat the path once and reuse
// the result until Refresh is called. Existence checks (Exists, IsDir, IsFile)
// always consult the filesystem and update the cache.
type Path struct {
	abs  string
	info fs.FileInfo
}

// New joins elem into a path and makes it absolute.
// It never touches the filesystem apart from resolving the working directory.
func New(elem ...string) *Path {
	joined := filepath.Join(elem...)
	if joined == "" {
		joined = "."
	}

	abs, err := filepath.Abs(joined)
	if err != nil {
		abs = filepath.Clean(joined)
	}

	return &Path{abs: abs}
}

// child builds a path directly below p without re-resolving it.
func (p *Path) child(name string) *Path {
	return &Path{abs: filepath.Join(p.abs, name)}
}

func (p *Path) String() string { return p.abs }

// Equal reports whether both paths name the same location.
func (p *Path) Equal(other *Path) bool {
	return other != nil && p.abs == other.abs
}

// Abspath returns the absolute path, e.g. /home/admin/readme.txt.
func (p *Path) Abspath() string { return p.abs }

// Dirpath returns the absolute path of the parent directory, e.g. /home/admin.
func (p *Path) Dirpath() string { return filepath.Dir(p.abs) }

// Dirname returns the name of the parent directory, e.g. admin.
func (p *Path) Dirname() string { return filepath.Base(filepath.Dir(p.abs)) }

// Basename returns the final element including extension, e.g. readme.txt.
func (p *Path) Basename() string { return filepath.Base(p.abs) }

// Ext returns the extension of the final element including the dot, e.g. .txt.
// Dot-files such as .bashrc and names ending in a dot have no extension.
func (p *Path) Ext() string {
	name := p.Basename()

	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}

	return name[i:]
}

// Fname returns the final element without extension, e.g. readme.
func (p *Path) Fname() string {
	name := p.Basename()

	return strings.TrimSuffix(name, p.Ext())
}

// Parts splits the path into its elements, starting with the volume root.
func (p *Path) Parts() []string {
	vol := filepath.VolumeName(p.abs)
	rest := strings.TrimPrefix(p.abs[len(vol):], string(filepath.Separator))

	parts := []string{vol + string(filepath.Separator)}
	if rest == "" {
		return parts
	}

	return append(parts, strings.Split(rest, string(filepath.Separator))...)
}

// Parent returns the containing directory. The parent of a root is itself.
func (p *Path) Parent() *Path {
	return &Path{abs: filepath.Dir(p.abs)}
}

// Join appends elements to the path.
func (p *Path) Join(parts ...string) *Path {
	return &Path{abs: filepath.Join(append([]string{p.abs}, parts...)...)}
}

// DropParts removes n trailing elements. It never goes above the root.
func (p *Path) DropParts(n int) *Path {
	abs := p.abs
	for range n {
		abs = filepath.Dir(abs)
	}

	return &Path{abs: abs}
}

// Stat returns the file info, following symlinks. The result is cached.
func (p *Path) Stat() (fs.FileInfo, error) {
	if p.info != nil {
		return p.info, nil
	}

	return p.lookup()
}

// Refresh drops the cached stat result and returns p.
func (p *Path) Refresh() *Path {
	p.info = nil

	return p
}

// lookup stats the path unconditionally and updates the cache.
func (p *Path) lookup() (fs.FileInfo, error) {
	info, err := os.Stat(p.abs)
	if err != nil {
		p.info = nil

		return nil, err
	}

	p.info = info

	return info, nil
}

// Exists reports whether anything exists at the path.
func (p *Path) Exists() bool {
	_, err := p.lookup()

	return err == nil
}

// IsDir reports whether the path is an existing directory.
func (p *Path) IsDir() bool {
	info, err := p.lookup()

	return err == nil && info.IsDir()
}

// IsFile reports whether the path is an existing regular file.
func (p *Path) IsFile() bool {
	info, err := p.lookup()

	return err == nil && info.Mode().IsRegular()
}

// Size returns the size in bytes.
func (p *Path) Size() (int64, error) {
	info, err := p.Stat()
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// SizeInText returns the size in human readable form, e.g. "1.5 KiB".
func (p *Path) SizeInText() (string, error) {
	size, err := p.Size()
	if err != nil {
		return "", err
	}

	return humanize.IBytes(uint64(size)), nil //nolint:gosec // Sizes are never negative
}

// Mtime returns the last modification time.
func (p *Path) Mtime() (time.Time, error) {
	info, err := p.Stat()
	if err != nil {
		return time.Time{}, err
	}

	return info.ModTime(), nil
}

// Atime returns the last access time, or the modification time where the
// platform does not expose it.
func (p *Path) Atime() (time.Time, error) {
	info, err := p.Stat()
	if err != nil {
		return time.Time{}, err
	}

	return accessTime(info), nil
}

// Ctime returns the inode change time on Unix and the creation time on Windows.
func (p *Path) Ctime() (time.Time, error) {
	info, err := p.Stat()
	if err != nil {
		return time.Time{}, err
	}

	return changeTime(info), nil
}

// AssertExists returns an error wrapping ErrNotFound if nothing exists at the path.
func (p *Path) AssertExists() error {
	if !p.Exists() {
		return &PathError{Op: "stat", Path: p.abs, Err: ErrNotFound}
	}

	return nil
}

// AssertIsDir returns an error unless the path is an existing directory.
func (p *Path) AssertIsDir() error {
	if err := p.AssertExists(); err != nil {
		return err
	}

	if !p.info.IsDir() {
		return &PathError{Op: "stat", Path: p.abs, Err: ErrNotADirectory}
	}

	return nil
}

// AssertIsFile returns an error unless the path is an existing regular file.
func (p *Path) AssertIsFile() error {
	if err := p.AssertExists(); err != nil {
		return err
	}

	if !p.info.Mode().IsRegular() {
		return &PathError{Op: "stat", Path: p.abs, Err: ErrNotAFile}
	}

	return nil
}

// Rel returns the path relative to base.
func (p *Path) Rel(base *Path) (string, error) {
	rel, err := filepath.Rel(base.abs, p.abs)
	if err != nil {
		return "", fmt.Errorf("relating %q to %q: %w", p.abs, base.abs, err)
	}

	return rel, nil
}
