package archive_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/pathmate/internal/archive"
	"github.com/idelchi/pathmate/internal/pathmate"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

// readZip returns the archive's entries mapped to their content.
func readZip(t *testing.T, path string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)

	defer func() { _ = r.Close() }()

	out := make(map[string]string, len(r.File))

	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		out[f.Name] = string(data)
	}

	return out
}

func TestMakeZipDirectory(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "project")
	writeTree(t, src, map[string]string{
		"main.go":        "package main",
		"docs/readme.md": "# readme",
		"docs/api/x.txt": "x",
	})

	dst := filepath.Join(t.TempDir(), "out.zip")

	var progress bytes.Buffer

	res, err := archive.MakeZip(pathmate.New(src), archive.Options{Dst: dst, Compress: true, Progress: &progress})
	require.NoError(t, err)

	assert.Equal(t, dst, res.Dst)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, int64(len("package main")+len("# readme")+1), res.TotalSize)

	assert.Equal(t, map[string]string{
		"main.go":        "package main",
		"docs/readme.md": "# readme",
		"docs/api/x.txt": "x",
	}, readZip(t, dst))

	assert.Contains(t, progress.String(), "Got 3 files")
	assert.Contains(t, progress.String(), "Complete!")
}

func TestMakeZipFilter(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.go": "a", "b.txt": "b"})

	dst := filepath.Join(t.TempDir(), "go.zip")

	_, err := archive.MakeZip(pathmate.New(src), archive.Options{Dst: dst, Filter: pathmate.ByExt(".go")})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a.go": "a"}, readZip(t, dst))
}

func TestMakeZipSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"nested/file.txt": "content"})

	dst := filepath.Join(dir, "single.zip")

	res, err := archive.MakeZip(pathmate.New(dir, "nested", "file.txt"), archive.Options{Dst: dst})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, map[string]string{"file.txt": "content"}, readZip(t, dst))
}

func TestMakeZipDestinationRules(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a": "a"})

	_, err := archive.MakeZip(pathmate.New(src), archive.Options{Dst: filepath.Join(t.TempDir(), "out.tar")})
	require.ErrorIs(t, err, archive.ErrNotZip)

	existing := filepath.Join(t.TempDir(), "exists.zip")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))

	_, err = archive.MakeZip(pathmate.New(src), archive.Options{Dst: existing})
	require.ErrorIs(t, err, pathmate.ErrExists)

	_, err = archive.MakeZip(pathmate.New(src), archive.Options{Dst: existing, Overwrite: true})
	require.NoError(t, err)

	nested := filepath.Join(t.TempDir(), "x", "y", "out.ZIP")

	_, err = archive.MakeZip(pathmate.New(src), archive.Options{Dst: nested, MakeDirs: true})
	require.NoError(t, err)
	assert.FileExists(t, nested)

	_, err = archive.MakeZip(pathmate.New(src, "missing"), archive.Options{})
	require.ErrorIs(t, err, pathmate.ErrNotFound)
}

func TestMakeZipInsideSource(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a": "a"})

	dst := filepath.Join(src, "self.zip")

	_, err := archive.MakeZip(pathmate.New(src), archive.Options{Dst: dst})
	require.NoError(t, err)

	_, err = archive.MakeZip(pathmate.New(src), archive.Options{Dst: dst, Overwrite: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "a"}, readZip(t, dst))
}

func TestMakeZipRemovesPartialArchive(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a": "a", "b": "b"})

	locked := filepath.Join(src, "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	dst := filepath.Join(t.TempDir(), "out.zip")

	_, err := archive.MakeZip(pathmate.New(src), archive.Options{Dst: dst})
	require.Error(t, err)
	assert.NoFileExists(t, dst)

	require.NoError(t, os.Chmod(locked, 0o644))

	_, err = archive.MakeZip(pathmate.New(src), archive.Options{Dst: dst})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "a", "b": "b"}, readZip(t, dst))
}

func TestAutoName(t *testing.T) {
	t.Parallel()

	src := pathmate.New(t.TempDir(), "project")
	now := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)

	name := archive.AutoName(src, now)

	assert.Equal(t, src.Dirpath(), filepath.Dir(name))
	assert.Regexp(t, regexp.MustCompile(`^project-2024-03-05-07h-08m-09s-[A-Za-z0-9]{4}\.zip$`), filepath.Base(name))
}

func TestBackup(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"main.go":           "package main",
		"Build/out.bin":     "binary",
		"notes.LOG":         "log",
		"vendor/lib/a.go":   "a",
		"cache/tmp-file.go": "t",
		"big.dat":           strings.Repeat("x", 100),
		"tiny.dat":          "x",
	})

	dst := filepath.Join(t.TempDir(), "backup.zip")

	res, err := archive.Backup(pathmate.New(src), archive.BackupOptions{
		Dst:               dst,
		Ignore:            []string{"build", "vendor/"},
		IgnoreExt:         []string{".log"},
		IgnorePattern:     []string{"tmp"},
		IgnoreSmallerThan: 2,
		IgnoreLargerThan:  50,
	})
	require.NoError(t, err)

	names := make([]string, 0, res.Files)
	for name := range readZip(t, dst) {
		names = append(names, name)
	}

	slices.Sort(names)
	assert.Equal(t, []string{"main.go"}, names)
}

func TestBackupCaseSensitive(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"Build/out.bin": "b", "notes.LOG": "l"})

	dst := filepath.Join(t.TempDir(), "backup.zip")

	_, err := archive.Backup(pathmate.New(src), archive.BackupOptions{
		Dst:           dst,
		Ignore:        []string{"build"},
		IgnoreExt:     []string{".log"},
		CaseSensitive: true,
	})
	require.NoError(t, err)

	assert.Len(t, readZip(t, dst), 2)
}

func TestBackupValidation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name string
		opt  archive.BackupOptions
	}{
		{name: "absolute ignore", opt: archive.BackupOptions{Ignore: []string{"/etc"}}},
		{name: "backslash ignore", opt: archive.BackupOptions{Ignore: []string{`\tmp`}}},
		{name: "extension without dot", opt: archive.BackupOptions{IgnoreExt: []string{"log"}}},
		{name: "negative size", opt: archive.BackupOptions{IgnoreLargerThan: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := archive.Backup(pathmate.New(root), tt.opt)
			require.ErrorIs(t, err, pathmate.ErrInvalidArgument)
		})
	}
}
