package pathmate_test

import (
	"bytes"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/pathmate/internal/pathmate"
)

func sampleTree(t *testing.T) *pathmate.Path {
	t.Helper()

	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"a.txt":          1,
		"b.md":           2,
		"docs/c.txt":     3,
		"docs/deep/d.go": 4,
		"empty/":         0,
	})

	return pathmate.New(root)
}

func TestSelectRecursiveOrder(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	seq, err := root.Select(nil, true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a.txt",
		"b.md",
		"docs",
		"docs/c.txt",
		"docs/deep",
		"docs/deep/d.go",
		"empty",
	}, rels(t, root, seq))
}

func TestSelectNonRecursiveIsDepthOneSubset(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	flat, err := root.Select(nil, false)
	require.NoError(t, err)

	deep, err := root.Select(nil, true)
	require.NoError(t, err)

	shallow := rels(t, root, flat)
	assert.Equal(t, []string{"a.txt", "b.md", "docs", "empty"}, shallow)

	all := rels(t, root, deep)
	for _, rel := range shallow {
		assert.Contains(t, all, rel)
	}
}

func TestSelectIsRepeatable(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	seq, err := root.Select(nil, true)
	require.NoError(t, err)

	assert.Equal(t, sortedRels(t, root, seq), sortedRels(t, root, seq))
}

func TestSelectRootErrors(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	_, err := root.Join("missing").Select(nil, true)
	require.ErrorIs(t, err, pathmate.ErrNotFound)

	_, err = root.Join("a.txt").Select(nil, true)
	require.ErrorIs(t, err, pathmate.ErrNotADirectory)

	_, err = root.Join("a.txt").SelectFile(nil, true)
	require.ErrorIs(t, err, pathmate.ErrNotADirectory)
}

func TestSelectStopsEarly(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	var visited []string

	seq, err := root.Select(func(p *pathmate.Path) bool {
		visited = append(visited, p.Basename())

		return true
	}, true)
	require.NoError(t, err)
	assert.Empty(t, visited, "nothing is walked before ranging")

	for range seq {
		break
	}

	assert.Equal(t, []string{"a.txt"}, visited)
}

func TestSelectFileAndDir(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	files, err := root.SelectFile(nil, true)
	require.NoError(t, err)

	for p := range files {
		assert.True(t, p.IsFile(), p.String())
	}

	assert.Equal(t, []string{"a.txt", "b.md", "docs/c.txt", "docs/deep/d.go"}, rels(t, root, files))

	dirs, err := root.SelectDir(nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "docs/deep", "empty"}, rels(t, root, dirs))

	txt, err := root.SelectFile(pathmate.ByExt(".txt"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "docs/c.txt"}, rels(t, root, txt))
}

func TestSelectDescendsBelowRejectedDirectories(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	seq, err := root.Select(pathmate.ByExt(".go"), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"docs/deep/d.go"}, rels(t, root, seq))
}

func TestSelectSkipsSymlinkedDirectories(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := sampleTree(t)
	require.NoError(t, os.Symlink(root.Join("docs").Abspath(), root.Join("link").Abspath()))

	seq, err := root.Select(nil, true)
	require.NoError(t, err)

	got := rels(t, root, seq)
	assert.Contains(t, got, "link")
	assert.NotContains(t, got, "link/c.txt")
}

func TestSelectByExtIgnoresCase(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, map[string]int{"a.TXT": 1, "b.txt": 1, "c.md": 1})

	p := pathmate.New(root)

	seq, err := p.SelectByExt(true, ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.TXT", "b.txt"}, rels(t, p, seq))

	seq, err = p.SelectByExt(true)
	require.NoError(t, err)
	assert.Empty(t, rels(t, p, seq))
}

func TestSelectBySize(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"s050": 50, "s100": 100, "s150": 150, "s200": 200, "s250": 250, "zero": 0,
	})

	p := pathmate.New(root)

	seq, err := p.SelectBySize(100, 200, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"s100", "s150", "s200"}, rels(t, p, seq))

	seq, err = p.SelectBySize(0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"zero"}, rels(t, p, seq))

	seq, err = p.SelectBySize(0, pathmate.MaxSize, true)
	require.NoError(t, err)
	assert.Len(t, rels(t, p, seq), 6)
}

func TestSelectByPatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"Report.txt":       1,
		"notes.report":     1,
		"Archive/data.csv": 1,
	})

	p := pathmate.New(root)

	seq, err := p.SelectByNamePattern("report", true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Report.txt"}, rels(t, p, seq))

	seq, err = p.SelectByNamePattern("report", true, true)
	require.NoError(t, err)
	assert.Empty(t, rels(t, p, seq))

	seq, err = p.SelectByPathPattern("archive", true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Archive/data.csv"}, rels(t, p, seq))

	seq, err = p.SelectByPathPattern("archive", true, true)
	require.NoError(t, err)
	assert.Empty(t, rels(t, p, seq))
}

func TestSelectByMtime(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, map[string]int{"old": 1, "new": 1})

	p := pathmate.New(root)

	old := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, os.Chtimes(filepath.Join(root, "old"), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(root, "new"), recent, recent))

	seq, err := p.SelectByMtime(time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC), pathmate.MaxTime, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, rels(t, p, seq))

	seq, err = p.SelectByMtime(old, old, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, rels(t, p, seq), "bounds are inclusive")

	seq, err = p.SelectByAtime(pathmate.MinTime, pathmate.MaxTime, true)
	require.NoError(t, err)
	assert.Len(t, rels(t, p, seq), 2)
}

func TestSelectByCtimeAndAtime(t *testing.T) {
	t.Parallel()

	hourAgo := time.Now().Add(-time.Hour)

	root := t.TempDir()
	makeTree(t, root, map[string]int{"a": 1, "b": 1})

	p := pathmate.New(root)

	seq, err := p.SelectByCtime(hourAgo, pathmate.MaxTime, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rels(t, p, seq))

	seq, err = p.SelectByCtime(pathmate.MinTime, hourAgo, true)
	require.NoError(t, err)
	assert.Empty(t, rels(t, p, seq))

	seq, err = p.SelectByAtime(hourAgo, pathmate.MaxTime, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rels(t, p, seq))

	seq, err = p.SelectByAtime(pathmate.MinTime, hourAgo, true)
	require.NoError(t, err)
	assert.Empty(t, rels(t, p, seq))
}

func TestTypedSelections(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, map[string]int{
		"a.JPG": 1, "b.mp3": 1, "c.mkv": 1, "d.docx": 1, "e.xlsx": 1, "f.7z": 1, "g.txt": 1,
	})

	tests := []struct {
		name string
		sel  func(*pathmate.Path, bool) (iter.Seq[*pathmate.Path], error)
		want []string
	}{
		{name: "image", sel: (*pathmate.Path).SelectImage, want: []string{"a.JPG"}},
		{name: "audio", sel: (*pathmate.Path).SelectAudio, want: []string{"b.mp3"}},
		{name: "video", sel: (*pathmate.Path).SelectVideo, want: []string{"c.mkv"}},
		{name: "word", sel: (*pathmate.Path).SelectWord, want: []string{"d.docx"}},
		{name: "excel", sel: (*pathmate.Path).SelectExcel, want: []string{"e.xlsx"}},
		{name: "archive", sel: (*pathmate.Path).SelectArchive, want: []string{"f.7z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := pathmate.New(root)

			seq, err := tt.sel(p, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rels(t, p, seq))
		})
	}
}

func TestByGlob(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	pred, err := pathmate.ByGlob("*.{txt,go}")
	require.NoError(t, err)

	seq, err := root.SelectFile(pred, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "docs/c.txt", "docs/deep/d.go"}, rels(t, root, seq))

	_, err = pathmate.ByGlob("[unclosed")
	require.ErrorIs(t, err, pathmate.ErrInvalidArgument)
}

func TestNotIgnored(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)
	require.NoError(t, os.WriteFile(root.Join(".gitignore").Abspath(), []byte("*.md\n"), 0o644))

	pred, err := pathmate.NotIgnored(root.Join(".gitignore").Abspath())
	require.NoError(t, err)

	seq, err := root.SelectFile(pred, true)
	require.NoError(t, err)

	got := rels(t, root, seq)
	assert.Contains(t, got, "a.txt")
	assert.Contains(t, got, "docs/deep/d.go")
	assert.NotContains(t, got, "b.md")
}

func TestNotIgnoredCoversIgnoredDirectories(t *testing.T) {
	t.Parallel()

	root := pathmate.New(t.TempDir())
	makeTree(t, root.Abspath(), map[string]int{
		"main.go":               1,
		"build/x.o":             1,
		"build/sub/y.o":         1,
		"src/node_modules/m.js": 1,
		"src/app.js":            1,
		"rebuild/keep.txt":      1,
	})
	require.NoError(t, os.WriteFile(root.Join(".gitignore").Abspath(), []byte("build/\nnode_modules/\n"), 0o644))

	pred, err := pathmate.NotIgnored(root.Join(".gitignore").Abspath())
	require.NoError(t, err)

	seq, err := root.Select(pred, true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		".gitignore",
		"main.go",
		"rebuild",
		"rebuild/keep.txt",
		"src",
		"src/app.js",
	}, sortedRels(t, root, seq))
}

func TestFilterAppliesPredicatesInSequence(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	seq, err := root.Select(nil, true)
	require.NoError(t, err)

	narrowed := pathmate.Filter(seq, (*pathmate.Path).IsFile, pathmate.ByExt(".txt"), pathmate.ByPathPattern("docs", true))
	assert.Equal(t, []string{"docs/c.txt"}, rels(t, root, narrowed))
}

func TestCounts(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)

	n, err := root.NFile()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = root.NDir()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = root.NSubfile()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = root.NSubdir()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	size, err := root.DirSize()
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	makeTree(t, root, map[string]int{"zero": 0, "one": 1, "nested/inner/": 0})

	p := pathmate.New(root)

	empty, err := p.Join("zero").IsEmpty(true)
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = p.Join("one").IsEmpty(true)
	require.NoError(t, err)
	assert.False(t, empty)

	empty, err = p.Join("nested").IsEmpty(false)
	require.NoError(t, err)
	assert.True(t, empty, "directory without files")

	empty, err = p.Join("nested").IsEmpty(true)
	require.NoError(t, err)
	assert.False(t, empty, "directory with a subdirectory")

	_, err = p.Join("missing").IsEmpty(true)
	require.ErrorIs(t, err, pathmate.ErrNotFound)
}

func TestEmptyDirectory(t *testing.T) {
	t.Parallel()

	p := pathmate.New(t.TempDir())

	seq, err := p.Select(nil, true)
	require.NoError(t, err)
	assert.Empty(t, rels(t, p, seq))

	stat, err := p.FileStat(nil)
	require.NoError(t, err)
	assert.Equal(t, pathmate.StatRecord{}, stat)
}

func TestDiagnosticsReportUnlistableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	root := sampleTree(t)
	locked := root.Join("docs", "deep").Abspath()
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var buf bytes.Buffer

	pathmate.SetDiagnostics(&buf)
	t.Cleanup(func() { pathmate.SetDiagnostics(nil) })

	seq, err := root.SelectFile(nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.md", "docs/c.txt"}, rels(t, root, seq))
	assert.Contains(t, buf.String(), "cannot list directory")
}
