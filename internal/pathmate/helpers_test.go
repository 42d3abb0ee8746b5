package pathmate_test

import (
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idelchi/pathmate/internal/pathmate"
)

// makeTree creates files (with the given sizes) and directories below root.
// Keys ending in "/" are directories.
func makeTree(t *testing.T, root string, entries map[string]int) {
	t.Helper()

	for name, size := range entries {
		full := filepath.Join(root, filepath.FromSlash(name))

		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))

			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(strings.Repeat("x", size)), 0o644))
	}
}

// rels collects seq as slash-separated paths relative to root.
func rels(t *testing.T, root *pathmate.Path, seq iter.Seq[*pathmate.Path]) []string {
	t.Helper()

	var out []string

	for p := range seq {
		rel, err := p.Rel(root)
		require.NoError(t, err)

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}

func sortedRels(t *testing.T, root *pathmate.Path, seq iter.Seq[*pathmate.Path]) []string {
	t.Helper()

	out := rels(t, root, seq)
	slices.Sort(out)

	return out
}
