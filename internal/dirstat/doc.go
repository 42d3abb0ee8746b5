// Package dirstat reports where the bytes of a directory tree are.
//
// It walks the tree in parallel with fastwalk, totals file sizes per
// extension and picks the largest files, or the largest directories at a
// chosen depth. Files are narrowed with pathmate predicates, regex excludes
// and extension filters before they are counted.
package dirstat
