// Package pathmate wraps filesystem paths with convenience operations.
//
// A *Path holds an absolute, cleaned location plus a lazily filled stat cache.
// On top of it the package provides lazy recursive selection driven by
// predicates, predicate builders for the common criteria (extension, name or
// path substring, size and timestamp ranges, glob and .gitignore rules),
// stable sorting by derived keys, and directory statistics.
//
// Selection, sorting and statistics are synchronous and single-threaded.
// Errors about the root of an operation are returned before any traversal
// starts; problems with individual entries met during a walk are reported to
// the diagnostic logger (see SetDiagnostics) and the entry is skipped.
package pathmate
