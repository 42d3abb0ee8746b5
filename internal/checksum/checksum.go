// Package checksum computes content digests of files and byte streams.
package checksum

import (
	"crypto/md5"  //nolint:gosec // MD5 used for fingerprints, not security
	"crypto/sha1" //nolint:gosec // SHA1 used for fingerprints, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Algorithm names a supported digest.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	CRC32  Algorithm = "crc32"
	XXHash Algorithm = "xxhash"
)

// ErrUnsupported is returned for unknown algorithm names.
var ErrUnsupported = errors.New("unsupported checksum algorithm")

// Algorithms lists the supported algorithms.
func Algorithms() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA256, SHA512, CRC32, XXHash}
}

// Parse maps a case-insensitive name to an Algorithm.
func Parse(name string) (Algorithm, error) {
	algo := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Algorithms(), algo) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
	}

	return algo, nil
}

// New creates a hash.Hash for the given algorithm.
func New(algo Algorithm) (hash.Hash, error) {
	switch algo {
	case MD5:
		return md5.New(), nil //nolint:gosec // See import
	case SHA1:
		return sha1.New(), nil //nolint:gosec // See import
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case CRC32:
		return crc32.NewIEEE(), nil
	case XXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, algo)
	}
}

// Reader digests everything read from r and returns it hex-encoded.
func Reader(r io.Reader, algo Algorithm) (string, error) {
	h, err := New(algo)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating %s checksum: %w", algo, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Text digests a string.
func Text(s string, algo Algorithm) (string, error) {
	return Reader(strings.NewReader(s), algo)
}

// File digests the first nbytes of the file at path, or all of it when nbytes is 0.
func File(path string, algo Algorithm, nbytes int64) (string, error) {
	if nbytes < 0 {
		return "", fmt.Errorf("byte count cannot be negative: %d", nbytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if nbytes > 0 {
		r = io.LimitReader(f, nbytes)
	}

	sum, err := Reader(r, algo)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}

	return sum, nil
}
