package pathmate

import (
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/idelchi/pathmate/internal/checksum"
)

// Checksum digests the first nbytes of the file, or all of it when nbytes is 0.
func (p *Path) Checksum(algo checksum.Algorithm, nbytes int64) (string, error) {
	return checksum.File(p.abs, algo, nbytes)
}

// MD5 digests the whole file.
func (p *Path) MD5() (string, error) { return p.Checksum(checksum.MD5, 0) }

// SHA256 digests the whole file.
func (p *Path) SHA256() (string, error) { return p.Checksum(checksum.SHA256, 0) }

// SHA512 digests the whole file.
func (p *Path) SHA512() (string, error) { return p.Checksum(checksum.SHA512, 0) }

// PartialMD5 digests only the first nbytes of the file.
func (p *Path) PartialMD5(nbytes int64) (string, error) {
	return p.Checksum(checksum.MD5, nbytes)
}

// DirFingerprint digests a directory: every file below it, ordered by path,
// contributes its path and its MD5.
func (p *Path) DirFingerprint(algo checksum.Algorithm) (string, error) {
	h, err := checksum.New(algo)
	if err != nil {
		return "", err
	}

	seq, err := p.SelectFile(nil, true)
	if err != nil {
		return "", err
	}

	for _, file := range Sort(slices.Collect(seq), SortByPath, false) {
		sum, err := file.MD5()
		if err != nil {
			return "", fmt.Errorf("fingerprinting %q: %w", p.abs, err)
		}

		h.Write([]byte(file.abs))
		h.Write([]byte(sum))
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// DirMD5 is DirFingerprint with MD5.
func (p *Path) DirMD5() (string, error) { return p.DirFingerprint(checksum.MD5) }

// DirSHA256 is DirFingerprint with SHA-256.
func (p *Path) DirSHA256() (string, error) { return p.DirFingerprint(checksum.SHA256) }

// DirSHA512 is DirFingerprint with SHA-512.
func (p *Path) DirSHA512() (string, error) { return p.DirFingerprint(checksum.SHA512) }
