package pathmate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// SortKey selects the attribute paths are ordered by.
type SortKey int

const (
	SortByPath SortKey = iota
	SortByName
	SortByExt
	SortBySize
	SortByMtime
	SortByAtime
	SortByCtime
	SortByMD5
)

//nolint:gochecknoglobals // Lookup table
var sortKeyNames = [...]string{
	SortByPath:  "path",
	SortByName:  "name",
	SortByExt:   "ext",
	SortBySize:  "size",
	SortByMtime: "mtime",
	SortByAtime: "atime",
	SortByCtime: "ctime",
	SortByMD5:   "md5",
}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}

	return sortKeyNames[k]
}

// SortKeyNames lists the names accepted by ParseSortKey.
func SortKeyNames() []string {
	return slices.Clone(sortKeyNames[:])
}

// ParseSortKey maps a name such as "size" to its SortKey.
func ParseSortKey(name string) (SortKey, error) {
	i := slices.Index(sortKeyNames[:], strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, fmt.Errorf("%w: unknown sort key %q: must be one of %v", ErrInvalidArgument, name, sortKeyNames)
	}

	return SortKey(i), nil
}

type comparator func(a, b *Path) int

// comparators builds a fresh comparator per Sort call so per-call caches
// (content hashes) do not outlive it.
//
//nolint:gochecknoglobals // Lookup table
var comparators = [...]func() comparator{
	SortByPath:  func() comparator { return byString((*Path).Abspath) },
	SortByName:  func() comparator { return byString((*Path).Fname) },
	SortByExt:   func() comparator { return byString((*Path).Ext) },
	SortBySize:  func() comparator { return bySizeKey },
	SortByMtime: func() comparator { return byTimeKey("modify time", (*Path).Mtime) },
	SortByAtime: func() comparator { return byTimeKey("access time", (*Path).Atime) },
	SortByCtime: func() comparator { return byTimeKey("change time", (*Path).Ctime) },
	SortByMD5:   func() comparator { return byString(memoizedMD5()) },
}

// Sort returns a stably sorted copy of paths. With reverse set the order is
// descending while equal keys keep their input order.
//
// SortByMD5 reads every file completely, so its cost grows with total bytes.
// Entries whose key cannot be read sort as zero values and are reported.
func Sort(paths []*Path, key SortKey, reverse bool) []*Path {
	if key < 0 || int(key) >= len(comparators) {
		panic(fmt.Sprintf("pathmate: unknown sort key %d", int(key)))
	}

	compare := comparators[key]()
	sorted := slices.Clone(paths)

	slices.SortStableFunc(sorted, func(a, b *Path) int {
		if reverse {
			return compare(b, a)
		}

		return compare(a, b)
	})

	return sorted
}

func byString(field func(*Path) string) comparator {
	return func(a, b *Path) int {
		return strings.Compare(field(a), field(b))
	}
}

func bySizeKey(a, b *Path) int {
	return cmp.Compare(sizeOrZero(a), sizeOrZero(b))
}

func sizeOrZero(p *Path) int64 {
	size, err := p.Size()
	if err != nil {
		diagnostics.printf("cannot read size of %s: %v", p, err)
	}

	return size
}

func byTimeKey(what string, get func(*Path) (time.Time, error)) comparator {
	at := func(p *Path) time.Time {
		t, err := get(p)
		if err != nil {
			diagnostics.printf("cannot read %s of %s: %v", what, p, err)
		}

		return t
	}

	return func(a, b *Path) int {
		return at(a).Compare(at(b))
	}
}

func memoizedMD5() func(*Path) string {
	sums := make(map[string]string)

	return func(p *Path) string {
		if sum, ok := sums[p.abs]; ok {
			return sum
		}

		sum, err := p.MD5()
		if err != nil {
			diagnostics.printf("cannot hash %s: %v", p, err)
		}

		sums[p.abs] = sum

		return sum
	}
}
