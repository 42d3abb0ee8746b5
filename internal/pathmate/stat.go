package pathmate

import (
	"bytes"
	"encoding/json"
	"iter"
	"path/filepath"
	"slices"
)

// StatRecord counts files and directories and sums file sizes.
type StatRecord struct {
	// Files is the number of regular files.
	Files int64 `json:"file"`
	// Dirs is the number of directories.
	Dirs int64 `json:"dir"`
	// Size is the cumulative file size in bytes.
	Size int64 `json:"size"`
}

// StatTable maps directory paths to their records, in discovery order.
type StatTable struct {
	keys    []string
	records map[string]*StatRecord
}

func newStatTable() *StatTable {
	return &StatTable{records: make(map[string]*StatRecord)}
}

// record returns the record for dir, creating it on first use.
func (t *StatTable) record(dir string) *StatRecord {
	rec, ok := t.records[dir]
	if !ok {
		rec = &StatRecord{}
		t.records[dir] = rec
		t.keys = append(t.keys, dir)
	}

	return rec
}

// Len returns the number of directories in the table.
func (t *StatTable) Len() int { return len(t.keys) }

// Keys returns the directory paths in discovery order.
func (t *StatTable) Keys() []string { return slices.Clone(t.keys) }

// Get returns the record for an absolute directory path.
func (t *StatTable) Get(dir string) (StatRecord, bool) {
	rec, ok := t.records[dir]
	if !ok {
		return StatRecord{}, false
	}

	return *rec, true
}

// All iterates over the table in discovery order.
func (t *StatTable) All() iter.Seq2[string, StatRecord] {
	return func(yield func(string, StatRecord) bool) {
		for _, key := range t.keys {
			if !yield(key, *t.records[key]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the table as an object whose keys keep discovery order.
func (t *StatTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(t.records[key])
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// FileStat counts the files and directories at any depth below p accepted by
// pred and sums the file sizes. Files whose size cannot be read are reported
// and left out.
func (p *Path) FileStat(pred Predicate) (StatRecord, error) {
	seq, err := p.Select(pred, true)
	if err != nil {
		return StatRecord{}, err
	}

	var stat StatRecord

	for entry := range seq {
		switch {
		case entry.IsFile():
			size, err := entry.Size()
			if err != nil {
				diagnostics.printf("cannot read size of %s: %v", entry, err)

				continue
			}

			stat.Files++
			stat.Size += size
		case entry.IsDir():
			stat.Dirs++
		}
	}

	return stat, nil
}

// FileStatForAll computes a record for p and for every directory below it.
//
// A file counts towards, and adds its size to, every ancestor directory up to
// and including p. A directory counts only towards its immediate parent.
func (p *Path) FileStatForAll(pred Predicate) (*StatTable, error) {
	seq, err := p.Select(pred, true)
	if err != nil {
		return nil, err
	}

	table := newStatTable()
	table.record(p.abs)

	for entry := range seq {
		switch {
		case entry.IsFile():
			size, err := entry.Size()
			if err != nil {
				diagnostics.printf("cannot read size of %s: %v", entry, err)

				continue
			}

			for dir := entry.Dirpath(); ; dir = filepath.Dir(dir) {
				rec := table.record(dir)
				rec.Files++
				rec.Size += size

				if dir == p.abs || dir == filepath.Dir(dir) {
					break
				}
			}
		case entry.IsDir():
			table.record(entry.abs)
			table.record(entry.Dirpath()).Dirs++
		}
	}

	return table, nil
}
