package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTable is returned when a correction table has an empty key or a
// replacement that contains a key.
var ErrInvalidTable = errors.New("invalid correction table")

// Correction maps a known OCR misreading to the intended text.
type Correction struct {
	Wrong string `yaml:"wrong"`
	Right string `yaml:"right"`
}

// Table is an ordered, immutable list of corrections.
type Table struct {
	entries []Correction
}

// defaultCorrections are misreadings observed on scanned lab reports.
var defaultCorrections = []Correction{
	{Wrong: "Blectanic", Right: "Electronics"},
	{Wrong: "Catoulated", Right: "Calculated"},
	{Wrong: "Hejan", Right: "Hospital"},
	{Wrong: "Whale Blood", Right: "Whole Blood"},
}

// DefaultTable returns the built-in table of known OCR misreadings.
func DefaultTable() Table {
	return MustTable(defaultCorrections...)
}

// NewTable builds a table from entries, keeping their order.
//
// Every Wrong must be non-empty and no Right may contain any Wrong of the
// table, so no entry reintroduces a key on its own. That alone does not make
// Apply idempotent: a replacement can join the text around it to form a key,
// as with the entries ab=>x then c=>a applied to "cb". DefaultTable is
// idempotent.
func NewTable(entries ...Correction) (Table, error) {
	for i, e := range entries {
		if e.Wrong == "" {
			return Table{}, fmt.Errorf("%w: entry %d has an empty key", ErrInvalidTable, i)
		}
	}
	for _, e := range entries {
		for _, k := range entries {
			if strings.Contains(e.Right, k.Wrong) {
				return Table{}, fmt.Errorf("%w: replacement %q contains key %q", ErrInvalidTable, e.Right, k.Wrong)
			}
		}
	}
	return Table{entries: append([]Correction(nil), entries...)}, nil
}

// MustTable is like NewTable but panics on an invalid table. It is intended
// for package-level tables built from literals.
func MustTable(entries ...Correction) Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// With returns a new table with extra entries appended after the existing
// ones. The receiver is not modified.
func (t Table) With(entries ...Correction) (Table, error) {
	all := make([]Correction, 0, len(t.entries)+len(entries))
	all = append(all, t.entries...)
	all = append(all, entries...)
	return NewTable(all...)
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table entries in order.
func (t Table) Entries() []Correction {
	return append([]Correction(nil), t.entries...)
}

// Apply replaces every occurrence of each Wrong with its Right, entry by
// entry in table order.
func (t Table) Apply(text string) string {
	for _, e := range t.entries {
		text = strings.ReplaceAll(text, e.Wrong, e.Right)
	}
	return text
}
