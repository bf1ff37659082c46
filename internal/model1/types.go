package model1

import "github.com/gdamore/tcell/v2"

// NAValue is displayed when a cell has no value.
const NAValue = "n/a"

// ResEvent represents a row event type.
type ResEvent int

const (
	EventUnchanged ResEvent = 1 << iota
	EventAdd
	EventUpdate
	EventDelete
)

// DecoratorFunc decorates a cell value.
type DecoratorFunc func(string) string

// ColorerFunc picks the colour of a row.
type ColorerFunc func(h Header, re *RowEvent) tcell.Color

// Fields represents the cells of a row.
type Fields []string

// Clone returns a copy of the fields.
func (f Fields) Clone() Fields {
	cp := make(Fields, len(f))
	copy(cp, f)
	return cp
}

// Diff returns true if the fields differ.
func (f Fields) Diff(o Fields) bool {
	if len(f) != len(o) {
		return true
	}
	for i := range f {
		if f[i] != o[i] {
			return true
		}
	}
	return false
}
