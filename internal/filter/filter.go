// Package filter defines the user editable constraints of a grid. Each filter
// knows its query parameter and how to restore its default value.
package filter

import (
	"strings"
	"time"
)

// Error represents a filter error.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrInvalidValue is returned when a filter is given a value of the wrong kind.
const ErrInvalidValue Error = "invalid filter value"

const (
	// SearchKey is the query parameter holding the free text search.
	SearchKey = "Search"

	// MultiSeparator joins multiple selected keys in one query parameter.
	MultiSeparator = "|"
)

// Type discriminates filter variants.
type Type int

const (
	TypeDate Type = iota + 1
	TypeDateRange
	TypeDialogTable
	TypeDropdown
)

func (t Type) String() string {
	switch t {
	case TypeDate:
		return "date"
	case TypeDateRange:
		return "date-range"
	case TypeDialogTable:
		return "dialog-table"
	case TypeDropdown:
		return "dropdown"
	default:
		return "unknown"
	}
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Values maps query parameter keys to encoded values.
type Values map[string]string

// Clone returns a copy of the values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Filter represents a dynamic, user editable filter.
type Filter interface {
	// ID returns the filter identifier.
	ID() string

	// HTTPID returns the query parameter key.
	HTTPID() string

	// Name returns the display label.
	Name() string

	// Type returns the filter variant.
	Type() Type

	// IsAll returns true when the filter does not constrain the query.
	IsAll() bool

	// Reset restores a freshly computed default value.
	Reset()

	// Set assigns a new current value.
	Set(v any) error

	// Encode writes the current value into the query parameters.
	Encode(Values)

	// Display returns the current value for humans.
	Display() string
}

// Item is one selectable filter entry.
type Item struct {
	Key   string
	Value string
}

// Keys returns the keys of the items.
func Keys(items []Item) []string {
	kk := make([]string, 0, len(items))
	for _, it := range items {
		kk = append(kk, it.Key)
	}
	return kk
}

// JoinKeys encodes multiple keys the way the backend expects.
func JoinKeys(keys []string) string {
	return strings.Join(keys, MultiSeparator)
}

// StartOfDay returns midnight of the day t falls in.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns the first instant of the year t falls in.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// Find returns the filter with the given id.
func Find(ff []Filter, id string) (Filter, bool) {
	for _, f := range ff {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}
