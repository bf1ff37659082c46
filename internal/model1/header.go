package model1

// SortDirection represents a column sort direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Attrs represents column attributes.
type Attrs struct {
	Align     int  // tview alignment
	Sortable  bool // Column can be sorted server side
	Capacity  bool // Numeric, right aligned
	Time      bool // Date or duration, never highlighted as a delta
	Hide      bool
	Decorator DecoratorFunc
}

// HeaderColumn represents a grid header column.
type HeaderColumn struct {
	ID   string
	Name string
	Attrs
}

// Header represents a grid header.
type Header []HeaderColumn

func (h Header) Clone() Header {
	he := make(Header, len(h))
	copy(he, h)
	return he
}

// Diff returns true if the headers differ.
func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	for i := range h {
		if h[i].ID != header[i].ID || h[i].Name != header[i].Name {
			return true
		}
		if h[i].Align != header[i].Align || h[i].Sortable != header[i].Sortable {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the column with the given id.
func (h Header) IndexOf(id string) (int, bool) {
	for i, c := range h {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (h Header) IsTimeCol(col int) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	return h[col].Time
}

// ColumnNames returns the visible column names.
func (h Header) ColumnNames() []string {
	if len(h) == 0 {
		return nil
	}
	cc := make([]string, 0, len(h))
	for _, c := range h {
		if c.Hide {
			continue
		}
		cc = append(cc, c.Name)
	}
	return cc
}
