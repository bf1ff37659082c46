package model1

// Row represents a rendered entity.
type Row struct {
	ID     string
	Fields Fields
}

// NewRow returns a row with size empty cells.
func NewRow(size int) Row {
	return Row{Fields: make(Fields, size)}
}

// Diff returns true if the rows differ.
func (r Row) Diff(ro Row) bool {
	if r.ID != ro.ID {
		return true
	}
	return r.Fields.Diff(ro.Fields)
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: r.Fields.Clone(),
	}
}

func (r Row) Len() int {
	return len(r.Fields)
}

// Rows represents a collection of rows.
type Rows []Row
