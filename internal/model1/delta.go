package model1

// DeltaRow holds the previous value of every cell that changed.
type DeltaRow []string

// NewDeltaRow compares an old and a new row, ignoring time columns.
func NewDeltaRow(o, n Row, h Header) DeltaRow {
	deltas := make(DeltaRow, len(n.Fields))
	for i, old := range o.Fields {
		if i >= len(n.Fields) {
			break
		}
		if old != "" && old != n.Fields[i] && !h.IsTimeCol(i) {
			deltas[i] = old
		}
	}
	return deltas
}

func (d DeltaRow) IsBlank() bool {
	for _, v := range d {
		if v != "" {
			return false
		}
	}
	return true
}

func (d DeltaRow) Clone() DeltaRow {
	res := make(DeltaRow, len(d))
	copy(res, d)
	return res
}
