package model1

// RowEvent tracks what happened to a row between two loads.
type RowEvent struct {
	Kind   ResEvent
	Row    Row
	Deltas DeltaRow
}

func NewRowEvent(kind ResEvent, row Row) RowEvent {
	return RowEvent{
		Kind: kind,
		Row:  row,
	}
}

func NewRowEventWithDeltas(row Row, delta DeltaRow) RowEvent {
	return RowEvent{
		Kind:   EventUpdate,
		Row:    row,
		Deltas: delta,
	}
}

func (r RowEvent) Clone() RowEvent {
	return RowEvent{
		Kind:   r.Kind,
		Row:    r.Row.Clone(),
		Deltas: r.Deltas.Clone(),
	}
}

// RowEvents an ordered collection of row events indexed by row id.
type RowEvents struct {
	events []RowEvent
	index  map[string]int
}

func NewRowEvents(size int) *RowEvents {
	return &RowEvents{
		events: make([]RowEvent, 0, size),
		index:  make(map[string]int, size),
	}
}

func (r *RowEvents) At(i int) (RowEvent, bool) {
	if i < 0 || i >= len(r.events) {
		return RowEvent{}, false
	}
	return r.events[i], true
}

func (r *RowEvents) Add(re RowEvent) {
	r.events = append(r.events, re)
	r.index[re.Row.ID] = len(r.events) - 1
}

func (r *RowEvents) Len() int {
	return len(r.events)
}

func (r *RowEvents) Empty() bool {
	return len(r.events) == 0
}

func (r *RowEvents) Get(id string) (RowEvent, bool) {
	i, ok := r.index[id]
	if !ok {
		return RowEvent{}, false
	}
	return r.At(i)
}

func (r *RowEvents) Clone() *RowEvents {
	out := NewRowEvents(len(r.events))
	for _, e := range r.events {
		out.Add(e.Clone())
	}
	return out
}

func (r *RowEvents) Range(f func(int, RowEvent) bool) {
	for i, e := range r.events {
		if !f(i, e) {
			return
		}
	}
}

// Reconcile builds the events for rows given the events of the previous load.
// Rows missing from prev are additions, rows whose cells changed are updates.
func Reconcile(prev *RowEvents, h Header, rows Rows) *RowEvents {
	out := NewRowEvents(len(rows))
	for _, row := range rows {
		if prev == nil {
			out.Add(NewRowEvent(EventUnchanged, row))
			continue
		}
		old, ok := prev.Get(row.ID)
		switch {
		case !ok:
			out.Add(NewRowEvent(EventAdd, row))
		case old.Row.Diff(row):
			out.Add(NewRowEventWithDeltas(row, NewDeltaRow(old.Row, row, h)))
		default:
			out.Add(NewRowEvent(EventUnchanged, row))
		}
	}
	return out
}
