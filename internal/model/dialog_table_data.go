package model

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model1"
)

// dialogSource adapts a pick list to the engine. Pick lists carry no actions.
type dialogSource[T dao.Object] struct {
	DialogSource[T]
}

func (d dialogSource[T]) Filters() []filter.Filter {
	if f, ok := d.DialogSource.(interface{ Filters() []filter.Filter }); ok {
		return f.Filters()
	}
	return nil
}

func (d dialogSource[T]) StaticFilters() filter.Values {
	if f, ok := d.DialogSource.(StaticFilterer); ok {
		return f.StaticFilters()
	}
	return nil
}

func (dialogSource[T]) Actions() []action.Def      { return nil }
func (dialogSource[T]) ActionsRight() []action.Def { return nil }
func (dialogSource[T]) RowActions(T) []action.Def  { return nil }

func (dialogSource[T]) ActionTriggered(context.Context, action.Def, Refresher) error {
	return nil
}

func (dialogSource[T]) RowActionTriggered(context.Context, action.Def, T, Refresher) error {
	return nil
}

// DialogTableDataSource backs a modal pick list. It loads on demand, never
// listens to change notifications and tracks which rows are selected.
type DialogTableDataSource[T dao.Object] struct {
	engine   *TableDataSource[T]
	multiple bool
	selected map[string]T
	order    []string
	mx       sync.RWMutex
}

// NewDialogTableDataSource returns a pick list data source. multiple is fixed
// for the lifetime of the data source.
func NewDialogTableDataSource[T dao.Object](src DialogSource[T], log *zap.Logger, opts Options, multiple bool) *DialogTableDataSource[T] {
	d := DialogTableDataSource[T]{
		engine:   NewTableDataSource[T](dialogSource[T]{DialogSource: src}, log, opts),
		multiple: multiple,
		selected: make(map[string]T),
	}
	d.engine.passive = true
	d.engine.onResult = d.prune

	return &d
}

// Init performs the first load.
func (d *DialogTableDataSource[T]) Init(ctx context.Context) error {
	return d.engine.Init(ctx)
}

// Refresh reloads the current page.
func (d *DialogTableDataSource[T]) Refresh(ctx context.Context) error {
	return d.engine.Refresh(ctx)
}

func (d *DialogTableDataSource[T]) Stop()                        { d.engine.Stop() }
func (d *DialogTableDataSource[T]) State() State                 { return d.engine.State() }
func (d *DialogTableDataSource[T]) TableDef() TableDef           { return d.engine.TableDef() }
func (d *DialogTableDataSource[T]) Columns() []ColumnDef[T]      { return d.engine.Columns() }
func (d *DialogTableDataSource[T]) Peek() *model1.TableData      { return d.engine.Peek() }
func (d *DialogTableDataSource[T]) Result() dao.DataResult[T]    { return d.engine.Result() }
func (d *DialogTableDataSource[T]) Paging() dao.Paging           { return d.engine.Paging() }
func (d *DialogTableDataSource[T]) SetPaging(p dao.Paging)       { d.engine.SetPaging(p) }
func (d *DialogTableDataSource[T]) Sorting() []dao.Sorting       { return d.engine.Sorting() }
func (d *DialogTableDataSource[T]) SetSorting(field string) bool { return d.engine.SetSorting(field) }
func (d *DialogTableDataSource[T]) SetSearch(s string)           { d.engine.SetSearch(s) }
func (d *DialogTableDataSource[T]) SetStaticFilters(ff ...filter.Values) {
	d.engine.SetStaticFilters(ff...)
}
func (d *DialogTableDataSource[T]) BuildFilterValues() filter.Values {
	return d.engine.BuildFilterValues()
}
func (d *DialogTableDataSource[T]) AddListener(l TableListener)    { d.engine.AddListener(l) }
func (d *DialogTableDataSource[T]) RemoveListener(l TableListener) { d.engine.RemoveListener(l) }

// Multiple returns true if several rows may be selected.
func (d *DialogTableDataSource[T]) Multiple() bool {
	return d.multiple
}

// Toggle flips the selection of a published row and returns its new state.
// In single select mode selecting a row clears the previous selection.
func (d *DialogTableDataSource[T]) Toggle(id string) bool {
	row, ok := d.engine.Row(id)
	if !ok {
		return false
	}

	d.mx.Lock()
	defer d.mx.Unlock()

	if _, on := d.selected[id]; on {
		d.unselect(id)
		return false
	}
	if !d.multiple {
		d.selected = make(map[string]T, 1)
		d.order = d.order[:0]
	}
	d.selected[id] = row
	d.order = append(d.order, id)

	return true
}

func (d *DialogTableDataSource[T]) unselect(id string) {
	delete(d.selected, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

// IsSelected returns true if the row is selected.
func (d *DialogTableDataSource[T]) IsSelected(id string) bool {
	d.mx.RLock()
	defer d.mx.RUnlock()

	_, ok := d.selected[id]
	return ok
}

// Selected returns the selected rows in selection order.
func (d *DialogTableDataSource[T]) Selected() []T {
	d.mx.RLock()
	defer d.mx.RUnlock()

	out := make([]T, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.selected[id])
	}

	return out
}

// ClearSelection unselects every row.
func (d *DialogTableDataSource[T]) ClearSelection() {
	d.mx.Lock()
	defer d.mx.Unlock()

	d.selected = make(map[string]T)
	d.order = d.order[:0]
}

// prune keeps the rows still present in a new result, refreshed.
func (d *DialogTableDataSource[T]) prune(rows []T) {
	d.mx.Lock()
	defer d.mx.Unlock()

	present := make(map[string]T, len(rows))
	for _, r := range rows {
		present[r.GetID()] = r
	}
	order := d.order[:0]
	for _, id := range d.order {
		r, ok := present[id]
		if !ok {
			delete(d.selected, id)
			continue
		}
		d.selected[id] = r
		order = append(order, id)
	}
	d.order = order
}
