// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/action"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/ui"
)

var mutating = map[action.ID]struct{}{
	action.Create:              {},
	action.Edit:                {},
	action.Delete:              {},
	action.StopTransaction:     {},
	action.SmartCharging:       {},
	action.Revoke:              {},
	action.RetrieveConsumption: {},
}

// Browser shows one entity grid and routes the keys to its data source.
type Browser[T dao.Object] struct {
	*ui.Table

	app      *App
	name     string
	src      model.Source[T]
	ds       *model.TableDataSource[T]
	rowKeys  []tcell.Key
	ctx      context.Context
	cancelFn context.CancelFunc
	mx       sync.RWMutex
}

// NewBrowser returns a grid named after its command.
func NewBrowser[T dao.Object](app *App, name string, src model.Source[T], opts model.Options) *Browser[T] {
	return &Browser[T]{
		Table: ui.NewTable(src.TableDef().Title),
		app:   app,
		name:  name,
		src:   src,
		ds:    model.NewTableDataSource(src, app.log.With(zap.String("grid", name)), opts),
	}
}

// Init initializes the browser component.
func (b *Browser[T]) Init(ctx context.Context) error {
	if err := b.Table.Init(ctx); err != nil {
		return err
	}
	if c := b.src.TableDef().Colorer; c != nil {
		b.SetColorer(c)
	}
	b.SetSelectionChangedFunc(func(int, int) {
		b.bindRowKeys()
		b.app.RefreshHints()
	})
	b.bindKeys()
	b.ds.AddListener(b)

	return nil
}

// Name returns the component name for breadcrumbs.
func (b *Browser[T]) Name() string {
	return b.name
}

// DataSource returns the data source backing the grid.
func (b *Browser[T]) DataSource() *model.TableDataSource[T] {
	return b.ds
}

// Start performs the first load in the background.
func (b *Browser[T]) Start() {
	b.mx.Lock()
	b.ctx, b.cancelFn = context.WithCancel(b.app.Context())
	ctx := b.ctx
	b.mx.Unlock()

	go func() {
		if err := b.ds.Init(ctx); err != nil {
			b.logFailure("Initial load failed", err)
		}
	}()
}

// Stop cancels the pending actions and stops the data source.
func (b *Browser[T]) Stop() {
	b.mx.Lock()
	if b.cancelFn != nil {
		b.cancelFn()
		b.cancelFn = nil
	}
	b.mx.Unlock()

	b.ds.RemoveListener(b)
	b.ds.Stop()
}

func (b *Browser[T]) context() context.Context {
	b.mx.RLock()
	defer b.mx.RUnlock()

	if b.ctx == nil {
		return b.app.Context()
	}
	return b.ctx
}

// Hints returns menu hints for this browser.
func (b *Browser[T]) Hints() ui.MenuHints {
	return b.Actions().Hints()
}

// Search sets the search text and reloads the first page.
func (b *Browser[T]) Search(text string) {
	if !b.src.TableDef().Search {
		b.app.flash.Warn("Search is not available on this grid")
		return
	}
	b.ds.SetSearch(strings.TrimSpace(text))
	b.refresh()
}

// TableLoading notifies a foreground load started.
func (b *Browser[T]) TableLoading() {
	b.app.QueueUpdateDraw(func() {
		b.SetSubtitle("[yellow::]loading...[-::]")
	})
}

// TableDataChanged notifies view new data is available.
func (b *Browser[T]) TableDataChanged(data *model1.TableData) {
	b.app.QueueUpdateDraw(func() {
		b.SetSubtitle(b.filterSummary())
		b.Update(data)
		b.bindTableKeys()
		b.bindRowKeys()
		b.app.RefreshHints()
	})
}

// TableLoadFailed notifies view something went wrong.
func (b *Browser[T]) TableLoadFailed(err error) {
	b.app.QueueUpdateDraw(func() {
		b.SetSubtitle(b.filterSummary())
		b.ShowError(err)
	})
	b.app.flash.Err(err)
}

func (b *Browser[T]) filterSummary() string {
	parts := make([]string, 0, 4)
	if s := b.ds.Search(); s != "" {
		parts = append(parts, fmt.Sprintf("/%s", s))
	}
	for _, f := range b.ds.Filters() {
		if !f.IsAll() {
			parts = append(parts, fmt.Sprintf("%s=%s", f.Name(), f.Display()))
		}
	}

	return strings.Join(parts, " ")
}

func (b *Browser[T]) allowed(d action.Def) bool {
	if d.Disabled || d.Key == 0 {
		return false
	}
	if _, ok := mutating[d.ID]; ok && b.app.IsReadOnly() {
		return false
	}
	return true
}

func actionLabel(d action.Def) string {
	if d.Kind != action.KindToggle {
		return d.Name
	}
	if d.Active {
		return d.Name + " [on]"
	}
	return d.Name + " [off]"
}

func (b *Browser[T]) bindKeys() {
	aa := b.Actions()
	aa.Bulk(ui.KeyMap{
		ui.KeyF:            ui.NewKeyAction("Filters", b.filtersCmd, len(b.src.Filters()) > 0),
		ui.KeyZ:            ui.NewKeyAction("Reset Filters", b.resetCmd, true),
		ui.KeyLeftBracket:  ui.NewKeyAction("Prev Page", b.pageCmd(-1), true),
		ui.KeyRightBracket: ui.NewKeyAction("Next Page", b.pageCmd(1), true),
		tcell.KeyCtrlS:     ui.NewKeyAction("Sort Next", b.sortCmd(false), true),
		ui.KeyShiftS:       ui.NewKeyAction("Sort Reverse", b.sortCmd(true), true),
		tcell.KeyEnter:     ui.NewKeyAction("Open", b.enterCmd, false),
	})
	b.bindTableKeys()
}

func (b *Browser[T]) bindTableKeys() {
	aa := b.Actions()
	for _, d := range action.Flatten(append(b.ds.Actions(), b.ds.ActionsRight()...)) {
		if !b.allowed(d) {
			continue
		}
		aa.Add(tcell.Key(d.Key), ui.NewKeyAction(actionLabel(d), b.tableActionCmd(d), true))
	}
}

// bindRowKeys binds the actions of the selected row.
func (b *Browser[T]) bindRowKeys() {
	aa := b.Actions()
	aa.Delete(b.rowKeys...)
	b.rowKeys = b.rowKeys[:0]

	row, ok := b.selected()
	if !ok {
		return
	}
	for _, d := range action.Flatten(b.ds.RowActions(row)) {
		if !b.allowed(d) {
			continue
		}
		k := tcell.Key(d.Key)
		if _, taken := aa.Get(k); taken {
			continue
		}
		aa.Add(k, ui.NewKeyAction(d.Name, b.rowActionCmd(d), true))
		b.rowKeys = append(b.rowKeys, k)
	}
}

func (b *Browser[T]) selected() (T, bool) {
	var zero T
	id, ok := b.SelectedRowID()
	if !ok {
		return zero, false
	}
	return b.ds.Row(id)
}

func (b *Browser[T]) tableActionCmd(d action.Def) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		go func() {
			b.logFailure("Action failed", b.ds.ActionTriggered(b.context(), d))
			if d.Kind == action.KindToggle {
				b.app.QueueUpdateDraw(func() {
					b.bindTableKeys()
					b.app.RefreshHints()
				})
			}
		}()
		return nil
	}
}

func (b *Browser[T]) rowActionCmd(d action.Def) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		row, ok := b.selected()
		if !ok {
			return nil
		}
		go func() {
			b.logFailure("Row action failed", b.ds.RowActionTriggered(b.context(), d, row))
		}()
		return nil
	}
}

// enterCmd runs the first action of the selected row.
func (b *Browser[T]) enterCmd(evt *tcell.EventKey) *tcell.EventKey {
	row, ok := b.selected()
	if !ok {
		return nil
	}
	for _, d := range action.Flatten(b.ds.RowActions(row)) {
		if b.allowed(d) {
			return b.rowActionCmd(d)(evt)
		}
	}

	return nil
}

func (b *Browser[T]) pageCmd(delta int) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		p := b.ds.Paging()
		last := p.LastIndex(b.ds.Result().Count)
		next := min(max(p.Index+delta, 0), last)
		if next == p.Index {
			return nil
		}
		p.Index = next
		b.ds.SetPaging(p)
		b.refresh()
		return nil
	}
}

func (b *Browser[T]) sortCmd(reverse bool) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		if field, ok := nextSortField(b.ds.Columns(), b.ds.Sorting(), reverse); ok && b.ds.SetSorting(field) {
			b.refresh()
		}
		return nil
	}
}

// nextSortField returns the column to sort on: the current one again to
// reverse it, else the next sortable column.
func nextSortField[T any](cc []model.ColumnDef[T], ss []dao.Sorting, reverse bool) (string, bool) {
	sortable := make([]string, 0, len(cc))
	for _, c := range cc {
		if c.Sortable {
			sortable = append(sortable, c.ID)
		}
	}
	if len(sortable) == 0 {
		return "", false
	}
	if len(ss) == 0 {
		return sortable[0], true
	}
	if reverse {
		return ss[0].Field, true
	}
	for i, id := range sortable {
		if id == ss[0].Field {
			return sortable[(i+1)%len(sortable)], true
		}
	}

	return sortable[0], true
}

func (b *Browser[T]) resetCmd(*tcell.EventKey) *tcell.EventKey {
	go func() {
		b.logFailure("Reset failed", b.ds.ActionTriggered(b.context(), action.NewResetFilters()))
	}()
	return nil
}

func (b *Browser[T]) filtersCmd(*tcell.EventKey) *tcell.EventKey {
	ff := b.ds.Filters()
	if len(ff) == 0 {
		return nil
	}
	b.app.inject(NewFilterMenu(b.app, b.name, ff, b.applyFilter))
	return nil
}

// applyFilter sets a filter value and reloads the first page.
func (b *Browser[T]) applyFilter(f filter.Filter, v any) error {
	if err := b.ds.SetFilterValue(f.ID(), v); err != nil {
		return err
	}
	b.refresh()

	return nil
}

func (b *Browser[T]) refresh() {
	go func() {
		b.logFailure("Refresh failed", b.ds.Refresh(b.context()))
	}()
}

func (b *Browser[T]) logFailure(msg string, err error) {
	if err == nil || errors.Is(err, model.ErrSuperseded) || errors.Is(err, context.Canceled) || errors.Is(err, model.ErrStopped) {
		return
	}
	b.app.log.Debug(msg, zap.String("grid", b.name), zap.Error(err))
}
