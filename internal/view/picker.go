// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/model1"
	"github.com/evcon/evcon/internal/ui"
)

// Picker is the pick list of a selection filter.
type Picker[T dao.Object] struct {
	*ui.Table

	app      *App
	sel      *filter.Selection
	ds       *model.DialogTableDataSource[T]
	label    func(T) string
	done     func([]filter.Item)
	cancelFn context.CancelFunc
	mx       sync.Mutex
}

// NewPicker returns a pick list. label names a row in the filter display.
func NewPicker[T dao.Object](app *App, sel *filter.Selection, src model.DialogSource[T], label func(T) string, done func([]filter.Item)) *Picker[T] {
	log := app.log.With(zap.String("dialog", sel.Dialog()))
	return &Picker[T]{
		Table: ui.NewTable(src.TableDef().Title),
		app:   app,
		sel:   sel,
		ds:    model.NewDialogTableDataSource(src, log, app.gridOptions(), sel.Multiple()),
		label: label,
		done:  done,
	}
}

// Init initializes the pick list.
func (p *Picker[T]) Init(ctx context.Context) error {
	if err := p.Table.Init(ctx); err != nil {
		return err
	}
	p.SetMarker(p.ds.IsSelected)
	p.SetSubtitle("current: " + p.sel.Display())
	p.Actions().Bulk(ui.KeyMap{
		ui.KeySpace:        ui.NewKeyAction("Toggle", p.toggleCmd, p.sel.Multiple()),
		tcell.KeyEnter:     ui.NewKeyAction("Apply", p.applyCmd, true),
		ui.KeyX:            ui.NewKeyAction("Clear", p.clearCmd, true),
		ui.KeyLeftBracket:  ui.NewKeyAction("Prev Page", p.pageCmd(-1), true),
		ui.KeyRightBracket: ui.NewKeyAction("Next Page", p.pageCmd(1), true),
	})
	p.ds.AddListener(p)

	return nil
}

func (p *Picker[T]) Name() string        { return p.sel.Name() }
func (p *Picker[T]) Hints() ui.MenuHints { return p.Actions().Hints() }

// Start loads the first page.
func (p *Picker[T]) Start() {
	ctx, cancel := context.WithCancel(p.app.Context())
	p.mx.Lock()
	p.cancelFn = cancel
	p.mx.Unlock()

	go func() {
		if err := p.ds.Init(ctx); err != nil && !errors.Is(err, model.ErrSuperseded) {
			p.app.log.Debug("Pick list load failed", zap.Error(err))
		}
	}()
}

// Stop stops the data source.
func (p *Picker[T]) Stop() {
	p.mx.Lock()
	if p.cancelFn != nil {
		p.cancelFn()
		p.cancelFn = nil
	}
	p.mx.Unlock()

	p.ds.RemoveListener(p)
	p.ds.Stop()
}

// Search filters the pick list.
func (p *Picker[T]) Search(text string) {
	p.ds.SetSearch(strings.TrimSpace(text))
	p.refresh()
}

func (p *Picker[T]) TableLoading() {}

func (p *Picker[T]) TableDataChanged(data *model1.TableData) {
	p.app.QueueUpdateDraw(func() { p.Update(data) })
}

func (p *Picker[T]) TableLoadFailed(err error) {
	p.app.QueueUpdateDraw(func() { p.ShowError(err) })
}

func (p *Picker[T]) toggleCmd(*tcell.EventKey) *tcell.EventKey {
	if id, ok := p.SelectedRowID(); ok {
		p.ds.Toggle(id)
		p.Redraw()
	}
	return nil
}

// applyCmd hands the selected rows to the filter. In single mode the row
// under the cursor is the selection.
func (p *Picker[T]) applyCmd(*tcell.EventKey) *tcell.EventKey {
	if !p.sel.Multiple() {
		p.ds.ClearSelection()
		if id, ok := p.SelectedRowID(); ok {
			p.ds.Toggle(id)
		}
	}
	p.done(Items(p.ds.Selected(), p.label))
	return nil
}

func (p *Picker[T]) clearCmd(*tcell.EventKey) *tcell.EventKey {
	p.ds.ClearSelection()
	p.Redraw()
	return nil
}

func (p *Picker[T]) pageCmd(delta int) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		pg := p.ds.Paging()
		next := min(max(pg.Index+delta, 0), pg.LastIndex(p.ds.Result().Count))
		if next != pg.Index {
			pg.Index = next
			p.ds.SetPaging(pg)
			p.refresh()
		}
		return nil
	}
}

func (p *Picker[T]) refresh() {
	go func() {
		if err := p.ds.Refresh(p.app.Context()); err != nil && !errors.Is(err, model.ErrSuperseded) {
			p.app.log.Debug("Pick list refresh failed", zap.Error(err))
		}
	}()
}

// Items turns picked rows into filter items.
func Items[T dao.Object](rows []T, label func(T) string) []filter.Item {
	items := make([]filter.Item, 0, len(rows))
	for _, r := range rows {
		v := r.GetID()
		if label != nil {
			if l := label(r); l != "" {
				v = l
			}
		}
		items = append(items, filter.Item{Key: r.GetID(), Value: v})
	}

	return items
}
