// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/evcon/evcon/internal/model1"
)

const (
	markIcon      = "✓ "
	sortAscIcon   = "↑"
	sortDescIcon  = "↓"
	titleFmt      = " [aqua::b]%s[white::-][[fuchsia::b]%d[white::-]] "
	titlePageFmt  = "[gray::]page %d/%d[-::] "
	titleExtraFmt = "[gray::]%s[-::] "
)

// Table renders the pages published by a grid data source.
type Table struct {
	*tview.Table

	title    string
	subtitle string
	actions  *KeyActions
	data     *model1.TableData
	colorer  model1.ColorerFunc
	marked   func(id string) bool
	mx       sync.RWMutex
}

// NewTable returns a new table instance.
func NewTable(title string) *Table {
	return &Table{
		Table:   tview.NewTable(),
		title:   title,
		actions: NewKeyActions(),
		colorer: model1.DefaultColorer,
	}
}

// Init initializes the table component.
func (t *Table) Init(context.Context) error {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorDarkCyan)
	t.SetInputCapture(t.keyboard)
	t.ShowMessage("Loading...", tcell.ColorGray)

	return nil
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// SetColorer sets the row colorer.
func (t *Table) SetColorer(c model1.ColorerFunc) {
	if c == nil {
		c = model1.DefaultColorer
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	t.colorer = c
}

// SetMarker sets the function telling which rows are marked.
func (t *Table) SetMarker(f func(id string) bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.marked = f
}

// SetSubtitle sets the text shown after the title, the search and filters.
func (t *Table) SetSubtitle(s string) {
	t.mx.Lock()
	t.subtitle = s
	t.mx.Unlock()
	t.updateTitle()
}

// Data returns the page being shown.
func (t *Table) Data() *model1.TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data
}

func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := t.GetSelection()
	rows := t.GetRowCount()

	switch AsKey(evt) {
	case KeyJ, tcell.KeyDown:
		if row < rows-1 {
			t.Select(row+1, col)
		}
		return nil
	case KeyK, tcell.KeyUp:
		if row > 1 {
			t.Select(row-1, col)
		}
		return nil
	case KeyG, tcell.KeyHome:
		if rows > 1 {
			t.Select(1, col)
		}
		return nil
	case KeyShiftG, tcell.KeyEnd:
		if rows > 1 {
			t.Select(rows-1, col)
		}
		return nil
	}

	if a, ok := t.actions.Get(AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

// ShowMessage replaces the rows by a message.
func (t *Table) ShowMessage(msg string, color tcell.Color) {
	t.Clear()
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(color)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	cell.SetExpansion(1)
	t.SetCell(0, 0, cell)
}

// ShowError renders a load failure.
func (t *Table) ShowError(err error) {
	t.ShowMessage(fmt.Sprintf("Load failed: %v", err), tcell.ColorRed)
	t.mx.Lock()
	t.data = nil
	t.mx.Unlock()
	t.updateTitle()
}

// Update renders a page, keeping the selected row when it is still there.
func (t *Table) Update(data *model1.TableData) {
	selected, _ := t.SelectedRowID()
	t.mx.Lock()
	t.data = data
	t.mx.Unlock()

	t.render(selected)
}

// Redraw renders the current page again, after the marks changed.
func (t *Table) Redraw() {
	selected, _ := t.SelectedRowID()
	t.render(selected)
}

func (t *Table) render(selected string) {
	t.mx.RLock()
	data, colorer, marked := t.data, t.colorer, t.marked
	t.mx.RUnlock()

	if data == nil {
		return
	}
	if data.Empty() {
		t.ShowMessage("No items found", tcell.ColorGray)
		t.updateTitle()
		return
	}

	t.Clear()
	h := data.Header()
	sortID, dir := data.Sort()
	t.buildHeader(h, sortID, dir)

	at := 1
	data.RowEvents().Range(func(i int, re model1.RowEvent) bool {
		mark := marked != nil && marked(re.Row.ID)
		t.buildRow(i+1, h, re, tcell.Color(colorer(h, &re)), mark)
		if re.Row.ID == selected {
			at = i + 1
		}
		return true
	})
	t.Select(at, 0)
	t.updateTitle()
}

func (t *Table) buildHeader(h model1.Header, sortID string, dir model1.SortDirection) {
	col := 0
	for _, c := range h {
		if c.Hide {
			continue
		}
		name := c.Name
		if c.ID == sortID {
			name += sortIcon(dir)
		}
		cell := tview.NewTableCell(name)
		cell.SetTextColor(tcell.ColorWhite)
		cell.SetAttributes(tcell.AttrBold)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(alignOf(c))
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		t.SetCell(0, col, cell)
		col++
	}
}

func (t *Table) buildRow(r int, h model1.Header, re model1.RowEvent, color tcell.Color, mark bool) {
	col := 0
	for i, field := range re.Row.Fields {
		if i >= len(h) {
			break
		}
		if h[i].Hide {
			continue
		}
		if dec := h[i].Decorator; dec != nil {
			field = dec(field)
		}
		if col == 0 && mark {
			field = markIcon + field
		}
		cell := tview.NewTableCell(field)
		cell.SetTextColor(color)
		if mark {
			cell.SetTextColor(tcell.ColorAqua)
		}
		if i < len(re.Deltas) && re.Deltas[i] != "" {
			cell.SetAttributes(tcell.AttrBold)
		}
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(alignOf(h[i]))
		cell.SetExpansion(1)
		if col == 0 {
			cell.SetReference(re.Row.ID)
		}
		t.SetCell(r, col, cell)
		col++
	}
}

func alignOf(c model1.HeaderColumn) int {
	if c.Capacity {
		return tview.AlignRight
	}
	return c.Align
}

func sortIcon(dir model1.SortDirection) string {
	if dir == model1.SortDesc {
		return sortDescIcon
	}
	return sortAscIcon
}

// SelectedRowID returns the id of the selected row.
func (t *Table) SelectedRowID() (string, bool) {
	row, _ := t.GetSelection()
	if row <= 0 {
		return "", false
	}
	cell := t.GetCell(row, 0)
	if cell == nil {
		return "", false
	}
	id, ok := cell.GetReference().(string)

	return id, ok
}

func (t *Table) updateTitle() {
	t.mx.RLock()
	title, sub, data := t.title, t.subtitle, t.data
	t.mx.RUnlock()

	var count int
	if data != nil {
		count = data.Count()
	}
	var b strings.Builder
	fmt.Fprintf(&b, titleFmt, title, count)
	if data != nil && data.PageCount() > 1 {
		idx, _ := data.Page()
		fmt.Fprintf(&b, titlePageFmt, idx+1, data.PageCount())
	}
	if sub != "" {
		fmt.Fprintf(&b, titleExtraFmt, sub)
	}
	t.SetTitle(b.String())
}
