// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
	"github.com/evcon/evcon/internal/resource"
	"github.com/evcon/evcon/internal/ui"
)

// ApplyFn assigns a filter value.
type ApplyFn func(f filter.Filter, v any) error

// rangeSeparators split the two days of a period.
var rangeSeparators = []string{"..", " - ", " to "}

// ParseDay reads a YYYY-MM-DD day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expecting YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseRange reads a period of two days. The end day is included.
func ParseRange(s string, loc *time.Location) (filter.Range, error) {
	for _, sep := range rangeSeparators {
		from, to, ok := strings.Cut(s, sep)
		if !ok {
			continue
		}
		start, err := ParseDay(from, loc)
		if err != nil {
			return filter.Range{}, err
		}
		end, err := ParseDay(to, loc)
		if err != nil {
			return filter.Range{}, err
		}
		if end.Before(start) {
			return filter.Range{}, fmt.Errorf("period ends before it starts")
		}
		return filter.Range{Start: start, End: end.AddDate(0, 0, 1).Add(-time.Second)}, nil
	}

	return filter.Range{}, fmt.Errorf("invalid period %q, expecting YYYY-MM-DD..YYYY-MM-DD", s)
}

// FilterMenu lists the filters of a grid.
type FilterMenu struct {
	*tview.List

	app     *App
	grid    string
	filters []filter.Filter
	apply   ApplyFn
	actions *ui.KeyActions
}

// NewFilterMenu returns the filter menu of a grid.
func NewFilterMenu(app *App, grid string, ff []filter.Filter, apply ApplyFn) *FilterMenu {
	return &FilterMenu{
		List:    tview.NewList(),
		app:     app,
		grid:    grid,
		filters: ff,
		apply:   apply,
		actions: ui.NewKeyActions(),
	}
}

// Init builds the list.
func (m *FilterMenu) Init(context.Context) error {
	m.SetBorder(true)
	m.SetBorderColor(tcell.ColorAqua)
	m.SetTitle(fmt.Sprintf(" [aqua::b]%s filters[white::-] ", m.grid))
	m.ShowSecondaryText(true)
	m.SetSecondaryTextColor(tcell.ColorGray)
	m.actions.Add(tcell.KeyEnter, ui.NewKeyAction("Edit", passThrough, true))
	m.actions.Add(tcell.KeyEsc, ui.NewKeyAction("Back", passThrough, true))
	m.render()

	return nil
}

func (m *FilterMenu) render() {
	m.Clear()
	for _, f := range m.filters {
		m.AddItem(f.Name(), f.Display(), 0, func() { m.edit(f) })
	}
}

func (m *FilterMenu) Name() string        { return "filters" }
func (m *FilterMenu) Start()              {}
func (m *FilterMenu) Stop()               {}
func (m *FilterMenu) Hints() ui.MenuHints { return m.actions.Hints() }

// done applies a value and goes back to the grid.
func (m *FilterMenu) done(f filter.Filter, v any) {
	if err := m.apply(f, v); err != nil {
		m.app.flash.Errf("Unable to set %s: %v", f.Name(), err)
		return
	}
	m.app.back()
	m.app.back()
}

func (m *FilterMenu) edit(f filter.Filter) {
	switch t := f.(type) {
	case *filter.Dropdown:
		m.app.inject(NewDropdownEditor(t, func(key string) { m.done(f, key) }))
	case *filter.Date:
		m.app.inject(NewInputEditor(f.Name(), t.Current().Format(time.DateOnly), m.app.back, func(s string) error {
			d, err := ParseDay(s, time.Local)
			if err != nil {
				return err
			}
			m.done(f, d)
			return nil
		}))
	case *filter.DateRange:
		r := t.Current()
		text := r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
		m.app.inject(NewInputEditor(f.Name(), text, m.app.back, func(s string) error {
			r, err := ParseRange(s, time.Local)
			if err != nil {
				return err
			}
			m.done(f, r)
			return nil
		}))
	case *filter.Selection:
		c, err := newPicker(m.app, t, func(items []filter.Item) { m.done(f, items) })
		if err != nil {
			m.app.flash.Err(err)
			return
		}
		m.app.inject(c)
	default:
		m.app.flash.Warnf("No editor for filter %s", f.Name())
	}
}

// DropdownEditor picks one value of a dropdown filter.
type DropdownEditor struct {
	*tview.List

	f       *filter.Dropdown
	pick    func(string)
	actions *ui.KeyActions
}

// NewDropdownEditor returns the editor of a dropdown filter.
func NewDropdownEditor(f *filter.Dropdown, pick func(key string)) *DropdownEditor {
	return &DropdownEditor{List: tview.NewList(), f: f, pick: pick, actions: ui.NewKeyActions()}
}

func (d *DropdownEditor) Init(context.Context) error {
	d.SetBorder(true)
	d.SetBorderColor(tcell.ColorAqua)
	d.SetTitle(fmt.Sprintf(" [aqua::b]%s[white::-] ", d.f.Name()))
	d.ShowSecondaryText(false)
	d.actions.Add(tcell.KeyEnter, ui.NewKeyAction("Select", passThrough, true))
	d.actions.Add(tcell.KeyEsc, ui.NewKeyAction("Back", passThrough, true))
	for i, it := range d.f.Items() {
		d.AddItem(it.Value, "", 0, func() { d.pick(it.Key) })
		if it.Key == d.f.Current() {
			d.SetCurrentItem(i)
		}
	}

	return nil
}

func (d *DropdownEditor) Name() string        { return d.f.Name() }
func (d *DropdownEditor) Start()              {}
func (d *DropdownEditor) Stop()               {}
func (d *DropdownEditor) Hints() ui.MenuHints { return d.actions.Hints() }

// InputEditor edits a filter as text.
type InputEditor struct {
	*tview.InputField

	title   string
	cancel  func()
	submit  func(string) error
	actions *ui.KeyActions
}

// NewInputEditor returns a text editor initialized with text.
func NewInputEditor(title, text string, cancel func(), submit func(string) error) *InputEditor {
	e := InputEditor{
		InputField: tview.NewInputField(),
		title:      title,
		cancel:     cancel,
		submit:     submit,
		actions:    ui.NewKeyActions(),
	}
	e.SetText(text)

	return &e
}

func (e *InputEditor) Init(context.Context) error {
	e.SetBorder(true)
	e.SetBorderColor(tcell.ColorAqua)
	e.SetTitle(fmt.Sprintf(" [aqua::b]%s[white::-] ", e.title))
	e.SetLabel("> ")
	e.SetFieldBackgroundColor(tcell.ColorDefault)
	e.actions.Add(tcell.KeyEnter, ui.NewKeyAction("Apply", passThrough, true))
	e.actions.Add(tcell.KeyEsc, ui.NewKeyAction("Cancel", passThrough, true))
	e.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if err := e.submit(e.GetText()); err != nil {
				e.SetTitle(fmt.Sprintf(" [aqua::b]%s[white::-] [red::]%s[-::] ", e.title, err))
			}
		case tcell.KeyEsc:
			e.cancel()
		}
	})

	return nil
}

func (e *InputEditor) Name() string        { return e.title }
func (e *InputEditor) Start()              {}
func (e *InputEditor) Stop()               {}
func (e *InputEditor) Hints() ui.MenuHints { return e.actions.Hints() }

// CapturesInput keeps the global keys away from the field.
func (e *InputEditor) CapturesInput() bool { return true }

func passThrough(evt *tcell.EventKey) *tcell.EventKey { return evt }

// newPicker returns the pick list of a selection filter.
func newPicker(app *App, s *filter.Selection, done func([]filter.Item)) (ui.Component, error) {
	f := app.deps.Factory
	if s.Dialog() == "car-makers" {
		return NewPicker[dao.CarMaker](app, s, resource.NewCarMakers(f), func(o dao.CarMaker) string { return o.CarMaker }, done), nil
	}
	src, err := resource.NewLookup(f, s)
	if err != nil {
		return nil, err
	}

	return NewPicker[dao.Named](app, s, src, dao.Named.Label, done), nil
}
