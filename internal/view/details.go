// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"gopkg.in/yaml.v3"

	"github.com/evcon/evcon/internal/ui"
)

var tagPattern = regexp.MustCompile(`\[([a-zA-Z0-9_,;: \-\."#]+)\]`)

// escape keeps square brackets of the content from being read as color tags.
func escape(s string) string {
	return tagPattern.ReplaceAllString(s, "[$1[]")
}

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// Details displays one backend object as YAML or JSON.
type Details struct {
	*tview.TextView

	title   string
	obj     any
	format  string
	wrapOn  bool
	actions *ui.KeyActions
	backFn  func()
}

// NewDetails returns a read only view of obj.
func NewDetails(title string, obj any) *Details {
	d := Details{
		TextView: tview.NewTextView(),
		title:    title,
		obj:      obj,
		format:   formatYAML,
		actions:  ui.NewKeyActions(),
	}
	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)

	return &d
}

// Init initializes the view.
func (d *Details) Init(context.Context) error {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:      ui.NewKeyAction("YAML", d.formatCmd(formatYAML), true),
		ui.KeyShiftJ: ui.NewKeyAction("JSON", d.formatCmd(formatJSON), true),
		ui.KeyW:      ui.NewKeyAction("Wrap", d.toggleWrap, true),
		ui.KeyQ:      ui.NewKeyAction("Back", d.backCmd, true),
	})
	d.SetInputCapture(d.keyboard)

	return nil
}

// Name returns the view name.
func (d *Details) Name() string { return d.title }

// Start renders the object.
func (d *Details) Start() { d.render() }

// Stop clears the view.
func (d *Details) Stop() { d.Clear() }

// Hints returns the menu hints.
func (d *Details) Hints() ui.MenuHints { return d.actions.Hints() }

// SetBackFn sets the callback for q.
func (d *Details) SetBackFn(fn func()) { d.backFn = fn }

func (d *Details) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch evt.Key() {
	case tcell.KeyHome:
		d.ScrollToBeginning()
		return nil
	case tcell.KeyEnd:
		d.ScrollToEnd()
		return nil
	case tcell.KeyRune:
		switch evt.Rune() {
		case 'j':
			d.ScrollTo(row+1, 0)
			return nil
		case 'k':
			d.ScrollTo(max(row-1, 0), 0)
			return nil
		case 'g':
			d.ScrollToBeginning()
			return nil
		case 'G':
			d.ScrollToEnd()
			return nil
		}
	}
	if a, ok := d.actions.Get(ui.AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func (d *Details) formatCmd(format string) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		d.format = format
		d.render()
		return nil
	}
}

func (d *Details) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Details) backCmd(*tcell.EventKey) *tcell.EventKey {
	if d.backFn != nil {
		d.backFn()
	}
	return nil
}

func (d *Details) render() {
	d.Clear()
	d.SetTitle(fmt.Sprintf(" [aqua::b]%s[white::-] [%s] ", d.title, strings.ToUpper(d.format)))
	d.SetText(Render(d.obj, d.format))
	d.ScrollToBeginning()
}

// Render formats obj using its JSON field names, as YAML with highlighting
// or as indented JSON.
func Render(obj any, format string) string {
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("[red::]Unable to render: %v[-::]", err)
	}
	if format == formatJSON {
		var out strings.Builder
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Sprintf("[red::]Unable to render: %v[-::]", err)
		}
		enc := json.NewEncoder(&out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Sprintf("[red::]Unable to render: %v[-::]", err)
		}
		return escape(out.String())
	}

	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return fmt.Sprintf("[red::]Unable to render: %v[-::]", err)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("[red::]Unable to render: %v[-::]", err)
	}

	return highlightYAML(string(out))
}

func highlightYAML(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			b.WriteString(escape(line) + "\n")
			continue
		}
		key, value := line[:idx+1], strings.TrimSpace(line[idx+1:])
		start := len(key) - len(strings.TrimLeft(key, " -"))
		indent, name := key[:start], key[start:]
		if value == "" {
			fmt.Fprintf(&b, "%s[aqua::]%s[-::]\n", indent, escape(name))
			continue
		}
		fmt.Fprintf(&b, "%s[aqua::]%s[-::] %s\n", indent, escape(name), colorizeValue(value))
	}

	return b.String()
}

func colorizeValue(value string) string {
	trimmed := strings.Trim(value, `"'`)
	escaped := escape(value)
	switch strings.ToLower(trimmed) {
	case "true", "available", "active", "accepted":
		return "[green::]" + escaped + "[-::]"
	case "false", "faulted", "unavailable", "expired", "revoked", "rejected":
		return "[red::]" + escaped + "[-::]"
	case "charging", "preparing", "finishing", "suspendedev", "suspendedevse", "reserved", "pending":
		return "[yellow::]" + escaped + "[-::]"
	case "null", "~":
		return "[gray::]" + escaped + "[-::]"
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return "[fuchsia::]" + escaped + "[-::]"
	}

	return escaped
}
