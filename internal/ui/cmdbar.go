// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package ui

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/fvbommel/sortorder"
)

// maxHistory bounds the recalled entries of each mode.
const maxHistory = 20

// history keeps the last entries of a mode, newest first.
type history struct {
	entries []string
	cursor  int
}

func (h *history) push(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	h.entries = slices.DeleteFunc(h.entries, func(e string) bool { return e == s })
	h.entries = slices.Insert(h.entries, 0, s)
	if len(h.entries) > maxHistory {
		h.entries = h.entries[:maxHistory]
	}
	h.reset()
}

func (h *history) reset() { h.cursor = -1 }

// step moves through the entries, older with a positive delta.
func (h *history) step(delta int) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	h.cursor = min(max(h.cursor+delta, 0), len(h.entries)-1)
	return h.entries[h.cursor], true
}

// CmdBar is the command and search input of the app. While typing a command
// the first matching command is shown as ghost text.
type CmdBar struct {
	*tview.TextView

	mode      IndicatorMode
	cmdFn     func(string)
	searchFn  func(string)
	cancelFn  func()
	activeFn  func(bool)
	active    bool
	text      []rune
	matches   []string
	matchIdx  int
	commands  []string
	histories map[IndicatorMode]*history
	mx        sync.RWMutex
}

// NewCmdBar creates a new command bar.
func NewCmdBar() *CmdBar {
	c := CmdBar{
		TextView: tview.NewTextView(),
		mode:     ModeNormal,
		histories: map[IndicatorMode]*history{
			ModeCommand: {cursor: -1},
			ModeSearch:  {cursor: -1},
		},
	}
	c.SetBorder(true)
	c.SetBorderColor(tcell.ColorDarkCyan)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.SetDynamicColors(true)
	c.SetWrap(false)
	c.SetInputCapture(c.keyboard)
	c.render()

	return &c
}

func (c *CmdBar) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if !c.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyEnter:
		c.execute()
	case tcell.KeyEsc:
		c.cancel()
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.edit(func(t []rune) []rune {
			if len(t) == 0 {
				return t
			}
			return t[:len(t)-1]
		})
	case tcell.KeyCtrlU, tcell.KeyCtrlW:
		c.edit(func(t []rune) []rune { return t[:0] })
	case tcell.KeyTab, tcell.KeyRight:
		c.accept()
	case tcell.KeyUp:
		c.cycle(-1)
	case tcell.KeyDown:
		c.cycle(1)
	case tcell.KeyRune:
		r := evt.Rune()
		c.edit(func(t []rune) []rune { return append(t, r) })
	default:
		return evt
	}

	return nil
}

// edit changes the input text and recomputes the suggestions.
func (c *CmdBar) edit(fn func([]rune) []rune) {
	c.mx.Lock()
	c.text = fn(c.text)
	if h, ok := c.histories[c.mode]; ok {
		h.reset()
	}
	c.suggest()
	c.mx.Unlock()
	c.render()
}

// accept takes the ghost text in.
func (c *CmdBar) accept() {
	c.mx.Lock()
	if s := c.suggestion(); s != "" {
		c.text = []rune(s)
		c.matches, c.matchIdx = nil, 0
	}
	c.mx.Unlock()
	c.render()
}

// cycle walks the suggestions, or the history when there are none.
func (c *CmdBar) cycle(delta int) {
	c.mx.Lock()
	if n := len(c.matches); n > 0 {
		c.matchIdx = (c.matchIdx + delta + n) % n
	} else if h, ok := c.histories[c.mode]; ok {
		if s, ok := h.step(-delta); ok {
			c.text = []rune(s)
		}
	}
	c.mx.Unlock()
	c.render()
}

// suggest lists the commands starting with the text. Callers hold the lock.
func (c *CmdBar) suggest() {
	c.matches, c.matchIdx = nil, 0
	text := strings.ToLower(string(c.text))
	if c.mode != ModeCommand || text == "" {
		return
	}
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, text) && cmd != text {
			c.matches = append(c.matches, cmd)
		}
	}
}

func (c *CmdBar) suggestion() string {
	if len(c.matches) == 0 {
		return ""
	}
	return c.matches[c.matchIdx]
}

func (c *CmdBar) render() {
	c.mx.RLock()
	text, ghost := string(c.text), c.suggestion()
	icon, prefix := c.mode.icon()
	c.mx.RUnlock()

	c.Clear()
	if strings.HasPrefix(ghost, strings.ToLower(text)) && len(ghost) > len(text) {
		fmt.Fprintf(c.TextView, "%s%s [::b]%s[gray::]%s[-::]", icon, prefix, text, ghost[len(text):])
		return
	}
	fmt.Fprintf(c.TextView, "%s%s [::b]%s", icon, prefix, text)
}

// SetCommands sets the commands offered as suggestions.
func (c *CmdBar) SetCommands(cmds []string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.commands = slices.Clone(cmds)
	slices.SortFunc(c.commands, func(a, b string) int {
		switch {
		case sortorder.NaturalLess(a, b):
			return -1
		case sortorder.NaturalLess(b, a):
			return 1
		}
		return 0
	})
	c.commands = slices.Compact(c.commands)
}

// GetText returns the current input text.
func (c *CmdBar) GetText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return string(c.text)
}

// SetText sets the input text.
func (c *CmdBar) SetText(s string) {
	c.mx.Lock()
	c.text = []rune(s)
	c.suggest()
	c.mx.Unlock()
	c.render()
}

// Activate enters command or search mode.
func (c *CmdBar) Activate(mode IndicatorMode) {
	c.setMode(mode, true)
}

// Deactivate exits input mode.
func (c *CmdBar) Deactivate() {
	c.setMode(ModeNormal, false)
}

func (c *CmdBar) setMode(mode IndicatorMode, active bool) {
	c.mx.Lock()
	c.mode, c.active = mode, active
	c.text = c.text[:0]
	c.matches, c.matchIdx = nil, 0
	if h, ok := c.histories[mode]; ok {
		h.reset()
	}
	fn := c.activeFn
	c.mx.Unlock()
	c.render()

	if fn != nil {
		fn(active)
	}
}

// execute runs the command or confirms the search.
func (c *CmdBar) execute() {
	c.mx.Lock()
	text, mode := string(c.text), c.mode
	if h, ok := c.histories[mode]; ok {
		h.push(text)
	}
	c.mx.Unlock()
	c.Deactivate()

	switch mode {
	case ModeCommand:
		if c.cmdFn != nil && strings.TrimSpace(text) != "" {
			c.cmdFn(text)
		}
	case ModeSearch:
		if c.searchFn != nil {
			c.searchFn(text)
		}
	}
}

// cancel aborts the input. A canceled search clears the grid search.
func (c *CmdBar) cancel() {
	mode := c.Mode()
	c.Deactivate()
	if mode == ModeSearch && c.cancelFn != nil {
		c.cancelFn()
	}
}

// IsActive returns whether the command bar is accepting input.
func (c *CmdBar) IsActive() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.active
}

// Mode returns the current mode.
func (c *CmdBar) Mode() IndicatorMode {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.mode
}

func (c *CmdBar) SetCommandFn(fn func(string)) { c.cmdFn = fn }
func (c *CmdBar) SetSearchFn(fn func(string))  { c.searchFn = fn }
func (c *CmdBar) SetCancelFn(fn func())        { c.cancelFn = fn }

// SetActiveFn sets the callback for when active state changes.
func (c *CmdBar) SetActiveFn(fn func(bool)) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.activeFn = fn
}
