// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package ui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const confirmPage = "confirm-dialog"

// Confirm represents a yes/no question.
type Confirm struct {
	*Dialog
	answered bool
	answer   func(bool)
}

// NewConfirm creates a confirmation dialog. answer is called exactly once.
func NewConfirm(pages *tview.Pages, title, msg string, answer func(bool)) *Confirm {
	c := Confirm{
		Dialog: NewDialog(pages, confirmPage),
		answer: answer,
	}
	c.SetMessage(fmt.Sprintf("%s\n\n%s", title, msg))
	c.SetButtons("Yes", "No")
	c.SetDoneFn(func(idx int) { c.reply(idx == 0) })
	c.SetDangerous(false)

	return &c
}

// SetDangerous styles the dialog for dangerous operations.
func (c *Confirm) SetDangerous(dangerous bool) *Confirm {
	if dangerous {
		c.SetColors(tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
	} else {
		c.SetColors(tcell.ColorWhite, tcell.ColorDarkCyan, tcell.ColorWhite)
	}
	return c
}

// Cancel dismisses the dialog answering no.
func (c *Confirm) Cancel() {
	c.Dismiss()
	c.reply(false)
}

func (c *Confirm) reply(yes bool) {
	if c.answered {
		return
	}
	c.answered = true
	if c.answer != nil {
		c.answer(yes)
	}
}
