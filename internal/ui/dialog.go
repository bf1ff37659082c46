// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Dialog represents a modal dialog shown over the main pages.
type Dialog struct {
	*tview.Modal
	pages  *tview.Pages
	pageID string
	onDone func(int)
}

// NewDialog creates a new dialog.
func NewDialog(pages *tview.Pages, pageID string) *Dialog {
	d := &Dialog{
		Modal:  tview.NewModal(),
		pages:  pages,
		pageID: pageID,
	}

	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)
	d.SetDoneFunc(func(idx int, _ string) {
		d.Dismiss()
		if d.onDone != nil {
			d.onDone(idx)
		}
	})

	return d
}

// SetMessage sets the dialog message.
func (d *Dialog) SetMessage(msg string) *Dialog {
	d.Modal.SetText(msg)
	return d
}

// SetButtons configures dialog buttons.
func (d *Dialog) SetButtons(labels ...string) *Dialog {
	d.AddButtons(labels)
	return d
}

// SetDoneFn sets the callback receiving the index of the pressed button,
// or -1 when the dialog was dismissed.
func (d *Dialog) SetDoneFn(fn func(int)) *Dialog {
	d.onDone = fn
	return d
}

// SetColors configures dialog colors.
func (d *Dialog) SetColors(text, btnBg, btnText tcell.Color) *Dialog {
	d.SetTextColor(text)
	d.SetButtonBackgroundColor(btnBg)
	d.SetButtonTextColor(btnText)
	return d
}

// Show displays the dialog as a modal overlay.
func (d *Dialog) Show() {
	if d.pages != nil {
		d.pages.AddPage(d.pageID, d, true, true)
	}
}

// Dismiss removes the dialog from display.
func (d *Dialog) Dismiss() {
	if d.pages != nil {
		d.pages.RemovePage(d.pageID)
	}
}

// PageID returns the dialog's page identifier.
func (d *Dialog) PageID() string {
	return d.pageID
}

// InfoDialog creates a simple info dialog with OK button.
func InfoDialog(pages *tview.Pages, message string) *Dialog {
	return NewDialog(pages, "info-dialog").
		SetMessage(message).
		SetButtons("OK")
}

// ErrorDialog creates a styled error dialog.
func ErrorDialog(pages *tview.Pages, message string) *Dialog {
	return NewDialog(pages, "error-dialog").
		SetMessage(message).
		SetButtons("OK").
		SetColors(tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
}
