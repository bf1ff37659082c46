package view

import (
	"context"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/evcon/evcon/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// Help displays the commands and the keybindings of the console.
type Help struct {
	*tview.Table

	app      *App
	commands []string
	view     ui.MenuHints
	actions  *ui.KeyActions
}

// NewHelp creates a new help view. The hints of the view under it are
// listed in the last column.
func NewHelp(app *App, commands []string) *Help {
	h := Help{
		Table:    tview.NewTable(),
		app:      app,
		commands: commands,
		actions:  ui.NewKeyActions(),
	}
	if c := app.Content.Current(); c != nil {
		h.view = c.Hints()
	}

	return &h
}

// Init builds the help table.
func (h *Help) Init(context.Context) error {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)
	h.actions.Add(tcell.KeyEsc, ui.NewKeyAction("Back", passThrough, true))
	h.populate()

	return nil
}

func (h *Help) Name() string        { return helpCmd }
func (h *Help) Start()              {}
func (h *Help) Stop()               {}
func (h *Help) Hints() ui.MenuHints { return h.actions.Hints() }

func (h *Help) columns() ([]string, [][]HelpBind) {
	cmds := make([]HelpBind, 0, len(h.commands))
	for _, c := range h.commands {
		cmds = append(cmds, HelpBind{Key: ":" + c})
	}
	general := []HelpBind{
		{"<:>", "Command"},
		{"</>", "Search"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<q>", "Quit"},
		{"<ctrl-c>", "Exit"},
	}
	grid := []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
		{"<[>", "Prev Page"},
		{"<]>", "Next Page"},
		{"<ctrl-s>", "Sort Next"},
		{"<S>", "Sort Reverse"},
		{"<f>", "Filters"},
		{"<z>", "Reset Filters"},
		{"<enter>", "Open"},
	}
	view := make([]HelpBind, 0, len(h.view))
	for _, m := range h.view {
		if m.IsBlank() || !m.Visible {
			continue
		}
		view = append(view, HelpBind{Key: "<" + m.Mnemonic + ">", Desc: m.Description})
	}

	return []string{"COMMANDS", "GENERAL", "GRID", "VIEW"}, [][]HelpBind{cmds, general, grid, view}
}

// populate lays the bindings out as key/description pairs, one group per
// column.
func (h *Help) populate() {
	headers, columns := h.columns()

	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth
		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			h.SetCell(rowIdx+1, baseCol, tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(rowIdx+1, baseCol+1, tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, baseCol+2, tview.NewTableCell("").SetSelectable(false).SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
