package model1

import "github.com/gdamore/tcell/v2"

var (
	// ModColor row modified color
	ModColor tcell.Color = tcell.ColorYellow

	// AddColor row added color
	AddColor tcell.Color = tcell.ColorBlue

	// ErrColor row error color
	ErrColor tcell.Color = tcell.ColorRed

	// WarnColor row warning color
	WarnColor tcell.Color = tcell.ColorOrange

	// StdColor row default color
	StdColor tcell.Color = tcell.ColorWhite

	// HighlightColor row highlight color
	HighlightColor tcell.Color = tcell.ColorAqua

	// CompletedColor row completed color
	CompletedColor tcell.Color = tcell.ColorGreen
)

// DefaultColorer set the default table row colors
func DefaultColorer(_ Header, re *RowEvent) tcell.Color {
	switch re.Kind {
	case EventAdd:
		return AddColor
	case EventUpdate:
		return ModColor
	default:
		return StdColor
	}
}
