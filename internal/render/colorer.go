package render

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/model1"
)

// TokenStatusColor returns the color of a registration token state.
func TokenStatusColor(s dao.TokenStatus) tcell.Color {
	switch s {
	case dao.TokenExpired:
		return model1.ErrColor
	case dao.TokenRevoked:
		return model1.WarnColor
	default:
		return model1.CompletedColor
	}
}

// TokenColorer colors registration token rows by status.
func TokenColorer(h model1.Header, re *model1.RowEvent) tcell.Color {
	idx, ok := h.IndexOf("status")
	if !ok || idx >= len(re.Row.Fields) || re.Kind != model1.EventUnchanged {
		return model1.DefaultColorer(h, re)
	}

	switch re.Row.Fields[idx] {
	case TokenStatus(dao.TokenExpired):
		return TokenStatusColor(dao.TokenExpired)
	case TokenStatus(dao.TokenRevoked):
		return TokenStatusColor(dao.TokenRevoked)
	default:
		return TokenStatusColor(dao.TokenValid)
	}
}

// InactivityColorer flags charging sessions by their idle share.
func InactivityColorer(h model1.Header, re *model1.RowEvent) tcell.Color {
	c := model1.DefaultColorer(h, re)
	if re.Kind != model1.EventUnchanged {
		return c
	}
	idx, ok := h.IndexOf("currentTotalInactivitySecs")
	if !ok || idx >= len(re.Row.Fields) {
		return c
	}
	pct, ok := inactivityPercent(re.Row.Fields[idx])
	switch {
	case !ok:
		return c
	case pct >= InactivityError:
		return model1.ErrColor
	case pct >= InactivityWarning:
		return model1.WarnColor
	default:
		return c
	}
}

func inactivityPercent(s string) (int, bool) {
	i := strings.LastIndex(s, "(")
	if i < 0 {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(s[i+1:], "%)"))
	if err != nil {
		return 0, false
	}

	return pct, true
}
