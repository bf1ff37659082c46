// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/evcon/evcon/internal/dao"
)

// SessionInfo displays the tenant and the logged in user.
type SessionInfo struct {
	*tview.Table
}

// NewSessionInfo creates a new session info display component.
func NewSessionInfo() *SessionInfo {
	s := SessionInfo{Table: tview.NewTable()}
	s.SetBorder(true)
	s.SetBorderColor(tcell.ColorDarkCyan)
	s.SetBorderPadding(0, 0, 1, 1)
	s.SetSelectable(false, false)

	return &s
}

// SetSession updates the displayed session.
func (s *SessionInfo) SetSession(tenant string, us dao.UserSession, version string) {
	s.Clear()
	if tenant == "" {
		tenant = "n/a"
	}
	rows := [][2]string{
		{"Tenant:", tenant},
		{"User:", us.Name},
		{"Role:", roleName(us.Role)},
		{"Components:", strings.Join(us.ActiveComponents, ",")},
		{"Version:", version},
	}
	for r, row := range rows {
		s.SetCell(r, 0, tview.NewTableCell(row[0]).
			SetTextColor(tcell.ColorOrange).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
		s.SetCell(r, 1, tview.NewTableCell(row[1]).
			SetTextColor(tcell.ColorWhite).
			SetSelectable(false))
	}
}

func roleName(r dao.Role) string {
	switch r {
	case dao.RoleSuperAdmin:
		return "Super Admin"
	case dao.RoleAdmin:
		return "Admin"
	case dao.RoleBasic:
		return "Basic"
	case dao.RoleDemo:
		return "Demo"
	default:
		return string(r)
	}
}
