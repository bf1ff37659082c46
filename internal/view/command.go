// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/config"
	"github.com/evcon/evcon/internal/config/data"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/model"
	"github.com/evcon/evcon/internal/resource"
	"github.com/evcon/evcon/internal/ui"
)

const (
	helpCmd = "help"
	infoCmd = "info"
	quitCmd = "quit"
)

// viewFn builds the grid of a resource.
type viewFn func(a *App, name string) ui.Component

var grids = map[dao.ResourceID]viewFn{
	dao.AssetRID: func(a *App, name string) ui.Component {
		return NewBrowser[dao.Asset](a, name, resource.NewAssets(a.deps), a.gridOptions())
	},
	dao.CarRID: func(a *App, name string) ui.Component {
		return NewBrowser[dao.Car](a, name, resource.NewCars(a.deps), a.gridOptions())
	},
	dao.ChargingProfileRID: func(a *App, name string) ui.Component {
		return NewBrowser[dao.ChargingProfile](a, name, resource.NewChargingPlans(a.deps), a.gridOptions())
	},
	dao.RegistrationTokenRID: func(a *App, name string) ui.Component {
		return NewBrowser[dao.RegistrationToken](a, name, resource.NewRegistrationTokens(a.deps), a.gridOptions())
	},
	dao.TransactionRID: func(a *App, name string) ui.Component {
		return NewBrowser[dao.Transaction](a, name, resource.NewTransactions(a.deps), a.gridOptions())
	},
	dao.StatisticRID: func(a *App, name string) ui.Component {
		return NewBrowser[resource.StatRow](a, name, resource.NewStatistics(a.deps), a.gridOptions())
	},
}

// Command handles user command interpretation and execution.
type Command struct {
	app     *App
	aliases *config.Aliases
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App, aliases *config.Aliases) *Command {
	return &Command{app: app, aliases: aliases}
}

// Names returns the commands offered as suggestions.
func (c *Command) Names() []string {
	nn := []string{helpCmd, infoCmd, quitCmd}
	for rid := range grids {
		nn = append(nn, string(rid))
	}
	nn = append(nn, c.aliases.Names()...)
	sort.Strings(nn)

	return nn
}

// Resolve maps a command to the grid it opens.
func (c *Command) Resolve(cmd string) (dao.ResourceID, error) {
	rid, ok := c.aliases.Resolve(cmd)
	if !ok {
		return "", fmt.Errorf("unknown command %q", cmd)
	}
	if _, ok := grids[rid]; !ok {
		return "", fmt.Errorf("no grid for %s", rid)
	}

	return rid, nil
}

// Run parses and executes a command.
func (c *Command) Run(cmd string) error {
	cmd = strings.TrimSpace(strings.TrimPrefix(cmd, ":"))
	if cmd == "" {
		cmd = c.app.config.Evcon.StartView()
	}
	ff := strings.Fields(cmd)
	if len(ff) == 0 {
		return fmt.Errorf("no command to run")
	}
	name := strings.ToLower(ff[0])

	switch name {
	case "q", "q!", "qa", quitCmd:
		c.app.Stop()
		return nil
	case "?", "h", helpCmd:
		c.app.inject(NewHelp(c.app, c.Names()))
		return nil
	case infoCmd, "whoami":
		c.app.showInfo()
		return nil
	}

	rid, err := c.Resolve(name)
	if err != nil {
		return err
	}
	c.app.Content.Stack.Clear()
	c.app.inject(grids[rid](c.app, string(rid)))
	c.app.saveView(string(rid))

	return nil
}

// gridOptions returns the tuning of the grids.
func (a *App) gridOptions() model.Options {
	opts := model.Options{
		PageSize:    a.config.Evcon.Grid.PageSize,
		RefreshRate: a.config.Evcon.GetRefreshRate(),
		Debounce:    a.config.Evcon.GetDebounce(),
	}
	if t, err := a.config.ActiveTenant(); err == nil && t.PageSize > 0 {
		opts.PageSize = t.PageSize
	}

	return opts
}

// saveView remembers the last grid of the tenant.
func (a *App) saveView(view string) {
	ctx := a.config.Evcon.ActiveContext()
	if ctx == nil {
		return
	}
	ctx.SetView(&data.View{Active: view})
	if err := a.config.Evcon.SaveContext(); err != nil {
		a.log.Warn("Unable to save the tenant context", zap.Error(err))
	}
}

func (a *App) showInfo() {
	var b strings.Builder
	fmt.Fprintf(&b, "Tenant: %s\n", a.deps.Factory.Tenant())
	if s, ok := a.deps.Auth.(interface{ Session() dao.UserSession }); ok {
		us := s.Session()
		fmt.Fprintf(&b, "User: %s (%s)\nRole: %s\n", us.Name, us.ID, roleName(us.Role))
		if len(us.SitesAdmin) > 0 {
			fmt.Fprintf(&b, "Sites admin: %d\n", len(us.SitesAdmin))
		}
	}
	fmt.Fprintf(&b, "Read only: %t\nVersion: %s", a.IsReadOnly(), a.version)
	ui.InfoDialog(a.Main, b.String()).Show()
}
