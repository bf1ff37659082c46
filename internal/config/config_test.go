package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/config"
	"github.com/evcon/evcon/internal/config/data"
	"github.com/evcon/evcon/internal/dao"
)

const tenantsINI = `default_tenant = acme

[acme]
rest_url  = https://rest.acme.example/
token     = secret
page_size = 20
timeout   = 10s

[globex]
rest_url   = http://localhost:8090
socket_url = ws://localhost:8091/events
token_env  = EVCON_TEST_TOKEN
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTenants(t *testing.T) {
	t.Setenv("EVCON_TEST_TOKEN", "from-env")

	tt, err := config.LoadTenants(writeFile(t, "tenants.ini", tenantsINI))
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, tt.Names())

	name, err := tt.DefaultName()
	require.NoError(t, err)
	assert.Equal(t, "acme", name)

	acme, err := tt.Get("acme")
	require.NoError(t, err)
	assert.Equal(t, "wss://rest.acme.example/notifications", acme.SocketURL)
	assert.Equal(t, 20, acme.PageSize)
	assert.Equal(t, 10*time.Second, acme.Timeout)

	cfg := acme.ClientConfig()
	assert.Equal(t, "acme", cfg.Tenant)
	assert.Equal(t, "secret", cfg.Token)

	globex, err := tt.Get("globex")
	require.NoError(t, err)
	assert.Equal(t, "from-env", globex.Token)
	assert.Equal(t, "ws://localhost:8091/events", globex.SocketURL)
	assert.Equal(t, config.DefaultAPITimeout, globex.Timeout)

	_, err = tt.Get("initech")
	assert.ErrorIs(t, err, config.ErrUnknownTenant)
}

func TestLoadTenantsMissing(t *testing.T) {
	tt, err := config.LoadTenants(filepath.Join(t.TempDir(), "none.ini"))
	require.NoError(t, err)
	assert.Empty(t, tt.Names())

	_, err = tt.DefaultName()
	assert.ErrorIs(t, err, config.ErrNoTenant)
}

func TestLoadTenantsNoURL(t *testing.T) {
	_, err := config.LoadTenants(writeFile(t, "tenants.ini", "[acme]\ntoken = x\n"))
	assert.ErrorContains(t, err, "rest_url is required")
}

func TestDefaultNameSingle(t *testing.T) {
	tt := config.NewTenants()
	tt.Add(&config.Tenant{Name: "solo"})

	name, err := tt.DefaultName()
	require.NoError(t, err)
	assert.Equal(t, "solo", name)

	tt.Add(&config.Tenant{Name: "duo"})
	_, err = tt.DefaultName()
	assert.ErrorIs(t, err, config.ErrNoTenant)
}

func newConfig(t *testing.T, tt *config.Tenants) *config.Config {
	t.Helper()
	c := config.NewConfig(tt)
	c.Evcon.SetDir(data.NewDirAt(t.TempDir()))
	return c
}

func TestRefinePrecedence(t *testing.T) {
	tt, err := config.LoadTenants(writeFile(t, "tenants.ini", tenantsINI))
	require.NoError(t, err)

	uu := map[string]struct {
		flag, dflt, want string
	}{
		"tenants-default": {want: "acme"},
		"config-default":  {dflt: "globex", want: "globex"},
		"flag":            {flag: "globex", dflt: "acme", want: "globex"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			c := newConfig(t, tt)
			c.Evcon.DefaultTenant = u.dflt
			flags := config.NewFlags()
			*flags.Tenant = u.flag

			require.NoError(t, c.Refine(flags, tt))
			assert.Equal(t, u.want, c.Evcon.ActiveTenant())
			assert.Equal(t, u.want, tt.Active())

			tenant, err := c.ActiveTenant()
			require.NoError(t, err)
			assert.Equal(t, u.want, tenant.Name)
		})
	}
}

func TestRefineUnknown(t *testing.T) {
	tt := config.NewTenants()
	tt.Add(&config.Tenant{Name: "acme"})

	flags := config.NewFlags()
	*flags.Tenant = "initech"
	assert.ErrorIs(t, newConfig(t, tt).Refine(flags, tt), config.ErrUnknownTenant)
}

func TestOverride(t *testing.T) {
	e := config.NewEvcon()
	e.ReadOnly = true

	flags := config.NewFlags()
	*flags.RefreshRate = 2
	*flags.Write = true
	*flags.LogLevel = "debug"
	*flags.Command = "cars"
	*flags.ExportTo = "s3://reports/evcon"
	e.Override(flags)

	assert.False(t, e.IsReadOnly())
	assert.Equal(t, 2*time.Second, e.GetRefreshRate())
	assert.Equal(t, "debug", e.Logger.Level)
	assert.Equal(t, "cars", e.StartView())
	assert.Equal(t, "s3://reports/evcon", e.Export.Destination)
}

func TestReadOnlyTenant(t *testing.T) {
	e := config.NewEvcon()
	e.SetDir(data.NewDirAt(t.TempDir()))

	ctx, err := e.ActivateTenant("acme")
	require.NoError(t, err)
	assert.False(t, e.IsReadOnly())

	ctx.SetReadOnly(true)
	ctx.SetView(&data.View{Active: "assets"})
	assert.True(t, e.IsReadOnly())
	assert.Equal(t, "assets", e.StartView())
	require.NoError(t, e.SaveContext())

	reloaded, err := e.ActivateTenant("acme")
	require.NoError(t, err)
	assert.True(t, reloaded.IsReadOnly())
	assert.Equal(t, "assets", reloaded.GetView().Active)
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "evcon.yaml", `evcon:
  refreshRate: 0
  apiTimeout: nope
  defaultView: cars
  grid:
    pageSize: 25
  export:
    destination: /tmp/reports
    awsRegion: eu-west-3
`)

	c := config.NewConfig(config.NewTenants())
	require.NoError(t, c.Load(path, true))

	e := c.Evcon
	assert.Equal(t, float32(config.DefaultRefreshRate), e.RefreshRate)
	assert.Equal(t, config.DefaultAPITimeout.String(), e.APITimeout)
	assert.Equal(t, "cars", e.DefaultView)
	assert.Equal(t, 25, e.Grid.PageSize)
	assert.Equal(t, 500*time.Millisecond, e.GetDebounce())
	assert.Equal(t, "eu-west-3", e.Export.Region)

	assert.Error(t, c.Load(filepath.Join(t.TempDir(), "missing.yaml"), true))
	assert.NoError(t, c.Load(filepath.Join(t.TempDir(), "missing.yaml"), false))
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evcon.yaml")
	c := config.NewConfig(config.NewTenants())
	require.NoError(t, c.Load(path, false))
	require.NoError(t, c.Save(false))
	assert.NoFileExists(t, path)

	c.Evcon.DefaultView = "assets"
	require.NoError(t, c.Save(true))

	reloaded := config.NewConfig(config.NewTenants())
	require.NoError(t, reloaded.Load(path, true))
	assert.Equal(t, "assets", reloaded.Evcon.DefaultView)
}

func TestAliases(t *testing.T) {
	a := config.NewAliases()
	path := writeFile(t, "aliases.yaml", "aliases:\n  Juice: statistics\n  ev: assets\n")
	require.NoError(t, a.LoadFrom(path))

	uu := map[string]dao.ResourceID{
		"juice":       dao.StatisticRID,
		"ev":          dao.AssetRID,
		"reg":         dao.RegistrationTokenRID,
		"consumption": dao.StatisticRID,
		"cars":        dao.CarRID,
		"tx":          dao.TransactionRID,
	}
	for cmd, want := range uu {
		rid, ok := a.Resolve(cmd)
		assert.True(t, ok, cmd)
		assert.Equal(t, want, rid, cmd)
	}

	_, ok := a.Resolve("pods")
	assert.False(t, ok)
}

func TestHotKeys(t *testing.T) {
	h := config.NewHotKeys()
	path := writeFile(t, "hotkeys.yaml", `hotKeys:
  shift-1:
    shortCut: Shift-1
    description: Charging sessions
    command: transactions
`)
	require.NoError(t, h.LoadFrom(path))
	assert.Equal(t, []string{"shift-1"}, h.Names())
	assert.Equal(t, "transactions", h.Get("shift-1").Command)
	assert.Nil(t, h.Get("shift-2"))

	bad := writeFile(t, "hotkeys.yaml", "hotKeys:\n  x:\n    shortCut: Shift-2\n")
	assert.ErrorContains(t, config.NewHotKeys().LoadFrom(bad), "command is required")
}
