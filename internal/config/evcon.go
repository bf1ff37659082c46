package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/evcon/evcon/internal/config/data"
)

// Default values
const (
	DefaultAPITimeout = 30 * time.Second
	DefaultView       = data.DefaultView
)

// Evcon represents the evcon global configuration.
type Evcon struct {
	RefreshRate   float32     `yaml:"refreshRate"`
	APITimeout    string      `yaml:"apiTimeout"`
	ReadOnly      bool        `yaml:"readOnly"`
	DefaultView   string      `yaml:"defaultView"`
	DefaultTenant string      `yaml:"defaultTenant,omitempty"`
	Grid          data.Grid   `yaml:"grid"`
	Export        data.Export `yaml:"export"`
	UI            data.UI     `yaml:"ui"`
	Logger        data.Logger `yaml:"logger"`

	// Internal state (not serialized)
	activeTenant  string
	activeContext *data.TenantContext
	command       string
	dir           *data.Dir
	mx            sync.RWMutex
}

// NewEvcon creates an Evcon with default settings.
func NewEvcon() *Evcon {
	return &Evcon{
		RefreshRate: DefaultRefreshRate,
		APITimeout:  DefaultAPITimeout.String(),
		DefaultView: DefaultView,
		Grid:        data.Grid{PageSize: data.DefaultPageSize, Debounce: data.DefaultDebounce},
		Logger:      data.Logger{Level: DefaultLogLevel},
		dir:         data.NewDir(),
	}
}

// SetDir overrides where tenant contexts are stored.
func (e *Evcon) SetDir(d *data.Dir) {
	e.mx.Lock()
	defer e.mx.Unlock()
	e.dir = d
}

// Validate ensures Evcon has valid settings.
func (e *Evcon) Validate() {
	e.mx.Lock()
	defer e.mx.Unlock()

	if e.RefreshRate <= 0 {
		e.RefreshRate = DefaultRefreshRate
	}
	if _, err := time.ParseDuration(e.APITimeout); err != nil {
		e.APITimeout = DefaultAPITimeout.String()
	}
	if e.DefaultView == "" {
		e.DefaultView = DefaultView
	}
	if e.Grid.PageSize <= 0 {
		e.Grid.PageSize = data.DefaultPageSize
	}
	if _, err := time.ParseDuration(e.Grid.Debounce); err != nil {
		e.Grid.Debounce = data.DefaultDebounce
	}
	if e.Logger.Level == "" {
		e.Logger.Level = DefaultLogLevel
	}
}

// ActiveTenant returns the currently active tenant.
func (e *Evcon) ActiveTenant() string {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return e.activeTenant
}

// ActiveContext returns the settings of the active tenant.
func (e *Evcon) ActiveContext() *data.TenantContext {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return e.activeContext
}

// ActivateTenant activates a tenant and loads its persisted settings.
func (e *Evcon) ActivateTenant(tenant string) (*data.TenantContext, error) {
	if tenant == "" {
		return nil, fmt.Errorf("tenant cannot be empty")
	}

	e.mx.Lock()
	defer e.mx.Unlock()

	ctx, err := e.dir.Load(tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for tenant %q: %w", tenant, err)
	}
	e.activeTenant = tenant
	e.activeContext = ctx

	return ctx, nil
}

// SaveContext persists the settings of the active tenant.
func (e *Evcon) SaveContext() error {
	e.mx.RLock()
	ctx, dir := e.activeContext, e.dir
	e.mx.RUnlock()

	if ctx == nil {
		return nil
	}
	return dir.Save(ctx)
}

// IsReadOnly returns true when writes are disabled globally or for the tenant.
func (e *Evcon) IsReadOnly() bool {
	e.mx.RLock()
	defer e.mx.RUnlock()

	if e.ReadOnly {
		return true
	}
	return e.activeContext != nil && e.activeContext.IsReadOnly()
}

// StartView returns the grid shown at startup: the --command flag, then
// the last grid of the tenant, then the configured default.
func (e *Evcon) StartView() string {
	e.mx.RLock()
	defer e.mx.RUnlock()

	if e.command != "" {
		return e.command
	}
	if e.activeContext != nil && e.activeContext.View != nil {
		return e.activeContext.GetView().Active
	}
	return e.DefaultView
}

// Override applies CLI flag overrides to the configuration.
func (e *Evcon) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	e.mx.Lock()
	defer e.mx.Unlock()

	if flags.RefreshRate != nil && *flags.RefreshRate > 0 {
		e.RefreshRate = *flags.RefreshRate
	}
	if IsBoolSet(flags.ReadOnly) {
		e.ReadOnly = true
	}
	// Write flag overrides ReadOnly
	if IsBoolSet(flags.Write) {
		e.ReadOnly = false
	}
	if IsStringSet(flags.LogLevel) {
		e.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		e.Logger.File = *flags.LogFile
	}
	if IsStringSet(flags.Command) {
		e.command = *flags.Command
	}
	if IsStringSet(flags.ExportTo) {
		e.Export.Destination = *flags.ExportTo
	}
}

// GetAPITimeout returns the parsed API timeout duration.
func (e *Evcon) GetAPITimeout() (time.Duration, error) {
	e.mx.RLock()
	timeoutStr := e.APITimeout
	e.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// GetRefreshRate returns the auto refresh interval.
func (e *Evcon) GetRefreshRate() time.Duration {
	e.mx.RLock()
	defer e.mx.RUnlock()

	return time.Duration(float64(e.RefreshRate) * float64(time.Second))
}

// GetDebounce returns the change notification coalescing delay.
func (e *Evcon) GetDebounce() time.Duration {
	e.mx.RLock()
	defer e.mx.RUnlock()

	d, err := time.ParseDuration(e.Grid.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}
