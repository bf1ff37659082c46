package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/evcon/evcon/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	Evcon   *Evcon `yaml:"evcon"`
	path    string
	tenants *Tenants
	mx      sync.RWMutex
}

// NewConfig creates a new Config with the given tenant settings.
func NewConfig(tenants *Tenants) *Config {
	return &Config{
		Evcon:   NewEvcon(),
		path:    AppConfigFile,
		tenants: tenants,
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.path = path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Evcon == nil {
		c.Evcon = NewEvcon()
	}
	c.Evcon.Validate()

	return nil
}

// Save saves the configuration.
// If force is false, only saves if the file already exists.
func (c *Config) Save(force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(c.path); err != nil && !force {
		return nil
	}
	if err := data.SaveYAML(c.path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", c.path, err)
	}

	return nil
}

// Refine applies CLI flags and the tenants file to settle the final
// configuration. The tenant is picked from, in order: --tenant, the config
// defaultTenant, the tenants file default, the only configured tenant.
func (c *Config) Refine(flags *data.Flags, tenants *Tenants) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Evcon == nil {
		return fmt.Errorf("config.Evcon is nil")
	}
	c.tenants = tenants

	var name string
	switch {
	case flags != nil && IsStringSet(flags.Tenant):
		name = *flags.Tenant
	case c.Evcon.DefaultTenant != "":
		name = c.Evcon.DefaultTenant
	default:
		var err error
		if name, err = tenants.DefaultName(); err != nil {
			return err
		}
	}

	if _, err := tenants.Get(name); err != nil {
		return err
	}
	if err := tenants.SetActive(name); err != nil {
		return err
	}
	if _, err := c.Evcon.ActivateTenant(name); err != nil {
		return fmt.Errorf("failed to activate tenant %q: %w", name, err)
	}
	c.Evcon.Override(flags)

	return nil
}

// Tenants returns the tenant connection profiles.
func (c *Config) Tenants() *Tenants {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.tenants
}

// ActiveTenant returns the connection settings of the active tenant.
func (c *Config) ActiveTenant() (*Tenant, error) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.tenants == nil {
		return nil, ErrNoTenant
	}
	return c.tenants.Get(c.Evcon.ActiveTenant())
}
