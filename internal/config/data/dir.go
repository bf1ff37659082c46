package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// defaultTenantsDir is set by the config package during initialization.
// This avoids a circular import between data and config packages.
var defaultTenantsDir string

// SetDefaultTenantsDir sets the default tenants directory.
func SetDefaultTenantsDir(dir string) {
	defaultTenantsDir = dir
}

const contextFile = "config.yaml"

// Dir manages the per tenant configuration directories.
type Dir struct {
	root string
	mx   sync.RWMutex
}

// NewDir creates a new Dir using the default tenants directory.
// Note: SetDefaultTenantsDir must be called before using NewDir.
func NewDir() *Dir {
	return &Dir{
		root: defaultTenantsDir,
	}
}

// NewDirAt creates a new Dir at the specified root path.
func NewDirAt(root string) *Dir {
	return &Dir{
		root: root,
	}
}

// TenantPath returns the path to a tenant's configuration directory.
func (d *Dir) TenantPath(tenant string) string {
	d.mx.RLock()
	defer d.mx.RUnlock()

	return filepath.Join(d.root, SanitizeFileName(tenant))
}

// ConfigPath returns the path to a tenant's config.yaml file.
func (d *Dir) ConfigPath(tenant string) string {
	return filepath.Join(d.TenantPath(tenant), contextFile)
}

// Load loads the configuration of a tenant.
// Returns a default context if the file doesn't exist.
func (d *Dir) Load(tenant string) (*TenantContext, error) {
	ctx := NewTenantContext(tenant)
	if err := LoadYAML(d.ConfigPath(tenant), ctx); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ctx.Validate()
			return ctx, nil
		}
		return nil, fmt.Errorf("failed to load tenant config: %w", err)
	}
	ctx.Tenant = tenant
	ctx.Validate()

	return ctx, nil
}

// Save saves the configuration of a tenant.
func (d *Dir) Save(ctx *TenantContext) error {
	if ctx == nil || ctx.Tenant == "" {
		return fmt.Errorf("cannot save nil or anonymous tenant context")
	}
	if _, err := EnsureDirPath(d.TenantPath(ctx.Tenant), 0700); err != nil {
		return fmt.Errorf("failed to ensure tenant directory: %w", err)
	}

	ctx.mx.RLock()
	defer ctx.mx.RUnlock()
	if err := SaveYAML(d.ConfigPath(ctx.Tenant), ctx); err != nil {
		return fmt.Errorf("failed to save tenant config: %w", err)
	}

	return nil
}

// ListTenants returns the tenants that have a saved configuration.
func (d *Dir) ListTenants() ([]string, error) {
	d.mx.RLock()
	root := d.root
	d.mx.RUnlock()

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenants directory: %w", err)
	}

	var tenants []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), contextFile)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		tenants = append(tenants, entry.Name())
	}
	sort.Strings(tenants)

	return tenants, nil
}
