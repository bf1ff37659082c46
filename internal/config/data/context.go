package data

import "sync"

// TenantContext holds the settings persisted for one tenant. They override
// the global configuration.
type TenantContext struct {
	Tenant       string       `yaml:"tenant"`
	ReadOnly     *bool        `yaml:"readOnly,omitempty"`
	View         *View        `yaml:"view,omitempty"`
	FeatureGates FeatureGates `yaml:"featureGates"`
	mx           sync.RWMutex `yaml:"-"`
}

// NewTenantContext creates a new TenantContext with default settings.
func NewTenantContext(tenant string) *TenantContext {
	return &TenantContext{
		Tenant:       tenant,
		FeatureGates: NewFeatureGates(),
	}
}

// Validate ensures the TenantContext has valid settings.
func (c *TenantContext) Validate() {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.View != nil {
		c.View.Validate()
	}
}

// GetView returns the current view, creating a default if nil.
func (c *TenantContext) GetView() *View {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.View == nil {
		return NewView()
	}
	return c.View
}

// SetView sets the current view.
func (c *TenantContext) SetView(v *View) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.View = v
}

// IsReadOnly returns whether this context is in read-only mode.
// Returns false if ReadOnly is nil.
func (c *TenantContext) IsReadOnly() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.ReadOnly == nil {
		return false
	}
	return *c.ReadOnly
}

// SetReadOnly sets the read-only mode for this context.
func (c *TenantContext) SetReadOnly(ro bool) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.ReadOnly = &ro
}

// Gates returns the feature gates.
func (c *TenantContext) Gates() FeatureGates {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.FeatureGates
}
