package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/ini.v1"

	"github.com/evcon/evcon/internal/central"
)

// Error represents a configuration error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNoTenant is returned when no tenant can be selected.
	ErrNoTenant Error = "no tenant configured"

	// ErrUnknownTenant is returned for names missing from the tenants file.
	ErrUnknownTenant Error = "unknown tenant"

	defaultTenantKey = "default_tenant"
)

// Tenant holds the connection settings of one tenant of the platform.
type Tenant struct {
	Name      string
	RESTURL   string
	SocketURL string
	Token     string
	PageSize  int
	Timeout   time.Duration
}

// ClientConfig returns the REST client settings of the tenant.
func (t *Tenant) ClientConfig() *central.ClientConfig {
	return &central.ClientConfig{
		Tenant:  t.Name,
		BaseURL: t.RESTURL,
		Token:   t.Token,
		Timeout: t.Timeout,
	}
}

// Tenants manages the tenants declared in an INI file, one section per tenant:
//
//	default_tenant = acme
//
//	[acme]
//	rest_url   = https://rest.acme.example
//	socket_url = wss://rest.acme.example/notifications
//	token_env  = ACME_TOKEN
//	page_size  = 50
type Tenants struct {
	tenants map[string]*Tenant
	dflt    string
	active  string
	mx      sync.RWMutex
}

// NewTenants returns an empty tenants registry.
func NewTenants() *Tenants {
	return &Tenants{tenants: make(map[string]*Tenant)}
}

// LoadTenants reads the tenants file. A missing file yields no tenants.
func LoadTenants(path string) (*Tenants, error) {
	t := NewTenants()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return t, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to access tenants file: %w", err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenants file: %w", err)
	}
	t.dflt = f.Section(ini.DefaultSection).Key(defaultTenantKey).String()

	for _, s := range f.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		tenant, err := tenantFrom(s)
		if err != nil {
			return nil, err
		}
		t.tenants[tenant.Name] = tenant
	}

	return t, nil
}

func tenantFrom(s *ini.Section) (*Tenant, error) {
	t := Tenant{
		Name:      s.Name(),
		RESTURL:   s.Key("rest_url").String(),
		SocketURL: s.Key("socket_url").String(),
		Token:     s.Key("token").String(),
		PageSize:  s.Key("page_size").MustInt(0),
		Timeout:   s.Key("timeout").MustDuration(DefaultAPITimeout),
	}
	if t.RESTURL == "" {
		return nil, fmt.Errorf("tenant %q: rest_url is required", t.Name)
	}
	if t.Token == "" && s.HasKey("token_env") {
		t.Token = os.Getenv(s.Key("token_env").String())
	}
	if t.SocketURL == "" {
		t.SocketURL = socketURLFor(t.RESTURL)
	}

	return &t, nil
}

// socketURLFor derives the notification socket from the REST endpoint.
func socketURLFor(rest string) string {
	u := strings.TrimSuffix(rest, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/notifications"
}

// Add registers a tenant.
func (t *Tenants) Add(tenant *Tenant) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.tenants[tenant.Name] = tenant
}

// Names returns the sorted tenant names.
func (t *Tenants) Names() []string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	names := make([]string, 0, len(t.tenants))
	for n := range t.tenants {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// DefaultName returns the tenant to use when none was asked for.
func (t *Tenants) DefaultName() (string, error) {
	t.mx.RLock()
	defer t.mx.RUnlock()

	if t.dflt != "" {
		return t.dflt, nil
	}
	if len(t.tenants) == 1 {
		for n := range t.tenants {
			return n, nil
		}
	}
	if len(t.tenants) == 0 {
		return "", ErrNoTenant
	}

	return "", fmt.Errorf("%w: pick one with --tenant or %s", ErrNoTenant, defaultTenantKey)
}

// Get returns a copy of the named tenant.
func (t *Tenants) Get(name string) (*Tenant, error) {
	t.mx.RLock()
	defer t.mx.RUnlock()

	tt, ok := t.tenants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTenant, name)
	}
	cp := *tt

	return &cp, nil
}

// SetActive sets the currently active tenant.
func (t *Tenants) SetActive(name string) error {
	t.mx.Lock()
	defer t.mx.Unlock()

	if _, ok := t.tenants[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTenant, name)
	}
	t.active = name

	return nil
}

// Active returns the name of the active tenant.
func (t *Tenants) Active() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.active
}
