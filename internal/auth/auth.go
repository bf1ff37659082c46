// Package auth answers role and permission questions about the signed in user.
package auth

import (
	"fmt"
	"slices"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/evcon/evcon/internal/dao"
)

// Act is an operation on a resource.
type Act string

const (
	ActRead    Act = "read"
	ActCreate  Act = "create"
	ActUpdate  Act = "update"
	ActDelete  Act = "delete"
	ActStop    Act = "stop"
	ActRevoke  Act = "revoke"
	ActExport  Act = "export"
	ActRefresh Act = "retrieve"
)

// Component is an optional feature of a tenant.
type Component string

const (
	ComponentOrganization  Component = "organization"
	ComponentAsset         Component = "asset"
	ComponentCar           Component = "car"
	ComponentSmartCharging Component = "smartCharging"
	ComponentStatistics    Component = "statistics"
	ComponentPricing       Component = "pricing"
)

// Provider is queried synchronously when grids build their descriptors.
type Provider interface {
	Can(rid dao.ResourceID, act Act) bool
	IsSuperAdmin() bool
	IsAdmin() bool
	IsBasic() bool
	IsDemo() bool
	IsSiteAdmin(siteID string) bool
	HasSitesAdminRights() bool
	SitesAdmin() []string
	IsComponentActive(Component) bool
}

// Authorizer enforces role policies for one user session.
type Authorizer struct {
	session  dao.UserSession
	enforcer *casbin.Enforcer
}

var _ Provider = (*Authorizer)(nil)

func roleSubject(r dao.Role) string {
	return "role:" + string(r)
}

// rolePolicies lists what each role may do. Admins may do anything.
var rolePolicies = map[dao.Role][][2]string{
	dao.RoleSuperAdmin: {
		{"*", string(ActRead)},
	},
	dao.RoleAdmin: {
		{"*", "*"},
	},
	dao.RoleBasic: {
		{string(dao.AssetRID), string(ActRead)},
		{string(dao.CarRID), "*"},
		{string(dao.CarMakerRID), string(ActRead)},
		{string(dao.ChargingProfileRID), string(ActRead)},
		{string(dao.TransactionRID), string(ActRead)},
		{string(dao.TransactionRID), string(ActStop)},
		{string(dao.StatisticRID), string(ActRead)},
		{string(dao.StatisticRID), string(ActExport)},
	},
	dao.RoleDemo: {
		{"*", string(ActRead)},
	},
}

// NewAuthorizer returns an authorizer for the given session.
func NewAuthorizer(s dao.UserSession) (*Authorizer, error) {
	m := model.NewModel()
	m.AddDef("r", "r", "sub, obj, act")
	m.AddDef("p", "p", "sub, obj, act")
	m.AddDef("g", "g", "_, _")
	m.AddDef("e", "e", "some(where (p.eft == allow))")
	m.AddDef("m", "m", `g(r.sub, p.sub) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")`)
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	for role, pp := range rolePolicies {
		for _, p := range pp {
			if _, err := e.AddPolicy(roleSubject(role), p[0], p[1]); err != nil {
				return nil, fmt.Errorf("add policy %s: %w", role, err)
			}
		}
	}
	if _, err := e.AddGroupingPolicy(s.ID, roleSubject(s.Role)); err != nil {
		return nil, fmt.Errorf("assign role %s: %w", s.Role, err)
	}

	return &Authorizer{session: s, enforcer: e}, nil
}

// Session returns the session the authorizer was built for.
func (a *Authorizer) Session() dao.UserSession {
	return a.session
}

// Can returns true if the user may perform act on rid.
func (a *Authorizer) Can(rid dao.ResourceID, act Act) bool {
	ok, err := a.enforcer.Enforce(a.session.ID, string(rid), string(act))
	return err == nil && ok
}

func (a *Authorizer) IsSuperAdmin() bool { return a.session.Role == dao.RoleSuperAdmin }
func (a *Authorizer) IsAdmin() bool      { return a.session.Role == dao.RoleAdmin }
func (a *Authorizer) IsBasic() bool      { return a.session.Role == dao.RoleBasic }
func (a *Authorizer) IsDemo() bool       { return a.session.Role == dao.RoleDemo }

// IsSiteAdmin returns true if the user administers the site. Admins administer every site.
func (a *Authorizer) IsSiteAdmin(siteID string) bool {
	if a.IsAdmin() {
		return true
	}
	return siteID != "" && slices.Contains(a.session.SitesAdmin, siteID)
}

// HasSitesAdminRights returns true if the user administers at least one site.
func (a *Authorizer) HasSitesAdminRights() bool {
	return a.IsAdmin() || len(a.session.SitesAdmin) > 0
}

// SitesAdmin returns the sites the user administers.
func (a *Authorizer) SitesAdmin() []string {
	return slices.Clone(a.session.SitesAdmin)
}

// IsComponentActive returns true if the tenant enabled the component.
func (a *Authorizer) IsComponentActive(c Component) bool {
	return slices.Contains(a.session.ActiveComponents, string(c))
}
