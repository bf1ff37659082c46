package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/auth"
	"github.com/evcon/evcon/internal/dao"
)

func TestAuthorizerCan(t *testing.T) {
	uu := map[string]struct {
		role dao.Role
		rid  dao.ResourceID
		act  auth.Act
		e    bool
	}{
		"admin-delete-asset": {role: dao.RoleAdmin, rid: dao.AssetRID, act: auth.ActDelete, e: true},
		"basic-read-asset":   {role: dao.RoleBasic, rid: dao.AssetRID, act: auth.ActRead, e: true},
		"basic-delete-asset": {role: dao.RoleBasic, rid: dao.AssetRID, act: auth.ActDelete},
		"basic-create-car":   {role: dao.RoleBasic, rid: dao.CarRID, act: auth.ActCreate, e: true},
		"basic-stop-tx":      {role: dao.RoleBasic, rid: dao.TransactionRID, act: auth.ActStop, e: true},
		"basic-tokens":       {role: dao.RoleBasic, rid: dao.RegistrationTokenRID, act: auth.ActRead},
		"demo-read":          {role: dao.RoleDemo, rid: dao.TransactionRID, act: auth.ActRead, e: true},
		"demo-stop":          {role: dao.RoleDemo, rid: dao.TransactionRID, act: auth.ActStop},
		"superadmin-read":    {role: dao.RoleSuperAdmin, rid: dao.CarRID, act: auth.ActRead, e: true},
		"superadmin-create":  {role: dao.RoleSuperAdmin, rid: dao.CarRID, act: auth.ActCreate},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			a, err := auth.NewAuthorizer(dao.UserSession{ID: "u1", Role: u.role})
			require.NoError(t, err)
			assert.Equal(t, u.e, a.Can(u.rid, u.act))
		})
	}
}

func TestAuthorizerSites(t *testing.T) {
	basic, err := auth.NewAuthorizer(dao.UserSession{
		ID:               "u1",
		Role:             dao.RoleBasic,
		SitesAdmin:       []string{"s1"},
		ActiveComponents: []string{"organization"},
	})
	require.NoError(t, err)

	assert.True(t, basic.IsSiteAdmin("s1"))
	assert.False(t, basic.IsSiteAdmin("s2"))
	assert.False(t, basic.IsSiteAdmin(""))
	assert.True(t, basic.HasSitesAdminRights())
	assert.True(t, basic.IsComponentActive(auth.ComponentOrganization))
	assert.False(t, basic.IsComponentActive(auth.ComponentAsset))

	admin, err := auth.NewAuthorizer(dao.UserSession{ID: "u2", Role: dao.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, admin.IsSiteAdmin("anything"))
	assert.True(t, admin.HasSitesAdminRights())
	assert.Empty(t, admin.SitesAdmin())
}
