package dao_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/filter"
)

func TestQueryParams(t *testing.T) {
	q := dao.Query{
		Filters: filter.Values{"WithLogo": "true", "Search": "solar"},
		Paging:  dao.Paging{Index: 2, Size: 10},
		Sorting: []dao.Sorting{{Field: "name"}, {Field: "timestamp", Desc: true}},
	}

	assert.Empty(t, cmp.Diff(map[string]string{
		"WithLogo":   "true",
		"Search":     "solar",
		"Skip":       "20",
		"Limit":      "10",
		"SortFields": "name|-timestamp",
	}, q.Params()))
}

func TestPagingLastIndex(t *testing.T) {
	uu := map[string]struct {
		size, count, e int
	}{
		"empty":   {size: 10, count: 0, e: 0},
		"partial": {size: 10, count: 15, e: 1},
		"exact":   {size: 10, count: 20, e: 1},
		"over":    {size: 10, count: 25, e: 2},
		"nosize":  {size: 0, count: 25, e: 0},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, dao.Paging{Size: u.size}.LastIndex(u.count))
		})
	}
}

func TestTokenStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	uu := map[string]struct {
		tok dao.RegistrationToken
		e   dao.TokenStatus
	}{
		"valid":           {tok: dao.RegistrationToken{ExpirationDate: &future}, e: dao.TokenValid},
		"expired":         {tok: dao.RegistrationToken{ExpirationDate: &past}, e: dao.TokenExpired},
		"revoked":         {tok: dao.RegistrationToken{ExpirationDate: &future, RevocationDate: &past}, e: dao.TokenRevoked},
		"expired-revoked": {tok: dao.RegistrationToken{ExpirationDate: &past, RevocationDate: &past}, e: dao.TokenExpired},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, u.tok.Status(now))
		})
	}
}

func TestConsumptionTotals(t *testing.T) {
	var ss []dao.ConsumptionStat
	require.NoError(t, json.Unmarshal([]byte(`[
		{"month":1,"CS-1":2.5,"CS-2":1},
		{"month":0,"CS-1":10}
	]`), &ss))
	require.Len(t, ss, 2)
	assert.Equal(t, map[string]float64{"CS-1": 10}, ss[1].Values)

	tt := dao.Totals(ss)
	assert.Equal(t, []string{"CS-1", "CS-2"}, tt.Keys)
	assert.Equal(t, 13.5, tt.Total)
	assert.Equal(t, 3.5, tt.PerMonth[1])
	assert.Equal(t, 12.5, tt.PerKey["CS-1"])
}

func TestResolve(t *testing.T) {
	rid, ok := dao.Resolve("tx")
	assert.True(t, ok)
	assert.Equal(t, dao.TransactionRID, rid)

	rid, ok = dao.Resolve("assets")
	assert.True(t, ok)
	assert.Equal(t, dao.AssetRID, rid)

	_, ok = dao.Resolve("pods")
	assert.False(t, ok)
}
