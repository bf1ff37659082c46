package model1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/model1"
)

func TestReconcile(t *testing.T) {
	h := model1.Header{{ID: "name", Name: "NAME"}, {ID: "power", Name: "POWER"}}
	prev := model1.Reconcile(nil, h, model1.Rows{
		{ID: "a", Fields: model1.Fields{"a", "1 kW"}},
		{ID: "b", Fields: model1.Fields{"b", "2 kW"}},
	})
	prev.Range(func(_ int, re model1.RowEvent) bool {
		assert.Equal(t, model1.EventUnchanged, re.Kind)
		return true
	})

	next := model1.Reconcile(prev, h, model1.Rows{
		{ID: "b", Fields: model1.Fields{"b", "3 kW"}},
		{ID: "c", Fields: model1.Fields{"c", "1 kW"}},
		{ID: "a", Fields: model1.Fields{"a", "1 kW"}},
	})
	require.Equal(t, 3, next.Len())

	b, ok := next.Get("b")
	require.True(t, ok)
	assert.Equal(t, model1.EventUpdate, b.Kind)
	assert.Equal(t, model1.DeltaRow{"", "2 kW"}, b.Deltas)

	c, ok := next.Get("c")
	require.True(t, ok)
	assert.Equal(t, model1.EventAdd, c.Kind)

	a, ok := next.Get("a")
	require.True(t, ok)
	assert.Equal(t, model1.EventUnchanged, a.Kind)
}

func TestLess(t *testing.T) {
	uu := map[string]struct {
		number bool
		v1, v2 string
		e      bool
	}{
		"natural":  {v1: "asset2", v2: "asset10", e: true},
		"number":   {number: true, v1: "9.5 kW", v2: "10 kW", e: true},
		"thousand": {number: true, v1: "1,200", v2: "900", e: false},
		"tie":      {v1: "x", v2: "x", e: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, model1.Less(u.number, "1", "2", u.v1, u.v2))
		})
	}
}
